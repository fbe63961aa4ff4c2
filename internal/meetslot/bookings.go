package meetslot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// SubmitBooking posts one finalized booking. Exactly one network call is
// made and never retried here; retry is the caller's decision. The
// idempotency key rides in a header so the backend can deduplicate
// double-clicks and user-driven retries.
func (c *Client) SubmitBooking(ctx context.Context, req BookingRequest) (*BookingConfirmation, error) {
	if err := validateMeetingTypeID(req.MeetingTypeID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Date) == "" {
		return nil, &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.Time) == "" {
		return nil, &ValidationError{Field: "time", Reason: "must not be empty"}
	}

	var headers map[string]string
	if req.IdempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": req.IdempotencyKey}
	}

	var conf BookingConfirmation
	path := fmt.Sprintf("/meetings/public/%s/bookings", url.PathEscape(req.MeetingTypeID))
	if err := c.doJSON(ctx, http.MethodPost, path, "", headers, req, &conf); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return &conf, nil
}

// ListBookings returns one page of the authenticated host's bookings.
func (c *Client) ListBookings(ctx context.Context, token string, page, limit int) (*BookingPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var out BookingPage
	if err := c.doJSON(ctx, http.MethodGet, "/bookings?"+q.Encode(), token, nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if out.Page == 0 {
		out.Page = page
	}
	return &out, nil
}

// CancelBooking cancels one of the host's bookings.
func (c *Client) CancelBooking(ctx context.Context, token, bookingID string) error {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return &ValidationError{Field: "bookingId", Reason: "must not be empty"}
	}
	path := fmt.Sprintf("/bookings/%s", url.PathEscape(bookingID))
	if err := c.doJSON(ctx, http.MethodDelete, path, token, nil, nil, nil); err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	return nil
}
