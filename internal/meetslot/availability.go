package meetslot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// fallbackSlots is the fixed half-hour grid substituted when the backend
// cannot be reached: 09:00 through 16:30, skipping the 12:00 lunch hour.
var fallbackSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"13:00", "13:30", "14:00", "14:30", "15:00", "15:30",
	"16:00", "16:30",
}

// FallbackSlots returns a copy of the static fallback slot list.
func FallbackSlots() []string {
	out := make([]string, len(fallbackSlots))
	copy(out, fallbackSlots)
	return out
}

// SetSlotFallback toggles fallback substitution on availability failures.
// Enabled by default.
func (c *Client) SetSlotFallback(enabled bool) {
	c.noSlotFallback = !enabled
}

// FetchAvailableSlots returns the bookable time slots for one
// (meetingTypeID, date, timezone) triple. Slot order is preserved exactly as
// received. A missing or malformed meetingTypeID fails fast with a
// validation error before any network call. On transport or decode failure
// the static fallback list is substituted instead of an error, so the wizard
// is never blocked; the substitution is logged and flagged via Estimated.
func (c *Client) FetchAvailableSlots(ctx context.Context, meetingTypeID, date, timezone string) (AvailableSlots, error) {
	if err := validateMeetingTypeID(meetingTypeID); err != nil {
		return AvailableSlots{}, err
	}

	q := url.Values{}
	q.Set("date", date)
	q.Set("timezone", timezone)
	path := fmt.Sprintf("/meetings/public/%s/available-times?%s", url.PathEscape(meetingTypeID), q.Encode())

	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, nil, &raw); err != nil {
		return c.substituteFallback(meetingTypeID, date, timezone, err)
	}

	times, err := normalizeSlots(raw)
	if err != nil {
		return c.substituteFallback(meetingTypeID, date, timezone, err)
	}
	return AvailableSlots{Times: times}, nil
}

func (c *Client) substituteFallback(meetingTypeID, date, timezone string, cause error) (AvailableSlots, error) {
	if c.noSlotFallback {
		return AvailableSlots{Times: []string{}}, fmt.Errorf("get available slots: %w", cause)
	}
	c.logger.Warn("availability fetch failed, substituting fallback slots",
		"meeting_type_id", meetingTypeID,
		"date", date,
		"timezone", timezone,
		"error", cause,
	)
	return AvailableSlots{Times: FallbackSlots(), Estimated: true}, nil
}

// normalizeSlots flattens the three response shapes the backend has been
// observed to produce — a bare array, {"times": [...]}, or {"slots": [...]}
// — into one ordered list of time strings.
func normalizeSlots(raw json.RawMessage) ([]string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return []string{}, nil
	}

	var bare []string
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}

	var wrapped struct {
		Times []string `json:"times"`
		Slots []string `json:"slots"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("unrecognized availability shape: %w", err)
	}
	if wrapped.Times != nil {
		return wrapped.Times, nil
	}
	if wrapped.Slots != nil {
		return wrapped.Slots, nil
	}
	return []string{}, nil
}
