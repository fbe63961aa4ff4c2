package meetslot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// validateMeetingTypeID rejects ids that are empty or would mangle the
// request path, before any network call.
func validateMeetingTypeID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return &ValidationError{Field: "meetingTypeId", Reason: "must not be empty"}
	}
	if strings.ContainsAny(id, " /?#%") {
		return &ValidationError{Field: "meetingTypeId", Reason: "contains illegal characters"}
	}
	return nil
}

// GetPublicMeetingType fetches the public snapshot of a meeting type for the
// booking wizard. No authentication required.
func (c *Client) GetPublicMeetingType(ctx context.Context, meetingTypeID string) (*MeetingType, error) {
	if err := validateMeetingTypeID(meetingTypeID); err != nil {
		return nil, err
	}
	var mt MeetingType
	path := fmt.Sprintf("/meetings/public/%s", url.PathEscape(meetingTypeID))
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, nil, &mt); err != nil {
		return nil, fmt.Errorf("get public meeting type: %w", err)
	}
	return &mt, nil
}

// ListMeetingTypes returns the authenticated host's meeting types.
func (c *Client) ListMeetingTypes(ctx context.Context, token string) ([]MeetingType, error) {
	var wrapped struct {
		Meetings []MeetingType `json:"meetings"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/meetings", token, nil, nil, &wrapped); err != nil {
		return nil, fmt.Errorf("list meeting types: %w", err)
	}
	return wrapped.Meetings, nil
}

// CreateMeetingType creates a meeting type for the authenticated host.
func (c *Client) CreateMeetingType(ctx context.Context, token string, mt MeetingType) (*MeetingType, error) {
	var created MeetingType
	if err := c.doJSON(ctx, http.MethodPost, "/meetings", token, nil, mt, &created); err != nil {
		return nil, fmt.Errorf("create meeting type: %w", err)
	}
	return &created, nil
}

// UpdateMeetingType updates an existing meeting type.
func (c *Client) UpdateMeetingType(ctx context.Context, token string, mt MeetingType) (*MeetingType, error) {
	if err := validateMeetingTypeID(mt.ID); err != nil {
		return nil, err
	}
	var updated MeetingType
	path := fmt.Sprintf("/meetings/%s", url.PathEscape(mt.ID))
	if err := c.doJSON(ctx, http.MethodPut, path, token, nil, mt, &updated); err != nil {
		return nil, fmt.Errorf("update meeting type: %w", err)
	}
	return &updated, nil
}

// DeleteMeetingType removes a meeting type.
func (c *Client) DeleteMeetingType(ctx context.Context, token, meetingTypeID string) error {
	if err := validateMeetingTypeID(meetingTypeID); err != nil {
		return err
	}
	path := fmt.Sprintf("/meetings/%s", url.PathEscape(meetingTypeID))
	if err := c.doJSON(ctx, http.MethodDelete, path, token, nil, nil, nil); err != nil {
		return fmt.Errorf("delete meeting type: %w", err)
	}
	return nil
}
