package meetslot

import (
	"context"
	"fmt"
	"net/http"
)

// FetchTimezones retrieves the canonical timezone catalog. On failure the
// caller gets an explicit error and an empty list; no fallback catalog is
// synthesized, so callers can render a retry affordance.
func (c *Client) FetchTimezones(ctx context.Context) ([]TimezoneEntry, error) {
	var wrapped struct {
		All []TimezoneEntry `json:"all"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/timezones", "", nil, nil, &wrapped); err != nil {
		return nil, fmt.Errorf("get timezones: %w", err)
	}
	return wrapped.All, nil
}
