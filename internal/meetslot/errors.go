package meetslot

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx response from the backend. Message carries the
// backend-provided text verbatim so handlers can surface it to the user.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("meetslot: backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("meetslot: backend returned %d: %s", e.StatusCode, e.Message)
}

// AsAPIError unwraps err into an *APIError if there is one in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ValidationError is a locally detected bad argument. It is always returned
// before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("meetslot: invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
