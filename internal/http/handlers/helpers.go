package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meetslot/meetslot-web/internal/meetslot"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

// writeBackendError maps a client-layer error onto our response: validation
// errors are the caller's fault, backend errors keep their status and
// message verbatim, anything else is a generic connectivity failure.
func writeBackendError(w http.ResponseWriter, err error) {
	if meetslot.IsValidation(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if apiErr, ok := meetslot.AsAPIError(err); ok {
		status := apiErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		writeError(w, status, apiErr.Message)
		return
	}
	writeError(w, http.StatusBadGateway, "could not reach the scheduling service, please try again")
}

// bearerToken extracts the opaque backend token from the Authorization
// header. Empty when absent or malformed.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}
