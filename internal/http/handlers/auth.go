package handlers

import (
	"context"
	"net/http"

	"github.com/meetslot/meetslot-web/internal/meetslot"
	"github.com/meetslot/meetslot-web/pkg/logging"
)

// AuthBackend is the slice of the meetslot API used by the account pages.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*meetslot.AuthSession, error)
	Signup(ctx context.Context, name, email, password string) (*meetslot.AuthSession, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

// AuthHandler proxies the account pages' calls to the backend. The frontend
// never stores credentials or inspects tokens; it hands them through.
type AuthHandler struct {
	backend AuthBackend
	logger  *logging.Logger
}

// NewAuthHandler wires the account endpoints.
func NewAuthHandler(backend AuthBackend, logger *logging.Logger) *AuthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthHandler{backend: backend, logger: logger}
}

// Login exchanges credentials for a backend session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := h.backend.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Signup registers a new host account.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := h.backend.Signup(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// RequestPasswordReset asks the backend to send a reset email.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.backend.RequestPasswordReset(r.Context(), body.Email); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "reset email requested"})
}

// ResetPassword completes a reset with the emailed token.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.backend.ResetPassword(r.Context(), body.Token, body.Password); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
