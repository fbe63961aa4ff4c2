package meetslot

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// emailPattern is the signup-layer email check. The public booking wizard
// intentionally only requires a non-empty email; account signup is stricter.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Login exchanges credentials for a backend-issued session token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthSession, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, &ValidationError{Field: "credentials", Reason: "email and password are required"}
	}
	body := map[string]string{"email": email, "password": password}
	var sess AuthSession
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", nil, body, &sess); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &sess, nil
}

// Signup registers a new host account.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*AuthSession, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return nil, &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if len(password) < 8 {
		return nil, &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	body := map[string]string{"name": name, "email": email, "password": password}
	var sess AuthSession
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signup", "", nil, body, &sess); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	return &sess, nil
}

// RequestPasswordReset asks the backend to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	body := map[string]string{"email": email}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/password-reset", "", nil, body, nil); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	return nil
}

// ResetPassword completes a password reset with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if strings.TrimSpace(resetToken) == "" {
		return &ValidationError{Field: "token", Reason: "must not be empty"}
	}
	if len(newPassword) < 8 {
		return &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	body := map[string]string{"token": resetToken, "password": newPassword}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/password-reset/confirm", "", nil, body, nil); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}
