package auth

import "encoding/json"

// LoginRequest captures the credentials posted to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is what the panel hands back after a successful login. The
// bearer token itself stays in the session store.
type LoginResponse struct {
	User json.RawMessage `json:"user,omitempty"`
}

type loginPayload struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}
