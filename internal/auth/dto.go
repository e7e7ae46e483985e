// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type SignupRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email"    validate:"required,email,max=254"`
}

// SignupResponse echoes the accepted identity. Warning is set when the
// account and code were created but the confirmation email could not
// be dispatched.
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Warning  string `json:"warning,omitempty"`
}

type TokenRequest struct {
	Username         string `json:"username"          validate:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}
