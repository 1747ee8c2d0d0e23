package auth

import (
	"time"

	"backend-hoursledger/internal/session"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// SignInResult is the full outcome of a successful sign-in: the identity,
// the provider-issued session handle, and the bearer token carrying both.
type SignInResult struct {
	User    User            `json:"user"`
	Session session.Session `json:"session"`
	Tokens  TokenResponse   `json:"tokens"`
}
