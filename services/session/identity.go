package session

import (
	"context"
	"errors"
	"time"

	"firebase.google.com/go/v4/auth"
)

// ErrAnonymous is returned when an operation needs a signed-in visitor.
var ErrAnonymous = errors.New("session: not signed in")

// Credential is what the identity provider hands out on sign-in.
type Credential struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	IDToken      string    `json:"idToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// IdentityProvider signs users in with email and password and renews their
// ID tokens.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*Credential, error)
	Refresh(ctx context.Context, refreshToken string) (*Credential, error)
}

// TokenVerifier checks an ID token before a session is accepted.
// *auth.Client from the Firebase Admin SDK satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthError is a rejection from the identity provider.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// CredentialError means a credential was issued but could not be turned
// into a usable bearer token.
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string {
	return "could not obtain a valid sign-in token: " + e.Err.Error()
}

func (e *CredentialError) Unwrap() error { return e.Err }
