package domain

import (
	"context"
	"time"
)

// Session is an authenticated identity issued by the hosted auth service:
// an opaque access token plus denormalized user attributes. It is held only
// in memory by the page controller and re-derived from the token on each
// page load. At most one Session is active per page context.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	Email        string
	ExpiresAt    time.Time
}

// AuthGateway defines the contract with the hosted authentication service.
// The Logic layer depends on this interface only — never on the Supabase
// client directly.
type AuthGateway interface {
	// SessionFromToken re-derives the Session behind an access token.
	// Returns (nil, nil) when the token is no longer valid.
	SessionFromToken(ctx context.Context, accessToken string) (*Session, error)

	// SignInWithPassword exchanges credentials for a Session.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// SignUp registers a new account. The account stays pending until the
	// user confirms the verification email; no Session is issued here.
	SignUp(ctx context.Context, email, password string) error

	// SignOut invalidates the session behind the given access token.
	SignOut(ctx context.Context, accessToken string) error
}
