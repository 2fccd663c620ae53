// Package gateway holds clients for the remote SaaS services the site
// delegates to: the hosted auth service and the generative-language API.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"

	"github.com/lorehq/lore-web/internal/core/domain"
)

// GotrueAuthGateway implements domain.AuthGateway against the hosted
// Supabase auth service.
type GotrueAuthGateway struct {
	client *supabase.Client
}

// NewAuthGateway creates a new GotrueAuthGateway.
func NewAuthGateway(client *supabase.Client) *GotrueAuthGateway {
	return &GotrueAuthGateway{client: client}
}

// SessionFromToken re-derives the Session behind an access token.
// Returns (nil, nil) when the remote service no longer recognizes the token.
func (g *GotrueAuthGateway) SessionFromToken(ctx context.Context, accessToken string) (*domain.Session, error) {
	if accessToken == "" {
		return nil, nil
	}
	resp, err := g.client.Auth.WithToken(accessToken).GetUser()
	if err != nil {
		// The auth service rejects expired and revoked tokens with an
		// error; either way there is no live session behind the token.
		return nil, nil
	}
	return &domain.Session{
		AccessToken: accessToken,
		UserID:      resp.ID.String(),
		Email:       resp.Email,
	}, nil
}

// SignInWithPassword exchanges credentials for a Session.
func (g *GotrueAuthGateway) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	resp, err := g.client.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		// Returned unwrapped: the auth form surfaces this message to the
		// user verbatim.
		return nil, err
	}
	return &domain.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.User.ID.String(),
		Email:        resp.User.Email,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

// SignUp registers a new account; the account stays pending email
// verification and no Session is issued.
func (g *GotrueAuthGateway) SignUp(ctx context.Context, email, password string) error {
	_, err := g.client.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
	})
	// Returned unwrapped, same as sign-in.
	return err
}

// SignOut invalidates the session behind the given access token.
func (g *GotrueAuthGateway) SignOut(ctx context.Context, accessToken string) error {
	if err := g.client.Auth.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Compile-time check that GotrueAuthGateway implements AuthGateway.
var _ domain.AuthGateway = (*GotrueAuthGateway)(nil)
