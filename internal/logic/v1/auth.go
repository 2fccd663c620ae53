package v1

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lorehq/lore-web/internal/core/domain"
	"github.com/lorehq/lore-web/internal/pagestate"
	"github.com/lorehq/lore-web/middleware"
)

// Mode selects which auth endpoint a submission hits.
type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
)

// Fixed form messages. Sign-up success never issues a session; it only
// reminds the user to verify their email.
const (
	loginSuccessMessage  = "Logged in successfully!"
	signupSuccessMessage = "Please check your email for verification!"
)

// SubmitRequest carries one auth form submission.
type SubmitRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Mode     Mode   `json:"mode" binding:"required"`
}

// SubmitResult is what the form renders after a submission. ClearFields is
// true only on sign-up success; a failed login keeps the fields intact.
type SubmitResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	ClearFields bool   `json:"clear_fields"`
}

// AuthService implements the login/sign-up form logic on top of the hosted
// auth service.
type AuthService struct {
	auth  domain.AuthGateway
	pages *pagestate.Store
}

// NewAuthService creates a new AuthService.
func NewAuthService(auth domain.AuthGateway, pages *pagestate.Store) *AuthService {
	return &AuthService{auth: auth, pages: pages}
}

// Submit runs one form submission. Login and sign-up are mutually exclusive
// per submission; a remote error is surfaced verbatim and never retried.
// On login success the session change is published to the page context — the
// view transition happens through the controller's subscription, not here.
func (s *AuthService) Submit(ctx context.Context, pageID string, req SubmitRequest) SubmitResult {
	ctx, span := middleware.StartSpan(ctx, "auth.submit", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("mode", string(req.Mode)),
	))
	defer span.End()

	switch req.Mode {
	case ModeSignup:
		if err := s.auth.SignUp(ctx, req.Email, req.Password); err != nil {
			span.RecordError(err)
			span.AddEvent("registration.failed")
			return SubmitResult{Message: err.Error()}
		}
		span.AddEvent("user.registered")
		return SubmitResult{Success: true, Message: signupSuccessMessage, ClearFields: true}

	default: // login
		sess, err := s.auth.SignInWithPassword(ctx, req.Email, req.Password)
		if err != nil {
			span.RecordError(err)
			span.AddEvent("authentication.failed")
			return SubmitResult{Message: err.Error()}
		}
		span.SetAttributes(attribute.String("user.id", sess.UserID))
		span.AddEvent("user.authenticated")
		s.pages.Apply(pageID, pagestate.Change{Session: sess})
		return SubmitResult{Success: true, Message: loginSuccessMessage}
	}
}

// SignOut invalidates the page's session at the auth service and publishes
// the session-clear change. Rendering returns to the marketing view through
// the controller; the show-auth latch is left untouched.
func (s *AuthService) SignOut(ctx context.Context, pageID string) {
	ctx, span := middleware.StartSpan(ctx, "auth.sign_out", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	page := s.pages.Snapshot(pageID)
	if page.Session != nil {
		if err := s.auth.SignOut(ctx, page.Session.AccessToken); err != nil {
			// The local session is cleared regardless.
			span.RecordError(err)
			log.Warn().Err(err).Msg("Remote sign-out failed")
		}
	}
	s.pages.Apply(pageID, pagestate.Change{Session: nil})
}
