package v1

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lorehq/lore-web/internal/core/domain"
	"github.com/lorehq/lore-web/internal/pagestate"
	"github.com/lorehq/lore-web/middleware"
)

// PageService is the root controller: it owns page contexts, re-derives the
// session on page load and resolves which view a page renders.
type PageService struct {
	pages *pagestate.Store
	auth  domain.AuthGateway
}

// NewPageService creates a new PageService.
func NewPageService(pages *pagestate.Store, auth domain.AuthGateway) *PageService {
	return &PageService{pages: pages, auth: auth}
}

// Ensure returns a usable page ID, opening a fresh anonymous context when
// the given one is empty or unknown.
func (s *PageService) Ensure(pageID string) string {
	return s.pages.Ensure(pageID)
}

// Current re-derives the page's session from its stored access token and
// returns the up-to-date snapshot. A token the auth service no longer
// recognizes clears the session through the regular change channel, so
// watchers observe the expiry like any other sign-out.
func (s *PageService) Current(ctx context.Context, pageID string) pagestate.Page {
	ctx, span := middleware.StartSpan(ctx, "page.current", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	page := s.pages.Snapshot(pageID)
	if page.Session == nil {
		return page
	}

	sess, err := s.auth.SessionFromToken(ctx, page.Session.AccessToken)
	if err != nil {
		span.RecordError(err)
	}
	if sess == nil {
		s.pages.Apply(pageID, pagestate.Change{Session: nil})
		page.Session = nil
		return page
	}

	span.SetAttributes(attribute.String("user.id", sess.UserID))
	s.pages.Apply(pageID, pagestate.Change{Session: sess})
	page.Session = sess
	return page
}

// Snapshot returns the page's stored state without re-deriving the session.
// Event streaming reads state this way; re-derivation stays a page-load
// concern.
func (s *PageService) Snapshot(pageID string) pagestate.Page {
	return s.pages.Snapshot(pageID)
}

// ShowAuth sets the page's one-way latch requesting the auth form.
func (s *PageService) ShowAuth(pageID string) {
	s.pages.ShowAuth(pageID)
}

// Watch subscribes to session changes on the page for the lifetime of a
// mounted view. Callers must invoke the cancel func on teardown.
func (s *PageService) Watch(pageID string) (<-chan pagestate.Change, func()) {
	return s.pages.Watch(pageID)
}
