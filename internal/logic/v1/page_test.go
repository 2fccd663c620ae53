package v1

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorehq/lore-web/internal/core/domain"
	"github.com/lorehq/lore-web/internal/pagestate"
)

func TestCurrent_AnonymousPageRendersMarketing(t *testing.T) {
	pages := pagestate.NewStore()
	svc := NewPageService(pages, &fakeAuthGateway{})

	id := svc.Ensure("")
	page := svc.Current(context.Background(), id)

	assert.Nil(t, page.Session)
	assert.Equal(t, pagestate.ViewMarketing, page.View())
}

func TestCurrent_ShowAuthLatchSwitchesToAuthForm(t *testing.T) {
	pages := pagestate.NewStore()
	svc := NewPageService(pages, &fakeAuthGateway{})

	id := svc.Ensure("")
	svc.ShowAuth(id)

	page := svc.Current(context.Background(), id)
	assert.Equal(t, pagestate.ViewAuth, page.View())
}

func TestCurrent_LiveSessionRendersProfileRegardlessOfLatch(t *testing.T) {
	sess := &domain.Session{AccessToken: "tok", UserID: "u1", Email: "a@b.c"}
	auth := &fakeAuthGateway{sessionsByToken: map[string]*domain.Session{"tok": sess}}
	pages := pagestate.NewStore()
	svc := NewPageService(pages, auth)

	id := svc.Ensure("")
	svc.ShowAuth(id)
	pages.Apply(id, pagestate.Change{Session: sess})

	page := svc.Current(context.Background(), id)
	require.NotNil(t, page.Session)
	assert.Equal(t, pagestate.ViewProfile, page.View())
}

func TestCurrent_StaleTokenClearsSessionAndKeepsLatch(t *testing.T) {
	sess := &domain.Session{AccessToken: "expired", UserID: "u1"}
	auth := &fakeAuthGateway{sessionsByToken: map[string]*domain.Session{}}
	pages := pagestate.NewStore()
	svc := NewPageService(pages, auth)

	id := svc.Ensure("")
	svc.ShowAuth(id)
	pages.Apply(id, pagestate.Change{Session: sess})

	page := svc.Current(context.Background(), id)
	assert.Nil(t, page.Session)
	// The latch is one-way: expiry does not reset it.
	assert.Equal(t, pagestate.ViewAuth, page.View())
}

func TestCurrent_SessionClearNotifiesWatchers(t *testing.T) {
	sess := &domain.Session{AccessToken: "gone", UserID: "u1"}
	pages := pagestate.NewStore()
	svc := NewPageService(pages, &fakeAuthGateway{})

	id := svc.Ensure("")
	pages.Apply(id, pagestate.Change{Session: sess})

	ch, cancel := svc.Watch(id)
	defer cancel()

	svc.Current(context.Background(), id)

	select {
	case change := <-ch:
		assert.Nil(t, change.Session)
	default:
		t.Fatal("expected a session-clear notification")
	}
}
