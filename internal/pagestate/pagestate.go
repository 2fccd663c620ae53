// Package pagestate owns the per-browser view state: the latest Session and
// the one-way show-auth latch. It is the single source of truth for "is a
// user authenticated" on a page.
//
// All session changes flow through Apply — the one writer — and are fanned
// out to watchers registered with Watch. The rendered view is a pure
// function of (latest session, latch); see Resolve.
package pagestate

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lorehq/lore-web/internal/core/domain"
)

// View is what the root controller renders for a page.
type View int

const (
	// ViewMarketing is the anonymous marketing site with the chat widget.
	ViewMarketing View = iota
	// ViewAuth is the login/sign-up form.
	ViewAuth
	// ViewProfile is the authenticated profile editor.
	ViewProfile
)

func (v View) String() string {
	switch v {
	case ViewAuth:
		return "auth"
	case ViewProfile:
		return "profile"
	default:
		return "marketing"
	}
}

// Resolve is the rendering rule. Session present wins regardless of the
// latch; the latch only matters while anonymous.
func Resolve(session *domain.Session, showAuth bool) View {
	if session != nil {
		return ViewProfile
	}
	if showAuth {
		return ViewAuth
	}
	return ViewMarketing
}

// Change is a session-change notification. A nil Session means the session
// was invalidated (sign-out or expiry).
type Change struct {
	Session *domain.Session
}

// Page is a read-only snapshot of one page context.
type Page struct {
	ID       string
	Session  *domain.Session
	ShowAuth bool
}

// View resolves the snapshot's rendered view.
func (p Page) View() View {
	return Resolve(p.Session, p.ShowAuth)
}

type pageEntry struct {
	session   *domain.Session
	showAuth  bool
	nextWatch int
	watchers  map[int]chan Change
}

// Store holds all live page contexts, keyed by page ID.
type Store struct {
	mu    sync.RWMutex
	pages map[string]*pageEntry
}

// NewStore creates an empty page-state store.
func NewStore() *Store {
	return &Store{pages: make(map[string]*pageEntry)}
}

// Create opens a new anonymous page context and returns its ID.
func (s *Store) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.pages[id] = &pageEntry{watchers: make(map[int]chan Change)}
	return id
}

// Ensure returns the page ID, creating the context if it is unknown.
func (s *Store) Ensure(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pages[id]; ok {
		return id
	}
	if id == "" {
		id = uuid.NewString()
	}
	s.pages[id] = &pageEntry{watchers: make(map[int]chan Change)}
	return id
}

// Snapshot returns the current state of a page context.
// Unknown pages read as anonymous with the latch unset.
func (s *Store) Snapshot(id string) Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.pages[id]
	if !ok {
		return Page{ID: id}
	}
	return Page{ID: id, Session: e.session, ShowAuth: e.showAuth}
}

// Apply records a session change and notifies every watcher. It is the only
// writer of the session value.
func (s *Store) Apply(id string, ch Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.pages[id]
	if !ok {
		return
	}
	e.session = ch.Session
	for _, w := range e.watchers {
		select {
		case w <- ch:
		default:
			// A watcher that stopped draining loses notifications rather
			// than blocking the writer.
		}
	}
}

// ShowAuth sets the one-way latch. Nothing ever resets it.
func (s *Store) ShowAuth(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.pages[id]; ok {
		e.showAuth = true
	}
}

// Watch subscribes to session changes on a page context. The returned cancel
// func MUST be called on teardown; the subscription never outlives the view
// that registered it.
func (s *Store) Watch(id string) (<-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.pages[id]
	if !ok {
		e = &pageEntry{watchers: make(map[int]chan Change)}
		s.pages[id] = e
	}

	key := e.nextWatch
	e.nextWatch++
	ch := make(chan Change, 4)
	e.watchers[key] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if entry, ok := s.pages[id]; ok {
			delete(entry.watchers, key)
		}
	}
	return ch, cancel
}
