package chat

import (
	"context"
	"sync"
	"time"
)

// memoryStore implements Store using an in-memory map with optimistic locking.
type memoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// Create implements Store.
func (s *memoryStore) Create(ctx context.Context, c *Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Version = 1

	s.conversations[c.ID] = snapshot(c)
	return nil
}

// Get implements Store.
func (s *memoryStore) Get(ctx context.Context, id string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.conversations[id]
	if !exists {
		return nil, nil
	}
	return snapshot(c), nil
}

// Update implements Store.
func (s *memoryStore) Update(ctx context.Context, c *Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.conversations[c.ID]
	if !exists {
		return ErrNotFound
	}

	if stored.Version != c.Version {
		return ErrVersionConflict
	}

	c.Version++
	c.UpdatedAt = time.Now()

	s.conversations[c.ID] = snapshot(c)
	return nil
}

// Delete implements Store.
func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conversations, id)
	return nil
}

// Close implements Store.
func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = nil
	return nil
}

// snapshot copies a conversation so callers cannot mutate stored state
// behind the lock.
func snapshot(c *Conversation) *Conversation {
	cp := *c
	cp.Transcript = append([]Entry(nil), c.Transcript...)
	return &cp
}
