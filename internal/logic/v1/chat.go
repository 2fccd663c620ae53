package v1

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lorehq/lore-web/internal/chat"
	"github.com/lorehq/lore-web/internal/core/domain"
	"github.com/lorehq/lore-web/middleware"
)

// Greeting seeds every fresh transcript; it is the only entry before any
// user action.
const Greeting = "Hi! I'm LoreBot. How can I help you learn about the Lore platform today?"

// apologyReply replaces the model output on any failure. It enters the
// transcript as a regular bot turn, indistinguishable from a real answer.
const apologyReply = "I'm having a little trouble connecting right now. Please try again in a moment."

// claimTimeout bounds how long a pending claim is honored. A process that
// dies between claiming a turn and clearing it would otherwise leave the
// conversation ignoring every later send for the rest of its life in the
// shared store.
const claimTimeout = 2 * time.Minute

// ChatService runs the widget's turn model: one conversation per widget
// mount, strictly serialized turns, append-only transcript.
type ChatService struct {
	store chat.Store
	model domain.ChatModel
	now   func() time.Time

	// Live model handles, one per conversation, created lazily on the first
	// turn and reused until the conversation closes.
	mu      sync.Mutex
	handles map[string]domain.Conversation
}

// NewChatService creates a new ChatService over the given conversation store.
func NewChatService(store chat.Store, model domain.ChatModel) *ChatService {
	return &ChatService{
		store:   store,
		model:   model,
		now:     time.Now,
		handles: make(map[string]domain.Conversation),
	}
}

// Open starts a conversation for a freshly mounted widget, seeded with the
// single greeting entry. The model session itself is not created yet.
func (s *ChatService) Open(ctx context.Context) (*chat.Conversation, error) {
	c := &chat.Conversation{
		ID:         uuid.NewString(),
		Transcript: []chat.Entry{{Sender: chat.SenderBot, Text: Greeting}},
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Transcript returns the conversation's current state.
func (s *ChatService) Transcript(ctx context.Context, id string) (*chat.Conversation, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrConversationNotFound
	}
	return c, nil
}

// Send runs one user turn. Empty text is a no-op (ErrEmptyMessage); a turn
// arriving while another is outstanding is ignored, not queued
// (ErrTurnInFlight). The user entry is appended optimistically before the
// model is called; a model failure becomes the fixed apology reply.
func (s *ChatService) Send(ctx context.Context, id, text string) (*chat.Conversation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	ctx, span := middleware.StartSpan(ctx, "chat.send", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("conversation.id", id),
	))
	defer span.End()

	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrConversationNotFound
	}
	// A stale claim means its holder died mid-turn; reclaim it instead of
	// ignoring sends for the rest of the conversation's life.
	if c.Pending && s.now().Sub(c.ClaimedAt) < claimTimeout {
		return nil, ErrTurnInFlight
	}

	// Claim the single-flight window. Losing the version race means another
	// send claimed it first; that is the same ignore, not an error to retry.
	c.Pending = true
	c.ClaimedAt = s.now()
	c.Transcript = append(c.Transcript, chat.Entry{Sender: chat.SenderUser, Text: text})
	if err := s.store.Update(ctx, c); err != nil {
		if errors.Is(err, chat.ErrVersionConflict) {
			return nil, ErrTurnInFlight
		}
		return nil, err
	}

	reply := s.turn(ctx, id, text)

	c, err = s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		// Widget unmounted while the turn was outstanding.
		return nil, ErrConversationNotFound
	}
	c.Transcript = append(c.Transcript, chat.Entry{Sender: chat.SenderBot, Text: reply})
	c.Pending = false
	c.ClaimedAt = time.Time{}
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Close tears the conversation down with the widget.
func (s *ChatService) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.handles, id)
	s.mu.Unlock()
	return s.store.Delete(ctx, id)
}

// turn forwards the text through the conversation's model handle. Any
// failure, including a failed lazy handle creation, yields the apology.
func (s *ChatService) turn(ctx context.Context, id, text string) string {
	h, err := s.handle(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("conversation_id", id).Msg("Chat session creation failed")
		return apologyReply
	}
	reply, err := h.Send(ctx, text)
	if err != nil {
		log.Error().Err(err).Str("conversation_id", id).Msg("Chat turn failed")
		return apologyReply
	}
	return reply
}

// handle returns the conversation's model handle, creating it exactly once
// on first use. Sends on one conversation are serialized by the pending
// flag, so creation is never raced per ID.
func (s *ChatService) handle(ctx context.Context, id string) (domain.Conversation, error) {
	s.mu.Lock()
	h, ok := s.handles[id]
	s.mu.Unlock()
	if ok {
		return h, nil
	}

	h, err := s.model.NewConversation(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.handles[id] = h
	s.mu.Unlock()
	return h, nil
}
