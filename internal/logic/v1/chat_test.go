package v1

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorehq/lore-web/internal/chat"
)

func newChatService(t *testing.T, model *fakeChatModel) (*ChatService, chat.Store) {
	t.Helper()
	store, err := chat.NewStore(chat.StoreTypeMemory)
	require.NoError(t, err)
	return NewChatService(store, model), store
}

func TestOpen_FreshTranscriptHasExactlyOneGreeting(t *testing.T) {
	svc, _ := newChatService(t, &fakeChatModel{})

	conv, err := svc.Open(context.Background())
	require.NoError(t, err)

	require.Len(t, conv.Transcript, 1)
	assert.Equal(t, chat.SenderBot, conv.Transcript[0].Sender)
	assert.Equal(t, Greeting, conv.Transcript[0].Text)
	assert.False(t, conv.Pending)
}

func TestSend_EmptyAndWhitespaceTextIsANoOp(t *testing.T) {
	model := &fakeChatModel{reply: "hi"}
	svc, store := newChatService(t, model)
	conv, _ := svc.Open(context.Background())

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.Send(context.Background(), conv.ID, text)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}

	stored, _ := store.Get(context.Background(), conv.ID)
	assert.Len(t, stored.Transcript, 1)
	assert.Zero(t, model.newCalls, "no model session is created for ignored sends")
}

func TestSend_AppendsUserAndBotTurnsInOrder(t *testing.T) {
	model := &fakeChatModel{reply: "Lore keeps family history safe."}
	svc, _ := newChatService(t, model)
	conv, _ := svc.Open(context.Background())

	got, err := svc.Send(context.Background(), conv.ID, "What is Lore?")
	require.NoError(t, err)

	require.Len(t, got.Transcript, 3)
	assert.Equal(t, chat.SenderUser, got.Transcript[1].Sender)
	assert.Equal(t, "What is Lore?", got.Transcript[1].Text)
	assert.Equal(t, chat.SenderBot, got.Transcript[2].Sender)
	assert.Equal(t, "Lore keeps family history safe.", got.Transcript[2].Text)
	assert.False(t, got.Pending)
}

func TestSend_WhileTurnOutstandingIsIgnoredNotQueued(t *testing.T) {
	model := &fakeChatModel{
		reply:        "answer",
		firstEntered: make(chan struct{}),
		firstGate:    make(chan struct{}),
	}
	svc, store := newChatService(t, model)
	conv, _ := svc.Open(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Send(context.Background(), conv.ID, "first")
		done <- err
	}()
	<-model.firstEntered

	// Second send arrives while the first turn is outstanding.
	_, err := svc.Send(context.Background(), conv.ID, "second")
	assert.ErrorIs(t, err, ErrTurnInFlight)

	// Only the first user entry made it into the transcript.
	stored, _ := store.Get(context.Background(), conv.ID)
	require.Len(t, stored.Transcript, 2)
	assert.Equal(t, "first", stored.Transcript[1].Text)
	assert.True(t, stored.Pending)

	close(model.firstGate)
	require.NoError(t, <-done)

	stored, _ = store.Get(context.Background(), conv.ID)
	assert.Len(t, stored.Transcript, 3)
	assert.False(t, stored.Pending)
	assert.Equal(t, []string{"first"}, model.sentTexts)
}

func TestSend_FreshClaimStillBlocks(t *testing.T) {
	model := &fakeChatModel{reply: "answer"}
	svc, store := newChatService(t, model)
	conv, _ := svc.Open(context.Background())

	stored, _ := store.Get(context.Background(), conv.ID)
	stored.Pending = true
	stored.ClaimedAt = time.Now()
	require.NoError(t, store.Update(context.Background(), stored))

	_, err := svc.Send(context.Background(), conv.ID, "hello")
	assert.ErrorIs(t, err, ErrTurnInFlight)
}

func TestSend_StaleClaimIsReclaimed(t *testing.T) {
	model := &fakeChatModel{reply: "recovered"}
	svc, store := newChatService(t, model)
	conv, _ := svc.Open(context.Background())

	// A claim whose holder died mid-turn, long past the timeout.
	stored, _ := store.Get(context.Background(), conv.ID)
	stored.Pending = true
	stored.ClaimedAt = time.Now().Add(-claimTimeout - time.Minute)
	require.NoError(t, store.Update(context.Background(), stored))

	got, err := svc.Send(context.Background(), conv.ID, "are you there?")
	require.NoError(t, err)
	assert.False(t, got.Pending)
	assert.Equal(t, "recovered", got.Transcript[len(got.Transcript)-1].Text)
}

func TestSend_ModelFailureBecomesApologyReply(t *testing.T) {
	model := &fakeChatModel{sendErr: errors.New("quota exceeded")}
	svc, _ := newChatService(t, model)
	conv, _ := svc.Open(context.Background())

	got, err := svc.Send(context.Background(), conv.ID, "hello")
	require.NoError(t, err, "a model failure is not an error to the caller")

	require.Len(t, got.Transcript, 3)
	assert.Equal(t, chat.SenderBot, got.Transcript[2].Sender)
	assert.Equal(t, apologyReply, got.Transcript[2].Text)
	assert.False(t, got.Pending)
}

func TestSend_SessionCreationFailureAlsoBecomesApology(t *testing.T) {
	model := &fakeChatModel{newErr: errors.New("api key invalid")}
	svc, _ := newChatService(t, model)
	conv, _ := svc.Open(context.Background())

	got, err := svc.Send(context.Background(), conv.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, apologyReply, got.Transcript[2].Text)
}

func TestSend_ModelSessionCreatedOncePerConversation(t *testing.T) {
	model := &fakeChatModel{reply: "ok"}
	svc, _ := newChatService(t, model)
	conv, _ := svc.Open(context.Background())

	for i := 0; i < 3; i++ {
		_, err := svc.Send(context.Background(), conv.ID, "turn")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, model.newCalls)
}

func TestSend_UnknownConversation(t *testing.T) {
	svc, _ := newChatService(t, &fakeChatModel{})

	_, err := svc.Send(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestClose_RemountStartsFromGreetingAgain(t *testing.T) {
	model := &fakeChatModel{reply: "ok"}
	svc, _ := newChatService(t, model)

	conv, _ := svc.Open(context.Background())
	_, err := svc.Send(context.Background(), conv.ID, "hello")
	require.NoError(t, err)

	require.NoError(t, svc.Close(context.Background(), conv.ID))
	_, err = svc.Transcript(context.Background(), conv.ID)
	assert.ErrorIs(t, err, ErrConversationNotFound)

	fresh, _ := svc.Open(context.Background())
	assert.NotEqual(t, conv.ID, fresh.ID)
	assert.Len(t, fresh.Transcript, 1)
}
