// Package chat stores widget conversation state: the append-only transcript
// and the single-flight pending flag, keyed by conversation ID. Transcripts
// live only for the life of a widget mount; nothing survives a page reload.
package chat

import "time"

// Sender identifies who produced a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Entry is one transcript turn.
type Entry struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// Conversation is the serializable state of one mounted chat widget.
//
// Pending is the single-flight guard: true while a turn is outstanding.
// A send observed while Pending is ignored, never queued. Version implements
// optimistic locking so two racing sends cannot both win the flag.
// ClaimedAt records when the flag was taken; a claim whose holder died
// mid-turn is reclaimable once it goes stale.
type Conversation struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Version    int64     `json:"version"`
	Transcript []Entry   `json:"transcript"`
	Pending    bool      `json:"pending"`
	ClaimedAt  time.Time `json:"claimed_at"`
}
