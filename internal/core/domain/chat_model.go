package domain

import "context"

// Conversation is a stateful handle onto one conversational session with the
// generative-language backend. The system instruction is fixed at creation
// and never changes for the life of the handle.
type Conversation interface {
	// Send forwards one user turn and returns the generated reply.
	Send(ctx context.Context, text string) (string, error)
}

// ChatModel defines the contract with the generative-language service.
type ChatModel interface {
	// NewConversation opens a conversational session configured with the
	// fixed product persona.
	NewConversation(ctx context.Context) (Conversation, error)

	// DescribeImage issues one stateless description request carrying the
	// raw image bytes, their MIME type and the fixed archival prompt.
	DescribeImage(ctx context.Context, data []byte, mimeType string) (string, error)
}
