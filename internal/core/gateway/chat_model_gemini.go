package gateway

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/lorehq/lore-web/internal/core/domain"
)

// Persona configured once per conversation; it never changes for the life of
// a handle.
const systemInstruction = "You are LoreBot, a friendly and helpful assistant for Lore, " +
	"a platform for preserving family and community history. Your goal is to answer " +
	"questions about the Lore product based on its features: visual family trees for " +
	"any community, an AI assistant, combined timeline/tree/storage, a social feed, " +
	"and secure archiving. Be encouraging and keep your answers concise and clear. " +
	"Do not go off-topic."

const imagePrompt = "Analyze this photo from a family or community archive. Describe " +
	"what you see, including people, setting, and potential time period. Suggest what " +
	"stories or questions this photo might inspire someone to ask their relatives. Be " +
	"descriptive and evocative."

// GeminiChatModel implements domain.ChatModel on the official Gemini SDK.
type GeminiChatModel struct {
	client *genai.Client
	model  string
}

// NewChatModel creates a GeminiChatModel for the given API key and model name.
func NewChatModel(ctx context.Context, apiKey, model string) (*GeminiChatModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiChatModel{client: client, model: model}, nil
}

// NewConversation opens a conversational session configured with the fixed
// product persona.
func (m *GeminiChatModel) NewConversation(ctx context.Context) (domain.Conversation, error) {
	chat, err := m.client.Chats.Create(ctx, m.model, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}
	return &geminiConversation{chat: chat}, nil
}

// DescribeImage issues one stateless description request for the image.
func (m *GeminiChatModel) DescribeImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{Data: data, MIMEType: mimeType}},
			{Text: imagePrompt},
		},
	}}
	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("describe image: %w", err)
	}
	return resp.Text(), nil
}

type geminiConversation struct {
	chat *genai.Chat
}

// Send forwards one user turn through the stateful chat session.
func (c *geminiConversation) Send(ctx context.Context, text string) (string, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("send chat turn: %w", err)
	}
	return resp.Text(), nil
}

// Compile-time check that GeminiChatModel implements ChatModel.
var _ domain.ChatModel = (*GeminiChatModel)(nil)
