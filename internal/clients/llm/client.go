// Package llm defines the chat-completion client the chat orchestrator
// talks to. The provider is interchangeable; anything that can turn a
// message list into text can sit behind this interface.
package llm

import "context"

//go:generate mockgen -destination=mock/mock_client.go -package=llmmock github.com/openquest/gm-api/internal/clients/llm Client

// Message roles as the OpenAI-style chat API names them.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompleteInput contains the conversation to complete.
type CompleteInput struct {
	Messages []Message
}

// CompleteOutput contains the provider's reply text, unparsed.
type CompleteOutput struct {
	Text string
}

// Client produces chat completions. Implementations must return an
// UNAVAILABLE-coded error on provider failure so callers can
// distinguish "the AI is down" from "the AI said something unusable".
type Client interface {
	Complete(ctx context.Context, input CompleteInput) (*CompleteOutput, error)
}
