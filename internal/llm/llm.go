// Package llm is the gateway to the hosted language model behind the
// idea-discovery chat.
package llm

import "context"

// Transcript roles as stored in conversations.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client generates the next assistant reply for a conversation history.
type Client interface {
	Converse(ctx context.Context, history []Message) (string, error)
}
