// Package chat provides conversational text generation.
package chat

import (
	"context"
)

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of conversational context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is the interface for chat completion services.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Complete generates the next assistant turn for the given context.
	Complete(ctx context.Context, req Request) (string, error)
}

// Request configures one completion.
type Request struct {
	Model       string    // Provider-specific model
	System      string    // System instruction
	Messages    []Message // Conversation context, oldest first
	Temperature float64   // Sampling temperature (default 0.7)
	MaxTokens   int       // Completion token cap (default 400)
}
