// Package types defines the shared data model for tutoring sessions.
package types

import (
	"time"
)

// Role identifies the author of a conversation message.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Profile is the learner identity supplied by the profile layer.
// It is an immutable input; the service never stores or mutates it
// beyond parametrizing the system prompt.
type Profile struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the unit of continuity for one learner's conversation.
// It is owned by the store; callers hold only a transient reference
// for the duration of one request.
type Session struct {
	ID           string    `json:"id"`
	Profile      Profile   `json:"profile"`
	SystemPrompt string    `json:"system_prompt"`
	Conversation []Message `json:"conversation"`
	StartTime    time.Time `json:"start_time"`
	LastUpdated  time.Time `json:"last_updated"`
}

// RecentConversation returns up to n of the most recent turns.
// The slice aliases the session's conversation; callers must not mutate it.
func (s *Session) RecentConversation(n int) []Message {
	if s == nil || n <= 0 {
		return nil
	}
	if len(s.Conversation) <= n {
		return s.Conversation
	}
	return s.Conversation[len(s.Conversation)-n:]
}

// Correction is an auxiliary annotation extracted from assistant text.
// It is derived metadata and is never stored independently of the
// message it came from.
type Correction struct {
	Type    string `json:"type"`
	Correct string `json:"correct"`
}
