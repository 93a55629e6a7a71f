package models

import "time"

// ConversationContext is the mutable per-turn state owned exclusively by the
// orchestrator for the duration of a turn.
type ConversationContext struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	Messages       []Message      `json:"messages"`
	Plan           *Plan          `json:"plan,omitempty"`
	EmotionalState EmotionalState `json:"emotional_state"`
	CorrelationID  string         `json:"correlation_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// LastUserMessage returns the content of the most recent user-role message,
// or "" if none exists.
func (c *ConversationContext) LastUserMessage() string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i].Content
		}
	}
	return ""
}
