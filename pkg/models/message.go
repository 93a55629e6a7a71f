package models

import "time"

// MessageRole is the role of a message's sender.
type MessageRole string

// Message roles, per the data model.
const (
	RoleUser      MessageRole = "user"
	RoleSystem    MessageRole = "system"
	RoleAssistant MessageRole = "assistant"
	RoleAgent     MessageRole = "agent"
)

// Message is an immutable, persisted conversational message. Messages are
// never mutated after creation — corrections are new messages.
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	Timestamp      time.Time   `json:"timestamp"`
}
