package models

import "time"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one immutable turn in a conversation. There is no update or
// delete path: rows are only ever inserted. Ordering within a conversation
// is CreatedAt ascending with ID as the tiebreak so the order is stable
// even when two rows share a timestamp.
type Message struct {
	ID             string      `gorm:"type:text;primaryKey" json:"id"`
	ConversationID string      `gorm:"type:text;not null;index" json:"conversation_id"`
	UserID         string      `gorm:"type:text;not null" json:"user_id"`
	Content        string      `gorm:"type:text;not null" json:"content"`
	Role           MessageRole `gorm:"size:16;not null" json:"role"`
	CreatedAt      time.Time   `json:"created_at"`
}
