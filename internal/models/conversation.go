package models

import "time"

// Conversation is a titled thread of messages and generated project
// versions, owned by a single user. UpdatedAt doubles as the last-activity
// timestamp: it is bumped whenever a message lands in the conversation and
// drives the descending sort of conversation lists.
type Conversation struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	UserID    string    `gorm:"type:text;not null;index" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
