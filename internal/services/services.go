package services

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"promptforge/internal/events"
	"promptforge/internal/repositories"
)

// DbServices aggregates all domain services backed by the database.
// Fields use plural names (e.g., Conversations) to align with Go
// conventions seen in service/store containers.
type DbServices struct {
	Conversations ConversationService
	Messages      MessageService
	Versions      VersionService
}

// NewDbServices constructs the service container using repositories backed
// by db, wiring the message change feed and the activity hook that keeps
// conversation ordering in step with message flow.
func NewDbServices(db *gorm.DB, feed *events.MessageFeed, log zerolog.Logger) *DbServices {
	conversationRepo := repositories.NewConversationRepository(db)
	messageRepo := repositories.NewMessageRepository(db, feed)
	versionRepo := repositories.NewProjectVersionRepository(db)

	messages := NewMessageService(messageRepo, feed, log)
	versions := NewVersionService(versionRepo, log)
	conversations := NewConversationService(conversationRepo, messages, versions, log)
	messages.SetActivityHook(conversations.BumpActivity)

	return &DbServices{
		Conversations: conversations,
		Messages:      messages,
		Versions:      versions,
	}
}
