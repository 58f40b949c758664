package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"promptforge/internal/events"
	"promptforge/internal/models"
)

type MessageRepository interface {
	ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
	Create(ctx context.Context, m *models.Message) error
}

type messageRepository struct {
	db   *gorm.DB
	feed *events.MessageFeed
}

// NewMessageRepository returns a repository that also publishes every
// committed insert to the change feed, mirroring a store-side row-insert
// subscription.
func NewMessageRepository(db *gorm.DB, feed *events.MessageFeed) MessageRepository {
	return &messageRepository{db: db, feed: feed}
}

func (r *messageRepository) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	var messages []models.Message
	res := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at asc, id asc").
		Find(&messages)
	if res.Error != nil {
		return nil, res.Error
	}
	return messages, nil
}

func (r *messageRepository) Create(ctx context.Context, m *models.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	// The feed delivers the row before Create returns to its caller, the
	// same ordering a fast realtime channel can produce.
	if r.feed != nil {
		r.feed.Publish(*m)
	}
	return nil
}
