package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"promptforge/internal/models"
)

type ConversationRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Conversation, error)
	Create(ctx context.Context, c *models.Conversation) error
	Touch(ctx context.Context, id string, at time.Time) error
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&conversations)
	if res.Error != nil {
		return nil, res.Error
	}
	return conversations, nil
}

func (r *conversationRepository) Create(ctx context.Context, c *models.Conversation) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

// Touch advances the conversation's last-activity timestamp. Used when a
// message lands so conversation lists re-sort by recency.
func (r *conversationRepository) Touch(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", at).Error
}
