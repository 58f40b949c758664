package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"promptforge/internal/models"
)

type ProjectVersionRepository interface {
	ListByConversation(ctx context.Context, conversationID string) ([]models.ProjectVersion, error)
	Create(ctx context.Context, v *models.ProjectVersion) error
	Update(ctx context.Context, versionID, conversationID, summary, filesJSON string) (*models.ProjectVersion, error)
}

type projectVersionRepository struct {
	db *gorm.DB
}

func NewProjectVersionRepository(db *gorm.DB) ProjectVersionRepository {
	return &projectVersionRepository{db: db}
}

func (r *projectVersionRepository) ListByConversation(ctx context.Context, conversationID string) ([]models.ProjectVersion, error) {
	var versions []models.ProjectVersion
	res := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at desc").
		Find(&versions)
	if res.Error != nil {
		return nil, res.Error
	}
	return versions, nil
}

func (r *projectVersionRepository) Create(ctx context.Context, v *models.ProjectVersion) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(v).Error
}

// Update replaces summary and files on the row matching BOTH identifiers.
// Requiring the conversation id alongside the version id means a colliding
// version id from another conversation can never be overwritten.
func (r *projectVersionRepository) Update(ctx context.Context, versionID, conversationID, summary, filesJSON string) (*models.ProjectVersion, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ProjectVersion{}).
		Where("id = ? AND conversation_id = ?", versionID, conversationID).
		Updates(map[string]interface{}{"summary": summary, "files": filesJSON})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var updated models.ProjectVersion
	if err := r.db.WithContext(ctx).
		Where("id = ? AND conversation_id = ?", versionID, conversationID).
		Take(&updated).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &updated, nil
}
