package mocks

import (
	"context"

	"promptforge/internal/models"
)

type ProjectVersionRepositoryMock struct {
	ListByConversationFunc func(ctx context.Context, conversationID string) ([]models.ProjectVersion, error)
	CreateFunc             func(ctx context.Context, v *models.ProjectVersion) error
	UpdateFunc             func(ctx context.Context, versionID, conversationID, summary, filesJSON string) (*models.ProjectVersion, error)
}

func (m *ProjectVersionRepositoryMock) ListByConversation(ctx context.Context, conversationID string) ([]models.ProjectVersion, error) {
	if m.ListByConversationFunc != nil {
		return m.ListByConversationFunc(ctx, conversationID)
	}
	return nil, nil
}

func (m *ProjectVersionRepositoryMock) Create(ctx context.Context, v *models.ProjectVersion) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, v)
	}
	return nil
}

func (m *ProjectVersionRepositoryMock) Update(ctx context.Context, versionID, conversationID, summary, filesJSON string) (*models.ProjectVersion, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, versionID, conversationID, summary, filesJSON)
	}
	return nil, nil
}
