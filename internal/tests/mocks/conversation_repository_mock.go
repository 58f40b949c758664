package mocks

import (
	"context"
	"time"

	"promptforge/internal/models"
)

type ConversationRepositoryMock struct {
	ListByUserFunc func(ctx context.Context, userID string) ([]models.Conversation, error)
	CreateFunc     func(ctx context.Context, c *models.Conversation) error
	TouchFunc      func(ctx context.Context, id string, at time.Time) error
}

func (m *ConversationRepositoryMock) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *ConversationRepositoryMock) Create(ctx context.Context, c *models.Conversation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *ConversationRepositoryMock) Touch(ctx context.Context, id string, at time.Time) error {
	if m.TouchFunc != nil {
		return m.TouchFunc(ctx, id, at)
	}
	return nil
}
