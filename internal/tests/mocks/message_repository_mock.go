package mocks

import (
	"context"

	"promptforge/internal/models"
)

type MessageRepositoryMock struct {
	ListByConversationFunc func(ctx context.Context, conversationID string) ([]models.Message, error)
	CreateFunc             func(ctx context.Context, m *models.Message) error
}

func (m *MessageRepositoryMock) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	if m.ListByConversationFunc != nil {
		return m.ListByConversationFunc(ctx, conversationID)
	}
	return nil, nil
}

func (m *MessageRepositoryMock) Create(ctx context.Context, msg *models.Message) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, msg)
	}
	return nil
}
