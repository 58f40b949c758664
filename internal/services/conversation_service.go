package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"promptforge/internal/auth"
	"promptforge/internal/models"
	"promptforge/internal/repositories"
	apperrors "promptforge/pkg/errors"
)

// ConversationService owns the conversation list and the current selection.
// The in-memory list is an ordered snapshot of the store (last-activity
// descending); selection changes drive the message synchronizer's
// subscription lifecycle.
type ConversationService interface {
	List(ctx context.Context) ([]models.Conversation, error)
	Create(ctx context.Context, title string) (*models.Conversation, error)
	Select(ctx context.Context, conversation *models.Conversation) error
	Current() *models.Conversation
	Snapshot() []models.Conversation
	BumpActivity(conversationID string, at time.Time)
}

type conversationService struct {
	repo     repositories.ConversationRepository
	messages MessageService
	versions VersionService
	log      zerolog.Logger

	mu            sync.Mutex
	conversations []models.Conversation
	current       *models.Conversation
}

func NewConversationService(repo repositories.ConversationRepository, messages MessageService, versions VersionService, log zerolog.Logger) ConversationService {
	return &conversationService{repo: repo, messages: messages, versions: versions, log: log}
}

// List refreshes the conversation list for the current user. A failed
// refresh logs and returns the list already in memory so visible data is
// never erased by a transient read error.
func (s *conversationService) List(ctx context.Context) ([]models.Conversation, error) {
	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}

	conversations, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to fetch conversations")
		return s.Snapshot(), nil
	}

	s.mu.Lock()
	s.conversations = conversations
	s.mu.Unlock()
	return s.Snapshot(), nil
}

func (s *conversationService) Create(ctx context.Context, title string) (*models.Conversation, error) {
	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.ErrEmptyTitle
	}

	now := time.Now().UTC()
	conversation := &models.Conversation{
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, conversation); err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	s.mu.Lock()
	s.conversations = append([]models.Conversation{*conversation}, s.conversations...)
	s.mu.Unlock()

	// A fresh conversation becomes the selection and starts with an empty
	// version history.
	s.versions.Prime(conversation.ID)
	if err := s.Select(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// Select makes conversation the active one: the message list is cleared,
// the old subscription is torn down and, for a non-nil selection, a new
// one is opened before messages reload. Selecting nil just clears.
func (s *conversationService) Select(ctx context.Context, conversation *models.Conversation) error {
	s.mu.Lock()
	if conversation == nil {
		s.current = nil
	} else {
		picked := *conversation
		s.current = &picked
	}
	s.mu.Unlock()

	if conversation == nil {
		s.messages.Deactivate()
		return nil
	}
	return s.messages.Activate(ctx, conversation.ID)
}

func (s *conversationService) Current() *models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	current := *s.current
	return &current
}

func (s *conversationService) Snapshot() []models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// BumpActivity advances a conversation's last-activity time and re-sorts
// the in-memory list. The store write is best-effort: the ordering a user
// sees must not depend on a round trip succeeding.
func (s *conversationService) BumpActivity(conversationID string, at time.Time) {
	s.mu.Lock()
	for i := range s.conversations {
		if s.conversations[i].ID == conversationID && at.After(s.conversations[i].UpdatedAt) {
			s.conversations[i].UpdatedAt = at
		}
	}
	sort.SliceStable(s.conversations, func(i, j int) bool {
		return s.conversations[i].UpdatedAt.After(s.conversations[j].UpdatedAt)
	})
	if s.current != nil && s.current.ID == conversationID && at.After(s.current.UpdatedAt) {
		s.current.UpdatedAt = at
	}
	s.mu.Unlock()

	if err := s.repo.Touch(context.Background(), conversationID, at); err != nil {
		s.log.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to persist last-activity bump")
	}
}
