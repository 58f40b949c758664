package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"promptforge/internal/auth"
	"promptforge/internal/events"
	"promptforge/internal/models"
	"promptforge/internal/repositories"
	apperrors "promptforge/pkg/errors"
)

// SyncState is the synchronizer's per-conversation lifecycle: Idle with no
// selection, Loading while the initial fetch runs, Synced once the list is
// live and push events apply.
type SyncState string

const (
	StateIdle    SyncState = "idle"
	StateLoading SyncState = "loading"
	StateSynced  SyncState = "synced"
)

// MessageService owns the ordered message list of the active conversation.
// Local optimistic appends and pushed inserts both go through the same
// identity-deduplicating merge, so a message can never appear twice no
// matter which path lands first.
type MessageService interface {
	Activate(ctx context.Context, conversationID string) error
	Deactivate()
	Append(ctx context.Context, content string, role models.MessageRole) (*models.Message, error)
	Messages() []models.Message
	State() SyncState
	SetActivityHook(hook func(conversationID string, at time.Time))
}

type messageService struct {
	repo repositories.MessageRepository
	feed *events.MessageFeed
	log  zerolog.Logger

	mu          sync.Mutex
	active      string
	state       SyncState
	messages    []models.Message
	unsubscribe func()

	activityHook func(conversationID string, at time.Time)
}

func NewMessageService(repo repositories.MessageRepository, feed *events.MessageFeed, log zerolog.Logger) MessageService {
	return &messageService{repo: repo, feed: feed, log: log, state: StateIdle}
}

// SetActivityHook registers the callback that bumps the owning
// conversation's last-activity time whenever a message lands. Set once at
// wiring time.
func (s *messageService) SetActivityHook(hook func(conversationID string, at time.Time)) {
	s.mu.Lock()
	s.activityHook = hook
	s.mu.Unlock()
}

// Activate selects conversationID: any previous subscription is torn down,
// the list is cleared, a new subscription opens, and the backlog loads.
// The subscription opens before the load so an insert arriving mid-fetch
// is merged rather than lost; the dedup merge absorbs the overlap.
func (s *messageService) Activate(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.active = conversationID
	s.state = StateLoading
	s.messages = nil

	// token pins the conversation this subscription was opened for; the
	// handler compares against it, never against the currently-active id,
	// so a late event after a fast switch cannot cross conversations.
	token := conversationID
	s.unsubscribe = s.feed.Subscribe(token, func(msg models.Message) {
		s.applyPush(token, msg)
	})
	s.mu.Unlock()

	fetched, err := s.repo.ListByConversation(ctx, conversationID)

	s.mu.Lock()
	if s.active != token {
		// Selection moved on while we were loading; drop the result.
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.log.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to fetch messages")
	} else {
		for _, msg := range fetched {
			s.messages, _ = mergeMessage(s.messages, msg)
		}
	}
	s.state = StateSynced
	s.mu.Unlock()
	return nil
}

// Deactivate clears the selection and tears the subscription down before
// returning.
func (s *messageService) Deactivate() {
	s.mu.Lock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.active = ""
	s.state = StateIdle
	s.messages = nil
	s.mu.Unlock()
}

// Append persists a new message in the active conversation and merges it
// into the local list. The store publishes the insert to the push channel
// during Create, so by the time the direct merge runs the row may already
// be present; the merge is a no-op then.
func (s *messageService) Append(ctx context.Context, content string, role models.MessageRole) (*models.Message, error) {
	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}

	s.mu.Lock()
	token := s.active
	s.mu.Unlock()
	if token == "" {
		return nil, apperrors.ErrNoActiveConversation
	}

	msg := &models.Message{
		ConversationID: token,
		UserID:         userID,
		Content:        content,
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	s.mu.Lock()
	changed := false
	if s.active == token {
		s.messages, changed = mergeMessage(s.messages, *msg)
	}
	hook := s.activityHook
	s.mu.Unlock()

	if changed && hook != nil {
		hook(token, msg.CreatedAt)
	}
	return msg, nil
}

func (s *messageService) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *messageService) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// applyPush merges one push-delivered insert. Events for a conversation
// other than the one the subscription was opened for are discarded, as are
// duplicates of rows the optimistic path already merged.
func (s *messageService) applyPush(token string, msg models.Message) {
	s.mu.Lock()
	if s.active != token || msg.ConversationID != token {
		s.mu.Unlock()
		return
	}
	var changed bool
	s.messages, changed = mergeMessage(s.messages, msg)
	hook := s.activityHook
	s.mu.Unlock()

	if changed && hook != nil {
		hook(token, msg.CreatedAt)
	}
}
