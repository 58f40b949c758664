package unit_tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"promptforge/internal/auth"
	"promptforge/internal/events"
	"promptforge/internal/models"
	"promptforge/internal/services"
	"promptforge/internal/tests/mocks"
	"promptforge/internal/utils"
	apperrors "promptforge/pkg/errors"
)

// storeFixture wires a message service against an in-memory change feed
// whose Create publishes the inserted row before returning, the same way
// the real repository (and a fast realtime channel) behaves.
func storeFixture(repo *mocks.MessageRepositoryMock) (services.MessageService, *events.MessageFeed) {
	feed := events.NewMessageFeed()
	if repo.CreateFunc == nil {
		repo.CreateFunc = func(ctx context.Context, m *models.Message) error {
			if m.ID == "" {
				m.ID = uuid.NewString()
			}
			feed.Publish(*m)
			return nil
		}
	}
	svc := services.NewMessageService(repo, feed, zerolog.Nop())
	return svc, feed
}

func userCtx() context.Context {
	return auth.WithUser(context.Background(), "user-1")
}

func TestMessageService_Append_RequiresUser(t *testing.T) {
	svc, _ := storeFixture(&mocks.MessageRepositoryMock{})
	utils.NilError(t, svc.Activate(userCtx(), "c1"))

	_, err := svc.Append(context.Background(), "hello", models.RoleUser)
	utils.Equal(t, apperrors.CodeOf(err), apperrors.CodeUnauthenticated)
}

func TestMessageService_Append_RequiresActiveConversation(t *testing.T) {
	svc, _ := storeFixture(&mocks.MessageRepositoryMock{})

	_, err := svc.Append(userCtx(), "hello", models.RoleUser)
	utils.Equal(t, apperrors.CodeOf(err), apperrors.CodeNoActiveConversation)
}

func TestMessageService_Append_PropagatesWriteFailure(t *testing.T) {
	repo := &mocks.MessageRepositoryMock{
		CreateFunc: func(ctx context.Context, m *models.Message) error {
			return errors.New("disk full")
		},
	}
	svc, _ := storeFixture(repo)
	utils.NilError(t, svc.Activate(userCtx(), "c1"))

	_, err := svc.Append(userCtx(), "hello", models.RoleUser)
	utils.Equal(t, apperrors.CodeOf(err), apperrors.CodePersistence)
	utils.Equal(t, len(svc.Messages()), 0)
}

// The store echoes the insert through the push channel before Append's own
// merge runs; the message must still appear exactly once.
func TestMessageService_Append_PushEchoBeforeResponseDoesNotDuplicate(t *testing.T) {
	svc, _ := storeFixture(&mocks.MessageRepositoryMock{})
	utils.NilError(t, svc.Activate(userCtx(), "c1"))

	msg, err := svc.Append(userCtx(), "hello", models.RoleUser)
	utils.NilError(t, err)

	list := svc.Messages()
	utils.Equal(t, len(list), 1)
	utils.Equal(t, list[0].ID, msg.ID)
	utils.Equal(t, list[0].Content, "hello")
}

func TestMessageService_PushDeliveryIsIdempotent(t *testing.T) {
	svc, feed := storeFixture(&mocks.MessageRepositoryMock{})
	utils.NilError(t, svc.Activate(userCtx(), "c1"))

	incoming := models.Message{
		ID:             "m-1",
		ConversationID: "c1",
		UserID:         "someone-else",
		Content:        "from another session",
		Role:           models.RoleUser,
		CreatedAt:      time.Now().UTC(),
	}
	feed.Publish(incoming)
	feed.Publish(incoming)

	utils.Equal(t, len(svc.Messages()), 1)
}

func TestMessageService_Activate_LoadsBacklogInOrder(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &mocks.MessageRepositoryMock{
		ListByConversationFunc: func(ctx context.Context, conversationID string) ([]models.Message, error) {
			return []models.Message{
				{ID: "m1", ConversationID: conversationID, CreatedAt: base},
				{ID: "m2", ConversationID: conversationID, CreatedAt: base.Add(time.Second)},
			}, nil
		},
	}
	svc, _ := storeFixture(repo)

	utils.Equal(t, svc.State(), services.StateIdle)
	utils.NilError(t, svc.Activate(userCtx(), "c1"))
	utils.Equal(t, svc.State(), services.StateSynced)

	list := svc.Messages()
	utils.Equal(t, len(list), 2)
	utils.Equal(t, list[0].ID, "m1")
	utils.Equal(t, list[1].ID, "m2")
}

func TestMessageService_Activate_LoadFailureKeepsEmptyListAndSyncs(t *testing.T) {
	repo := &mocks.MessageRepositoryMock{
		ListByConversationFunc: func(ctx context.Context, conversationID string) ([]models.Message, error) {
			return nil, errors.New("store unavailable")
		},
	}
	svc, feed := storeFixture(repo)

	utils.NilError(t, svc.Activate(userCtx(), "c1"))
	utils.Equal(t, svc.State(), services.StateSynced)
	utils.Equal(t, len(svc.Messages()), 0)

	// push events still apply after a failed backlog load
	feed.Publish(models.Message{ID: "m1", ConversationID: "c1", CreatedAt: time.Now().UTC()})
	utils.Equal(t, len(svc.Messages()), 1)
}

// A late event for a previously selected conversation must never land in
// the list of the conversation selected after it.
func TestMessageService_FastSwitchDiscardsStaleEvents(t *testing.T) {
	svc, feed := storeFixture(&mocks.MessageRepositoryMock{})

	utils.NilError(t, svc.Activate(userCtx(), "c1"))
	svc.Deactivate()
	utils.NilError(t, svc.Activate(userCtx(), "c2"))

	feed.Publish(models.Message{ID: "stale", ConversationID: "c1", CreatedAt: time.Now().UTC()})
	utils.Equal(t, len(svc.Messages()), 0)

	feed.Publish(models.Message{ID: "fresh", ConversationID: "c2", CreatedAt: time.Now().UTC()})
	list := svc.Messages()
	utils.Equal(t, len(list), 1)
	utils.Equal(t, list[0].ID, "fresh")
}

func TestMessageService_Deactivate_ClearsStateAndSubscription(t *testing.T) {
	svc, feed := storeFixture(&mocks.MessageRepositoryMock{})
	utils.NilError(t, svc.Activate(userCtx(), "c1"))

	svc.Deactivate()
	utils.Equal(t, svc.State(), services.StateIdle)

	feed.Publish(models.Message{ID: "late", ConversationID: "c1", CreatedAt: time.Now().UTC()})
	utils.Equal(t, len(svc.Messages()), 0)
}

func TestMessageService_MergedMessagesBumpActivity(t *testing.T) {
	svc, feed := storeFixture(&mocks.MessageRepositoryMock{})

	var bumped []string
	svc.SetActivityHook(func(conversationID string, at time.Time) {
		bumped = append(bumped, conversationID)
	})
	utils.NilError(t, svc.Activate(userCtx(), "c1"))

	_, err := svc.Append(userCtx(), "hello", models.RoleUser)
	utils.NilError(t, err)
	// one bump for the append, none extra for its push echo
	utils.Equal(t, len(bumped), 1)

	feed.Publish(models.Message{ID: "remote", ConversationID: "c1", CreatedAt: time.Now().UTC()})
	utils.Equal(t, len(bumped), 2)
	utils.Equal(t, bumped[1], "c1")
}
