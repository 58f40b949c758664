package unit_tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"promptforge/internal/models"
	"promptforge/internal/services"
	"promptforge/internal/tests/mocks"
	"promptforge/internal/utils"
	apperrors "promptforge/pkg/errors"
)

// stubBackend implements services.GenerationBackend.
type stubBackend struct {
	response string
	err      error
	prompts  []string
}

func (b *stubBackend) GenerateProject(ctx context.Context, prompt string) (string, error) {
	b.prompts = append(b.prompts, prompt)
	if b.err != nil {
		return "", b.err
	}
	return b.response, nil
}

// stubRegistry implements services.ConversationService with a fixed
// selection; the pipeline only ever reads Current.
type stubRegistry struct {
	current *models.Conversation
}

func (s *stubRegistry) List(ctx context.Context) ([]models.Conversation, error) { return nil, nil }
func (s *stubRegistry) Create(ctx context.Context, title string) (*models.Conversation, error) {
	return nil, nil
}
func (s *stubRegistry) Select(ctx context.Context, c *models.Conversation) error { return nil }
func (s *stubRegistry) Current() *models.Conversation                            { return s.current }
func (s *stubRegistry) Snapshot() []models.Conversation                          { return nil }
func (s *stubRegistry) BumpActivity(conversationID string, at time.Time)         {}

func pipelineFixture(backend *stubBackend, current *models.Conversation) (services.GenerationService, *mocks.ProjectVersionRepositoryMock) {
	repo := &mocks.ProjectVersionRepositoryMock{}
	repo.CreateFunc = func(ctx context.Context, v *models.ProjectVersion) error {
		v.ID = uuid.NewString()
		return nil
	}
	versions := services.NewVersionService(repo, zerolog.Nop())
	pipeline := services.NewGenerationService(backend, &stubRegistry{current: current}, versions, zerolog.Nop())
	return pipeline, repo
}

func TestGenerationService_RequiresActiveConversation(t *testing.T) {
	pipeline, _ := pipelineFixture(&stubBackend{}, nil)

	_, err := pipeline.Generate(context.Background(), "a todo app")
	utils.Equal(t, apperrors.CodeOf(err), apperrors.CodeNoActiveConversation)
}

func TestGenerationService_RequiresPrompt(t *testing.T) {
	pipeline, _ := pipelineFixture(&stubBackend{}, &models.Conversation{ID: "c1"})

	_, err := pipeline.Generate(context.Background(), "   ")
	utils.Equal(t, apperrors.CodeOf(err), apperrors.CodeInvalidArgument)
}

func TestGenerationService_BackendFailurePersistsNothing(t *testing.T) {
	backendErr := errors.New("upstream 503")
	backend := &stubBackend{err: backendErr}
	persisted := false
	pipeline, repo := pipelineFixture(backend, &models.Conversation{ID: "c1"})
	inner := repo.CreateFunc
	repo.CreateFunc = func(ctx context.Context, v *models.ProjectVersion) error {
		persisted = true
		return inner(ctx, v)
	}

	_, err := pipeline.Generate(context.Background(), "a todo app")
	utils.Equal(t, apperrors.CodeOf(err), apperrors.CodeGenerationBackend)
	if !errors.Is(err, backendErr) {
		t.Fatalf("backend cause not surfaced: %v", err)
	}
	utils.Equal(t, persisted, false)
}

func TestGenerationService_InvalidOutputPersistsNothing(t *testing.T) {
	cases := map[string]apperrors.Code{
		"the model said something chatty": apperrors.CodeMalformedOutput,
		`"just a string"`:                 apperrors.CodeUnexpectedShape,
		`42`:                              apperrors.CodeUnexpectedShape,
	}
	for raw, wantCode := range cases {
		persisted := false
		pipeline, repo := pipelineFixture(&stubBackend{response: raw}, &models.Conversation{ID: "c1"})
		inner := repo.CreateFunc
		repo.CreateFunc = func(ctx context.Context, v *models.ProjectVersion) error {
			persisted = true
			return inner(ctx, v)
		}

		_, err := pipeline.Generate(context.Background(), "a todo app")
		utils.Equal(t, apperrors.CodeOf(err), wantCode)
		utils.Equal(t, persisted, false)
	}
}

func TestGenerationService_AcceptedOutputBecomesVersion(t *testing.T) {
	backend := &stubBackend{
		response: "```json\n{\"summary\":\"a tiny page\",\"files\":[{\"name\":\"index.html\",\"content\":\"<p>hi</p>\"}]}\n```",
	}
	pipeline, _ := pipelineFixture(backend, &models.Conversation{ID: "c1"})

	version, err := pipeline.Generate(context.Background(), "a tiny page please")
	utils.NilError(t, err)
	utils.Equal(t, version.ConversationID, "c1")
	utils.Equal(t, version.Summary, "a tiny page")

	project, err := version.Project()
	utils.NilError(t, err)
	utils.Equal(t, len(project.Files), 1)
	utils.Equal(t, project.Files[0].Name, "index.html")

	utils.Equal(t, len(backend.prompts), 1)
	utils.Equal(t, backend.prompts[0], "a tiny page please")
}
