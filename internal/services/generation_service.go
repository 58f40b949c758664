package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"promptforge/internal/artifact"
	"promptforge/internal/models"
	apperrors "promptforge/pkg/errors"
)

// GenerationBackend is the external text-generation endpoint: prompt in,
// unstructured text out. Implemented by internal/llm/client and by test
// stubs.
type GenerationBackend interface {
	GenerateProject(ctx context.Context, prompt string) (string, error)
}

// GenerationService orchestrates one generation cycle: backend call,
// validation, persistence. It never writes messages; the caller appends
// the prompt before Generate and the summary after.
//
// Concurrent Generate calls for the same conversation are not serialized;
// avoiding them is the caller's obligation.
type GenerationService interface {
	Generate(ctx context.Context, prompt string) (*models.ProjectVersion, error)
}

type generationService struct {
	backend       GenerationBackend
	conversations ConversationService
	versions      VersionService
	log           zerolog.Logger
}

func NewGenerationService(backend GenerationBackend, conversations ConversationService, versions VersionService, log zerolog.Logger) GenerationService {
	return &generationService{backend: backend, conversations: conversations, versions: versions, log: log}
}

// Generate runs the prompt through the backend, validates the raw output
// into a project and persists it as a new version of the active
// conversation. Nothing is persisted on a backend or validation failure.
func (s *generationService) Generate(ctx context.Context, prompt string) (*models.ProjectVersion, error) {
	current := s.conversations.Current()
	if current == nil {
		return nil, apperrors.ErrNoActiveConversation
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, apperrors.InvalidArg("prompt is required")
	}

	raw, err := s.backend.GenerateProject(ctx, prompt)
	if err != nil {
		return nil, apperrors.ErrGenerationBackend(err)
	}

	project, err := artifact.Parse(raw)
	if err != nil {
		s.log.Warn().Err(err).Str("conversation_id", current.ID).Msg("generation output rejected")
		return nil, err
	}

	version, err := s.versions.Save(ctx, current.ID, project)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("conversation_id", current.ID).
		Str("version_id", version.ID).
		Int("files", len(project.Files)).
		Msg("generated project version saved")
	return version, nil
}
