package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"promptforge/internal/artifact"
	"promptforge/internal/models"
	"promptforge/internal/repositories"
	apperrors "promptforge/pkg/errors"
)

// VersionService is the append/update-only ledger of generated project
// versions. Versions are never deleted, so a conversation's full
// generation history is always recoverable. Which version is "current" is
// the consumer's decision; the ledger only orders by recency.
type VersionService interface {
	List(ctx context.Context, conversationID string) ([]models.ProjectVersion, error)
	Save(ctx context.Context, conversationID string, project artifact.GeneratedProject) (*models.ProjectVersion, error)
	Update(ctx context.Context, versionID, conversationID string, project artifact.GeneratedProject) (*models.ProjectVersion, error)
	Prime(conversationID string)
	Cached(conversationID string) []models.ProjectVersion
}

type versionService struct {
	repo repositories.ProjectVersionRepository
	log  zerolog.Logger

	mu    sync.Mutex
	cache map[string][]models.ProjectVersion
}

func NewVersionService(repo repositories.ProjectVersionRepository, log zerolog.Logger) VersionService {
	return &versionService{repo: repo, log: log, cache: make(map[string][]models.ProjectVersion)}
}

// List refreshes the version history for a conversation, newest first. A
// failed refresh logs and serves the cached history instead of erasing it.
func (s *versionService) List(ctx context.Context, conversationID string) ([]models.ProjectVersion, error) {
	versions, err := s.repo.ListByConversation(ctx, conversationID)
	if err != nil {
		s.log.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to fetch project versions")
		return s.Cached(conversationID), nil
	}

	s.mu.Lock()
	s.cache[conversationID] = versions
	s.mu.Unlock()
	return s.Cached(conversationID), nil
}

// Save inserts a new version and prepends it to the cached history.
func (s *versionService) Save(ctx context.Context, conversationID string, project artifact.GeneratedProject) (*models.ProjectVersion, error) {
	filesJSON, err := marshalFiles(project.Files)
	if err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	now := time.Now().UTC()
	version := &models.ProjectVersion{
		ConversationID: conversationID,
		Summary:        project.Summary,
		FilesJSON:      filesJSON,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, version); err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	s.mu.Lock()
	s.cache[conversationID] = append([]models.ProjectVersion{*version}, s.cache[conversationID]...)
	s.mu.Unlock()
	return version, nil
}

// Update replaces a stored version's summary and files. Both identifiers
// must match one row: a version id from another conversation fails with
// not-found instead of cross-writing. The cached entry is replaced in
// place so list position is preserved.
func (s *versionService) Update(ctx context.Context, versionID, conversationID string, project artifact.GeneratedProject) (*models.ProjectVersion, error) {
	filesJSON, err := marshalFiles(project.Files)
	if err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	updated, err := s.repo.Update(ctx, versionID, conversationID, project.Summary, filesJSON)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVersionNotFound
		}
		return nil, apperrors.ErrPersistence(err)
	}

	s.mu.Lock()
	cached := s.cache[conversationID]
	for i := range cached {
		if cached[i].ID == versionID {
			cached[i] = *updated
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// Prime seeds an empty cached history for a conversation that has no
// versions yet, so consumers see "no versions" rather than "not loaded".
func (s *versionService) Prime(conversationID string) {
	s.mu.Lock()
	if _, ok := s.cache[conversationID]; !ok {
		s.cache[conversationID] = []models.ProjectVersion{}
	}
	s.mu.Unlock()
}

func (s *versionService) Cached(conversationID string) []models.ProjectVersion {
	s.mu.Lock()
	defer s.mu.Unlock()
	cached := s.cache[conversationID]
	out := make([]models.ProjectVersion, len(cached))
	copy(out, cached)
	return out
}

func marshalFiles(files []artifact.GeneratedFile) (string, error) {
	if files == nil {
		files = []artifact.GeneratedFile{}
	}
	data, err := json.Marshal(files)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
