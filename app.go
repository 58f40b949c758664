// Package promptforge is the conversation and project-generation core of a
// prompt-to-project assistant: conversations with synced message lists, a
// generation pipeline that turns prompts into persisted project versions,
// and a composer that renders a version as a sandboxed preview document.
//
// The package is a library; a presentation layer embeds App and drives it.
// The current user travels on the context via WithUser.
package promptforge

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"promptforge/internal/artifact"
	"promptforge/internal/auth"
	"promptforge/internal/database"
	"promptforge/internal/events"
	"promptforge/internal/llm/client"
	"promptforge/internal/models"
	"promptforge/internal/services"
	"promptforge/internal/utils"
	apperrors "promptforge/pkg/errors"
)

// Re-exported domain types so consumers never import internal packages.
type (
	Conversation     = models.Conversation
	Message          = models.Message
	MessageRole      = models.MessageRole
	ProjectVersion   = models.ProjectVersion
	GeneratedFile    = artifact.GeneratedFile
	GeneratedProject = artifact.GeneratedProject
)

const (
	RoleUser      = models.RoleUser
	RoleAssistant = models.RoleAssistant
)

// WithUser annotates ctx with the authenticated user id resolved by the
// external identity provider.
func WithUser(ctx context.Context, userID string) context.Context {
	return auth.WithUser(ctx, userID)
}

// GenerationBackend is the text-generation endpoint the pipeline calls.
// The built-in implementations live in internal/llm/client; consumers can
// supply their own through Config.Backend.
type GenerationBackend = services.GenerationBackend

// Config selects the database location and the generation backend.
type Config struct {
	DBPath   string
	Provider string // openai, anthropic or gemini
	Model    string
	Logger   *zerolog.Logger

	// Backend overrides the provider-based client construction when set.
	// Provider and Model are ignored in that case.
	Backend GenerationBackend
}

// App wires the database, the change feed, the services and the generation
// client together. It is the embeddable entry point for a presentation
// layer.
type App struct {
	Conversations services.ConversationService
	Messages      services.MessageService
	Versions      services.VersionService
	Generation    services.GenerationService
	Keyring       *services.KeyringService

	log     zerolog.Logger
	dbClose func() error
}

// NewApp opens the database, runs migrations and constructs the service
// graph. The generation backend is created from the configured provider
// with its API key resolved through the keyring (env fallback).
func NewApp(ctx context.Context, cfg Config) (*App, error) {
	// .env is a convenience for development; absence is not an error.
	_ = utils.LoadEnv()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-5-mini"
	}

	db, err := database.Init(database.Config{Path: cfg.DBPath, Logger: log})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	app := &App{log: log}
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	feed := events.NewMessageFeed()
	svc := services.NewDbServices(db, feed, log)
	app.Conversations = svc.Conversations
	app.Messages = svc.Messages
	app.Versions = svc.Versions
	app.Keyring = services.NewKeyringService()

	backend := cfg.Backend
	if backend == nil {
		backend, err = newBackend(ctx, app.Keyring, cfg.Provider, cfg.Model)
		if err != nil {
			return nil, err
		}
	}
	app.Generation = services.NewGenerationService(backend, svc.Conversations, svc.Versions, log)

	return app, nil
}

func newBackend(ctx context.Context, keys *services.KeyringService, provider, model string) (services.GenerationBackend, error) {
	apiKey, err := keys.GetApiKey(provider)
	if err != nil {
		return nil, fmt.Errorf("resolve API key for %s: %w", provider, err)
	}

	switch provider {
	case "openai":
		return client.NewOpenAIClient(ctx, apiKey, client.OpenAIModelOptions{Model: model})
	case "anthropic":
		return client.NewClaudeClient(ctx, apiKey, client.ClaudeModelOptions{Model: model})
	case "gemini":
		return client.NewGeminiClient(ctx, apiKey, client.GeminiModelOptions{Model: model})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// SendPrompt runs one full prompt round against the active conversation:
// append the prompt as the user's message, generate and persist a version,
// then append the version summary as the assistant's reply when one was
// produced.
func (a *App) SendPrompt(ctx context.Context, prompt string) (*ProjectVersion, error) {
	if _, err := a.Messages.Append(ctx, prompt, RoleUser); err != nil {
		return nil, err
	}

	version, err := a.Generation.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if version.Summary != "" {
		if _, err := a.Messages.Append(ctx, version.Summary, RoleAssistant); err != nil {
			a.log.Error().Err(err).Str("version_id", version.ID).Msg("failed to append assistant summary")
			return version, err
		}
	}
	return version, nil
}

// Preview renders a stored version as one sandbox-ready HTML document.
// Which version to preview is the caller's decision; the second return is
// false when the version has no HTML entry point.
func (a *App) Preview(version *ProjectVersion) (string, bool, error) {
	project, err := version.Project()
	if err != nil {
		return "", false, apperrors.Wrap(apperrors.CodeInternal, "decode stored version files", err)
	}
	doc, ok := artifact.ComposePreview(project)
	return doc, ok, nil
}

// Close releases the database connection pool.
func (a *App) Close() error {
	a.Messages.Deactivate()
	if a.dbClose != nil {
		return a.dbClose()
	}
	return nil
}
