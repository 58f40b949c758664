package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const (
	defaultTemperature = float32(0.2)
	defaultMaxTokens   = 4000
)

// LLMClient wraps one provider-specific chat model behind the single call
// the generation pipeline needs: prompt in, raw text out. The pipeline does
// not care which provider produced the text; parsing and validation happen
// downstream.
type LLMClient struct {
	chatModel model.BaseChatModel
	provider  string
	modelName string
}

type OpenAIModelOptions struct {
	Model string
}

func NewOpenAIClient(ctx context.Context, apiKey string, opts OpenAIModelOptions) (*LLMClient, error) {
	temperature := defaultTemperature
	maxTokens := defaultMaxTokens
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      apiKey,
		Model:       opts.Model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, err
	}
	return &LLMClient{chatModel: chatModel, provider: "openai", modelName: opts.Model}, nil
}

type ClaudeModelOptions struct {
	Model string
}

func NewClaudeClient(ctx context.Context, apiKey string, opts ClaudeModelOptions) (*LLMClient, error) {
	temperature := defaultTemperature
	chatModel, err := claude.NewChatModel(ctx, &claude.Config{
		APIKey:      apiKey,
		Model:       opts.Model,
		MaxTokens:   defaultMaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, err
	}
	return &LLMClient{chatModel: chatModel, provider: "anthropic", modelName: opts.Model}, nil
}

type GeminiModelOptions struct {
	Model string
}

func NewGeminiClient(ctx context.Context, apiKey string, opts GeminiModelOptions) (*LLMClient, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: genaiClient,
		Model:  opts.Model,
	})
	if err != nil {
		return nil, err
	}
	return &LLMClient{chatModel: chatModel, provider: "gemini", modelName: opts.Model}, nil
}

// GenerateProject runs a single completion round against the configured
// model and returns the raw assistant text untouched. Validation of the
// payload is the artifact package's job, not the transport's.
func (c *LLMClient) GenerateProject(ctx context.Context, prompt string) (string, error) {
	systemPrompt, err := projectSystemPrompt()
	if err != nil {
		return "", err
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	}

	out, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", fmt.Errorf("%s model %s returned no content", c.provider, c.modelName)
	}
	return out.Content, nil
}

func projectSystemPrompt() (string, error) {
	data, err := embeddedPrompts.ReadFile("prompts/generate_project.txt")
	if err != nil {
		return "", fmt.Errorf("load generate_project prompt: %w", err)
	}
	return string(data), nil
}
