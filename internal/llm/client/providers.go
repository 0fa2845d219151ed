package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"docsync/internal/assets"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

const claudeMaxTokens = 8192

type ProviderConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewChatModel builds the tool-calling chat model for the configured provider.
// An empty Model falls back to the provider's default from the model catalog.
func NewChatModel(ctx context.Context, cfg ProviderConfig) (model.ToolCallingChatModel, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderOpenAI
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%s: api key is required", provider)
	}
	modelName := cfg.Model
	if modelName == "" {
		if p, ok := assets.LookupProvider(provider); ok {
			modelName = p.DefaultModel
		}
	}

	switch provider {
	case ProviderOpenAI:
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  cfg.APIKey,
			Model:   modelName,
			BaseURL: cfg.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("openai chat model: %w", err)
		}
		return cm, nil
	case ProviderAnthropic:
		cm, err := claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     modelName,
			MaxTokens: claudeMaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("claude chat model: %w", err)
		}
		return cm, nil
	case ProviderGemini:
		cli, err := NewGenAIClient(ctx, cfg.APIKey)
		if err != nil {
			return nil, err
		}
		cm, err := gemini.NewChatModel(ctx, &gemini.Config{
			Client: cli,
			Model:  modelName,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini chat model: %w", err)
		}
		return cm, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// NewGenAIClient opens a Gemini API client.
func NewGenAIClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return cli, nil
}
