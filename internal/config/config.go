package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/99designs/keyring"
	"gopkg.in/yaml.v3"

	"docsync/internal/database"
	"docsync/internal/utils"
)

const keyringService = "docsync"

// Config is the runtime configuration of the server. Values come from the
// YAML file first and are then overridden by the environment.
type Config struct {
	Addr     string `yaml:"addr"`
	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"`

	LLMProvider     string `yaml:"llm_provider"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	OpenAIModel     string `yaml:"openai_model"`
	OpenAIBaseURL   string `yaml:"openai_base_url"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	AnthropicModel  string `yaml:"anthropic_model"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`
	GeminiModel     string `yaml:"gemini_model"`

	EmbeddingProvider    string `yaml:"embedding_provider"`
	OpenAIEmbeddingModel string `yaml:"openai_embedding_model"`
	GeminiEmbeddingModel string `yaml:"gemini_embedding_model"`
	VectorDimension      int    `yaml:"vector_dimension"`
	SimilarSearch        bool   `yaml:"similar_search"`

	Languages      []string `yaml:"languages"`
	PromptsDir     string   `yaml:"prompts_dir"`
	StrictPatching bool     `yaml:"strict_patching"`
	MaxConcurrency int      `yaml:"max_concurrency"`
	AgentMaxSteps  int      `yaml:"agent_max_steps"`
}

func Default() *Config {
	return &Config{
		Addr:                 ":8080",
		DBPath:               database.GetDefaultDBPath(),
		LogLevel:             "info",
		LLMProvider:          "openai",
		OpenAIModel:          "gpt-4.1",
		OpenAIBaseURL:        "https://api.openai.com",
		EmbeddingProvider:    "openai",
		OpenAIEmbeddingModel: "text-embedding-3-large",
		GeminiEmbeddingModel: "text-embedding-004",
		VectorDimension:      1536,
		SimilarSearch:        true,
		Languages:            []string{"en"},
		AgentMaxSteps:        25,
	}
}

// SecretStore resolves API keys that are not set in the file or environment.
type SecretStore interface {
	Get(key string) (string, error)
}

type osKeyring struct{}

func (osKeyring) Get(key string) (string, error) {
	ring, err := keyring.Open(keyring.Config{ServiceName: keyringService})
	if err != nil {
		return "", err
	}
	item, err := ring.Get(key)
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

// Load reads .env, the optional YAML file at path and the environment, then
// fills empty provider keys from the OS keyring.
func Load(path string) (*Config, error) {
	return load(path, osKeyring{}, slog.Default())
}

func load(path string, secrets SecretStore, logger *slog.Logger) (*Config, error) {
	if envPath, err := utils.LoadEnv(); err != nil {
		logger.Debug("no .env loaded", "error", err)
	} else if envPath != "" {
		logger.Debug("loaded .env", "path", envPath)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Debug("config file not found, using defaults", "path", path)
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.resolveSecrets(secrets, logger)
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("DOCSYNC_ADDR", &c.Addr)
	str("DOCSYNC_DB_PATH", &c.DBPath)
	str("LOG_LEVEL", &c.LogLevel)
	str("LLM_PROVIDER", &c.LLMProvider)
	str("OPENAI_API_KEY", &c.OpenAIAPIKey)
	str("OPENAI_MODEL", &c.OpenAIModel)
	str("OPENAI_BASE_URL", &c.OpenAIBaseURL)
	str("ANTHROPIC_API_KEY", &c.AnthropicAPIKey)
	str("ANTHROPIC_MODEL", &c.AnthropicModel)
	str("GEMINI_API_KEY", &c.GeminiAPIKey)
	str("GEMINI_MODEL", &c.GeminiModel)
	str("EMBEDDING_PROVIDER", &c.EmbeddingProvider)
	str("OPENAI_EMBEDDING_MODEL", &c.OpenAIEmbeddingModel)
	str("GEMINI_EMBEDDING_MODEL", &c.GeminiEmbeddingModel)
	str("PROMPTS_DIR", &c.PromptsDir)

	ints := map[string]*int{
		"VECTOR_DIMENSION": &c.VectorDimension,
		"MAX_CONCURRENCY":  &c.MaxConcurrency,
		"AGENT_MAX_STEPS":  &c.AgentMaxSteps,
	}
	for name, dst := range ints {
		v, ok := os.LookupEnv(name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"STRICT_PATCHING": &c.StrictPatching,
		"SIMILAR_SEARCH":  &c.SimilarSearch,
	}
	for name, dst := range bools {
		v, ok := os.LookupEnv(name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
		*dst = b
	}

	if v, ok := os.LookupEnv("LANGUAGES"); ok && strings.TrimSpace(v) != "" {
		langs, err := ParseLanguages(v)
		if err != nil {
			return err
		}
		c.Languages = langs
	}
	return nil
}

// ParseLanguages accepts either a JSON array (["en","ja"]) or a comma list (en,ja).
func ParseLanguages(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	var items []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("config: LANGUAGES: %w", err)
		}
	} else {
		items = strings.Split(raw, ",")
	}
	out := make([]string, 0, len(items))
	for _, l := range items {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("config: LANGUAGES is empty")
	}
	return out, nil
}

func (c *Config) resolveSecrets(secrets SecretStore, logger *slog.Logger) {
	if secrets == nil {
		return
	}
	keys := map[string]*string{
		"openai":    &c.OpenAIAPIKey,
		"anthropic": &c.AnthropicAPIKey,
		"gemini":    &c.GeminiAPIKey,
	}
	for provider, dst := range keys {
		if *dst != "" || !c.uses(provider) {
			continue
		}
		v, err := secrets.Get(provider)
		if err != nil {
			logger.Debug("api key not found in keyring", "provider", provider, "error", err)
			continue
		}
		*dst = v
	}
}

func (c *Config) uses(provider string) bool {
	return strings.EqualFold(c.LLMProvider, provider) || strings.EqualFold(c.EmbeddingProvider, provider)
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.LLMProvider) {
	case "openai", "anthropic", "gemini":
	default:
		return fmt.Errorf("config: unsupported llm_provider %q", c.LLMProvider)
	}
	switch strings.ToLower(c.EmbeddingProvider) {
	case "openai", "gemini":
	default:
		return fmt.Errorf("config: unsupported embedding_provider %q", c.EmbeddingProvider)
	}
	if c.VectorDimension <= 0 {
		return errors.New("config: vector_dimension must be > 0")
	}
	if c.MaxConcurrency < 0 {
		return errors.New("config: max_concurrency must be >= 0")
	}
	if len(c.Languages) == 0 {
		return errors.New("config: at least one language is required")
	}
	return nil
}

// APIKey returns the key of the given provider.
func (c *Config) APIKey(provider string) string {
	switch strings.ToLower(provider) {
	case "anthropic":
		return c.AnthropicAPIKey
	case "gemini":
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

// ChatModel returns the configured model name of the active LLM provider.
func (c *Config) ChatModel() string {
	switch strings.ToLower(c.LLMProvider) {
	case "anthropic":
		return c.AnthropicModel
	case "gemini":
		return c.GeminiModel
	default:
		return c.OpenAIModel
	}
}

func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
