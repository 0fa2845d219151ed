package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"gorm.io/gorm/logger"

	"docsync/internal/api"
	"docsync/internal/config"
	"docsync/internal/content"
	"docsync/internal/database"
	"docsync/internal/llm/client"
	"docsync/internal/services"
)

const shutdownTimeout = 10 * time.Second

// App owns the long-lived resources of the server process.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	services *services.Services
	server   *http.Server
	dbClose  func() error
}

func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	return &App{cfg: cfg, logger: logger}
}

// startup opens the database and wires every service behind the HTTP server.
func (a *App) startup(ctx context.Context) error {
	db, err := database.Init(database.Config{
		Path:     a.cfg.DBPath,
		LogLevel: gormLevel(a.cfg.SlogLevel()),
		Logger:   a.logger,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		a.dbClose = sqlDB.Close
	}

	chat, err := client.NewChatModel(ctx, client.ProviderConfig{
		Provider: a.cfg.LLMProvider,
		Model:    a.cfg.ChatModel(),
		APIKey:   a.cfg.APIKey(a.cfg.LLMProvider),
		BaseURL:  openAIBaseURL(a.cfg),
	})
	if err != nil {
		return fmt.Errorf("chat model: %w", err)
	}
	prompts, err := client.LoadPrompts(a.cfg.PromptsDir)
	if err != nil {
		return err
	}
	llm := client.NewLLMClient(chat, prompts,
		client.WithMaxSteps(a.cfg.AgentMaxSteps),
		client.WithLogger(a.logger),
	)

	embedder, err := a.embedder(ctx)
	if err != nil {
		return err
	}
	processor := content.NewProcessor(content.Config{
		Embedder:  embedder,
		Runner:    llm,
		Dimension: a.cfg.VectorDimension,
		Languages: a.cfg.Languages,
		Logger:    a.logger,
	})

	a.services = services.NewServices(db, services.Options{
		Processor:      processor,
		Runner:         llm,
		SimilarSearch:  a.cfg.SimilarSearch,
		StrictPatching: a.cfg.StrictPatching,
		MaxConcurrency: a.cfg.MaxConcurrency,
		Logger:         a.logger,
	})

	a.server = &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           api.NewRouter(api.NewHandler(a.services, a.logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.logger.Info("docsync started",
		"addr", a.cfg.Addr,
		"db", a.cfg.DBPath,
		"llm_provider", a.cfg.LLMProvider,
		"embedding_provider", a.cfg.EmbeddingProvider,
		"languages", a.cfg.Languages,
	)
	return nil
}

func (a *App) embedder(ctx context.Context) (embedding.Embedder, error) {
	switch strings.ToLower(a.cfg.EmbeddingProvider) {
	case client.ProviderGemini:
		cli, err := client.NewGenAIClient(ctx, a.cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		return content.NewGenAIEmbedder(cli, a.cfg.GeminiEmbeddingModel, a.cfg.VectorDimension), nil
	default:
		return content.NewOpenAIEmbedder(content.OpenAIEmbedderConfig{
			Endpoint:  a.cfg.OpenAIBaseURL,
			APIKey:    a.cfg.OpenAIAPIKey,
			Model:     a.cfg.OpenAIEmbeddingModel,
			Dimension: a.cfg.VectorDimension,
		}), nil
	}
}

// serve blocks until ctx is done or the listener fails.
func (a *App) serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// shutdown stops streaming sessions, drains HTTP and closes the database.
func (a *App) shutdown(ctx context.Context) {
	if a.services != nil {
		a.services.Sessions.Shutdown()
	}
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.Error("http shutdown failed", "error", err)
		}
	}
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			a.logger.Error("failed to close database", "error", err)
		} else {
			a.logger.Info("database closed")
		}
		a.dbClose = nil
	}
}

// openAIBaseURL points the chat model at the same host as the embedder.
func openAIBaseURL(cfg *config.Config) string {
	if !strings.EqualFold(cfg.LLMProvider, client.ProviderOpenAI) || cfg.OpenAIBaseURL == "" {
		return ""
	}
	return strings.TrimRight(cfg.OpenAIBaseURL, "/") + "/v1"
}

func gormLevel(l slog.Level) logger.LogLevel {
	switch {
	case l <= slog.LevelDebug:
		return logger.Info
	case l <= slog.LevelWarn:
		return logger.Warn
	default:
		return logger.Error
	}
}
