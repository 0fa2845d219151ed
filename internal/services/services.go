package services

import (
	"log/slog"

	"gorm.io/gorm"

	"docsync/internal/content"
	"docsync/internal/editor"
	"docsync/internal/llm/tools"
	"docsync/internal/repositories"
)

// Services aggregates the domain services backed by the database.
type Services struct {
	Documents DocumentService
	Edits     EditService
	Sessions  *SessionManager
}

// Options carries the collaborators that are not backed by the database.
type Options struct {
	Processor      *content.Processor
	Runner         editor.AgentRunner
	SimilarSearch  bool
	StrictPatching bool
	MaxConcurrency int
	Logger         *slog.Logger
}

// NewServices constructs the service container using repositories backed by db.
func NewServices(db *gorm.DB, opts Options) *Services {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	docRepo := repositories.NewDocumentRepository(db)
	contentRepo := repositories.NewContentRepository(db)
	documents := NewDocumentService(docRepo, contentRepo, opts.Processor, logger)

	var embedder tools.QueryEmbedder
	if opts.SimilarSearch && opts.Processor != nil {
		embedder = opts.Processor
	}
	toolset := tools.NewToolset(documents, embedder, logger)

	orch := editor.NewOrchestrator(editor.Config{
		Runner:         opts.Runner,
		Tools:          toolset,
		Versions:       documents,
		MaxConcurrency: opts.MaxConcurrency,
		Logger:         logger,
	})

	return &Services{
		Documents: documents,
		Edits: NewEditService(EditServiceConfig{
			Documents:      documents,
			Orchestrator:   orch,
			Inline:         editor.NewInlineEditor(opts.Runner, logger),
			Patcher:        editor.Patcher{Strict: opts.StrictPatching},
			MaxConcurrency: opts.MaxConcurrency,
			Logger:         logger,
		}),
		Sessions: NewSessionManager(logger),
	}
}
