package editor

import (
	"context"
	"fmt"
	"log/slog"

	"docsync/internal/apperr"
	"docsync/internal/llm/client"
	"docsync/internal/models"
)

const (
	creatorAgentName = "content_creator"
	deleterAgentName = "content_deleter"
)

// ContentCreator drafts new bilingual documents for a create intent.
// Nothing is persisted here.
type ContentCreator struct {
	runner AgentRunner
	tools  ToolProvider
	logger *slog.Logger
}

func NewContentCreator(runner AgentRunner, tools ToolProvider, logger *slog.Logger) *ContentCreator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentCreator{runner: runner, tools: tools, logger: logger}
}

func (c *ContentCreator) Create(ctx context.Context, query string, intent models.Intent) ([]models.GeneratedDocument, error) {
	tools, err := c.tools.CreationTools()
	if err != nil {
		return nil, fmt.Errorf("build creation tools: %w", err)
	}
	var out models.GeneratedDocuments
	agent := client.Agent{Name: creatorAgentName, Prompt: client.PromptContentCreator, Tools: tools}
	if err := c.runner.Run(ctx, agent, intentInput(query, intent), &out); err != nil {
		return nil, apperr.Agent(creatorAgentName, err)
	}
	if out.Documents == nil {
		out.Documents = []models.GeneratedDocument{}
	}
	c.logger.Info("documents drafted", "count", len(out.Documents))
	return out.Documents, nil
}

// ContentDeleter matches deletion requests against document metadata.
type ContentDeleter struct {
	runner AgentRunner
	tools  ToolProvider
	logger *slog.Logger
}

func NewContentDeleter(runner AgentRunner, tools ToolProvider, logger *slog.Logger) *ContentDeleter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentDeleter{runner: runner, tools: tools, logger: logger}
}

// Identify returns an empty list, not an error, when nothing matches.
func (d *ContentDeleter) Identify(ctx context.Context, query string, intent models.Intent) ([]models.DocumentToDelete, error) {
	tools, err := d.tools.DeletionTools()
	if err != nil {
		return nil, fmt.Errorf("build deletion tools: %w", err)
	}
	var out models.DocumentsToDelete
	agent := client.Agent{Name: deleterAgentName, Prompt: client.PromptContentDeleter, Tools: tools}
	if err := d.runner.Run(ctx, agent, intentInput(query, intent), &out); err != nil {
		return nil, apperr.Agent(deleterAgentName, err)
	}

	docs := make([]models.DocumentToDelete, 0, len(out.Documents))
	for _, doc := range out.Documents {
		if doc.DocumentID == "" {
			continue
		}
		docs = append(docs, doc)
	}
	d.logger.Info("documents identified for deletion", "count", len(docs))
	return docs, nil
}
