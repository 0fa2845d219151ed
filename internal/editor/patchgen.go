package editor

import (
	"context"
	"fmt"
	"log/slog"

	"docsync/internal/apperr"
	"docsync/internal/llm/client"
	"docsync/internal/models"
)

const patchAgentName = "content_patch_generator"

// PatchGenerator turns one suggestion into literal find/replace operations
// against the exact version the suggestion was made for.
type PatchGenerator struct {
	runner   AgentRunner
	versions VersionSource
	limit    int
	logger   *slog.Logger
}

func NewPatchGenerator(runner AgentRunner, versions VersionSource, limit int, logger *slog.Logger) *PatchGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &PatchGenerator{runner: runner, versions: versions, limit: limit, logger: logger}
}

func (g *PatchGenerator) Generate(ctx context.Context, sg models.EditSuggestion) (*models.DocumentEdit, error) {
	doc, err := g.versions.GetDocumentVersion(ctx, sg.DocumentID, sg.Version)
	if err != nil {
		return nil, err
	}

	input := fmt.Sprintf("Document path: %s\nDocument title: %s\n\nInstruction:\n%s\n\nDocument markdown:\n%s",
		sg.Path, doc.Title, sg.Changes, doc.MarkdownContent)

	var out struct {
		Changes []models.ContentChange `json:"changes"`
	}
	agent := client.Agent{Name: patchAgentName, Prompt: client.PromptPatchGenerator}
	if err := g.runner.Run(ctx, agent, input, &out); err != nil {
		return nil, apperr.Agent(patchAgentName, err)
	}
	if len(out.Changes) == 0 {
		return nil, apperr.Agent(patchAgentName, fmt.Errorf("no changes produced for document %s", sg.DocumentID))
	}
	if err := CheckUnique(doc.MarkdownContent, out.Changes); err != nil {
		return nil, fmt.Errorf("document %s: %w", sg.DocumentID, err)
	}

	return &models.DocumentEdit{
		DocumentID: sg.DocumentID,
		Version:    sg.Version,
		Changes:    out.Changes,
	}, nil
}

// GenerateAll processes every suggestion concurrently. Failed suggestions are
// logged and dropped; the rest keep submission order.
func (g *PatchGenerator) GenerateAll(ctx context.Context, suggestions []models.EditSuggestion) []models.DocumentEdit {
	results := Settle(ctx, g.limit, suggestions, func(ctx context.Context, _ int, sg models.EditSuggestion) (*models.DocumentEdit, error) {
		return g.Generate(ctx, sg)
	})

	edits := make([]models.DocumentEdit, 0, len(results))
	for i, r := range results {
		if r.Err != nil {
			g.logger.Warn("patch generation failed",
				"index", i,
				"document_id", suggestions[i].DocumentID,
				"error_type", apperr.TypeName(r.Err),
				"error", r.Err)
			continue
		}
		edits = append(edits, *r.Value)
	}
	return edits
}
