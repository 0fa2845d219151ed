package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"docsync/internal/apperr"
	"docsync/internal/llm/client"
	"docsync/internal/models"
)

const suggesterAgentName = "edit_suggester"

// EditSuggester proposes natural-language edits for the API reference and
// narrative partitions independently.
type EditSuggester struct {
	runner AgentRunner
	tools  ToolProvider
	logger *slog.Logger
}

func NewEditSuggester(runner AgentRunner, tools ToolProvider, logger *slog.Logger) *EditSuggester {
	if logger == nil {
		logger = slog.Default()
	}
	return &EditSuggester{runner: runner, tools: tools, logger: logger}
}

// Suggest runs both partitions concurrently and concatenates their answers,
// API reference first. Suggestions are not de-duplicated. It fails only when
// both partitions fail.
func (s *EditSuggester) Suggest(ctx context.Context, query string, intent models.Intent) ([]models.EditSuggestion, error) {
	partitions := []bool{true, false}
	results := Settle(ctx, len(partitions), partitions, func(ctx context.Context, _ int, isAPIRef bool) ([]models.EditSuggestion, error) {
		return s.suggestPartition(ctx, query, intent, isAPIRef)
	})

	var out []models.EditSuggestion
	var errs []error
	for i, r := range results {
		if r.Err != nil {
			s.logger.Warn("edit suggestion failed", "is_api_ref", partitions[i], "error", r.Err)
			errs = append(errs, r.Err)
			continue
		}
		out = append(out, r.Value...)
	}
	if len(errs) == len(partitions) {
		return nil, errors.Join(errs...)
	}
	if out == nil {
		out = []models.EditSuggestion{}
	}
	s.logSingleLanguagePaths(out)
	return out, nil
}

func (s *EditSuggester) suggestPartition(ctx context.Context, query string, intent models.Intent, isAPIRef bool) ([]models.EditSuggestion, error) {
	tools, err := s.tools.SuggestionTools(isAPIRef)
	if err != nil {
		return nil, fmt.Errorf("build suggestion tools: %w", err)
	}

	partition := "narrative guides (is_api_ref=false)"
	if isAPIRef {
		partition = "API reference (is_api_ref=true)"
	}
	input := intentInput(query, intent) + fmt.Sprintf("Partition: %s\n", partition)

	name := suggesterAgentName + "_narrative"
	if isAPIRef {
		name = suggesterAgentName + "_api_ref"
	}
	var out models.EditSuggestions
	agent := client.Agent{Name: name, Prompt: client.PromptEditSuggester, Tools: tools}
	if err := s.runner.Run(ctx, agent, input, &out); err != nil {
		return nil, apperr.Agent(name, err)
	}

	suggestions := make([]models.EditSuggestion, 0, len(out.Suggestions))
	for _, sg := range out.Suggestions {
		if sg.DocumentID == "" || sg.Version == "" {
			s.logger.Warn("dropping suggestion without document reference", "path", sg.Path)
			continue
		}
		sg.IsAPIRef = isAPIRef
		suggestions = append(suggestions, sg)
	}
	return suggestions, nil
}

// logSingleLanguagePaths reports paths that only one language variant was
// suggested for. Nothing is fixed up: a downstream patch may then touch a
// single language.
func (s *EditSuggester) logSingleLanguagePaths(suggestions []models.EditSuggestion) {
	counts := make(map[string]int, len(suggestions))
	for _, sg := range suggestions {
		counts[sg.Path]++
	}
	for path, n := range counts {
		if n == 1 && path != "" {
			s.logger.Debug("suggestion covers a single document variant", "path", path)
		}
	}
}
