package editor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docsync/internal/apperr"
	"docsync/internal/llm/client"
	"docsync/internal/models"
)

const defaultGuardrailMessage = "Only edits of the selected text are supported."

type InlineEditor struct {
	runner AgentRunner
	logger *slog.Logger
}

func NewInlineEditor(runner AgentRunner, logger *slog.Logger) *InlineEditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &InlineEditor{runner: runner, logger: logger}
}

// Edit rewrites the selected text. Requests the guardrail rejects return the
// selection unchanged along with the guardrail's message.
func (e *InlineEditor) Edit(ctx context.Context, req models.InlineEditRequest) (*models.InlineEditResponse, error) {
	if strings.TrimSpace(req.SelectedText) == "" {
		return nil, apperr.Validation("selected_text", "Selected text is required")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, apperr.Validation("query", "Query is required")
	}

	var verdict models.GuardrailVerdict
	guard := client.Agent{Name: "inline_guardrail", Prompt: client.PromptInlineGuardrail}
	if err := e.runner.Run(ctx, guard, fmt.Sprintf("Request: %s", req.Query), &verdict); err != nil {
		return nil, apperr.Agent(guard.Name, err)
	}
	if !verdict.IsEditRequest {
		msg := strings.TrimSpace(verdict.Message)
		if msg == "" {
			msg = defaultGuardrailMessage
		}
		e.logger.Info("inline edit rejected by guardrail")
		return &models.InlineEditResponse{EditedText: req.SelectedText, Message: msg}, nil
	}

	var out models.InlineEditResponse
	editor := client.Agent{Name: "inline_editor", Prompt: client.PromptInlineEditor}
	input := fmt.Sprintf("Instruction: %s\n\nSelected text:\n%s", req.Query, req.SelectedText)
	if err := e.runner.Run(ctx, editor, input, &out); err != nil {
		return nil, apperr.Agent(editor.Name, err)
	}
	if out.EditedText == "" {
		return nil, apperr.Agent(editor.Name, fmt.Errorf("empty edited_text"))
	}
	return &out, nil
}
