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

const intentAgentName = "intent_classifier"

// IntentClassifier splits a free-text request into tagged intents.
type IntentClassifier struct {
	runner AgentRunner
	logger *slog.Logger
}

func NewIntentClassifier(runner AgentRunner, logger *slog.Logger) *IntentClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntentClassifier{runner: runner, logger: logger}
}

// Classify makes exactly one model call. A scopeDocumentID restricts the
// analysis to that document. Failures are returned as AgentInvocationError.
func (c *IntentClassifier) Classify(ctx context.Context, query, scopeDocumentID string) ([]models.Intent, error) {
	input := fmt.Sprintf("User query: %s\n", query)
	if id := strings.TrimSpace(scopeDocumentID); id != "" {
		input += fmt.Sprintf("Target document_id: %s\nOnly consider changes to this document.\n", id)
	}

	var out models.DetectedIntents
	agent := client.Agent{Name: intentAgentName, Prompt: client.PromptIntentClassifier}
	if err := c.runner.Run(ctx, agent, input, &out); err != nil {
		return nil, apperr.Agent(intentAgentName, err)
	}

	intents := make([]models.Intent, 0, len(out.Intents))
	for _, in := range out.Intents {
		in.Kind = models.IntentKind(strings.ToLower(strings.TrimSpace(string(in.Kind))))
		intents = append(intents, in)
	}
	c.logger.Info("intents detected", "count", len(intents), "scoped", scopeDocumentID != "")
	return intents, nil
}
