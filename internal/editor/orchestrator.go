package editor

import (
	"context"
	"log/slog"
	"strings"

	"docsync/internal/apperr"
	"docsync/internal/models"
)

// Config wires the orchestrator's collaborators.
type Config struct {
	Runner         AgentRunner
	Tools          ToolProvider
	Versions       VersionSource
	MaxConcurrency int
	Logger         *slog.Logger
}

// Orchestrator classifies a request, fans out one handler per intent and
// aggregates their results.
type Orchestrator struct {
	classifier *IntentClassifier
	suggester  *EditSuggester
	patches    *PatchGenerator
	creator    *ContentCreator
	deleter    *ContentDeleter
	limit      int
	logger     *slog.Logger
}

func NewOrchestrator(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "editor")
	return &Orchestrator{
		classifier: NewIntentClassifier(cfg.Runner, logger),
		suggester:  NewEditSuggester(cfg.Runner, cfg.Tools, logger),
		patches:    NewPatchGenerator(cfg.Runner, cfg.Versions, cfg.MaxConcurrency, logger),
		creator:    NewContentCreator(cfg.Runner, cfg.Tools, logger),
		deleter:    NewContentDeleter(cfg.Runner, cfg.Tools, logger),
		limit:      cfg.MaxConcurrency,
		logger:     logger,
	}
}

type intentResult struct {
	edit   []models.DocumentEdit
	create []models.GeneratedDocument
	delete []models.DocumentToDelete
}

// Run returns the aggregate of every intent handler. Only a blank query or a
// failed classification is returned as an error; handler failures are logged
// and leave their share of the aggregate empty.
func (o *Orchestrator) Run(ctx context.Context, req models.EditDocumentationRequest) (*models.EditDocumentationResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, apperr.Validation("query", "Query is required")
	}

	intents, err := o.classify(ctx, req)
	if err != nil {
		return nil, err
	}

	results := Settle(ctx, o.limit, intents, func(ctx context.Context, _ int, intent models.Intent) (intentResult, error) {
		return o.handle(ctx, req.Query, intent)
	})

	resp := models.NewEditDocumentationResponse()
	for i, r := range results {
		if r.Err != nil {
			o.logger.Error("intent handler failed",
				"index", i,
				"kind", intents[i].Kind,
				"error_type", apperr.TypeName(r.Err),
				"error", r.Err)
			continue
		}
		resp.Edit = append(resp.Edit, r.Value.edit...)
		resp.Create = append(resp.Create, r.Value.create...)
		resp.Delete = append(resp.Delete, r.Value.delete...)
	}
	o.logger.Info("edit run completed",
		"intents", len(intents),
		"edits", len(resp.Edit),
		"creates", len(resp.Create),
		"deletes", len(resp.Delete))
	return resp, nil
}

// classify turns a panic in the classifier into a PanicError.
func (o *Orchestrator) classify(ctx context.Context, req models.EditDocumentationRequest) (intents []models.Intent, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("intent classification panicked", "panic", r)
			intents, err = nil, &apperr.PanicError{Value: r}
		}
	}()
	return o.classifier.Classify(ctx, req.Query, req.DocumentID)
}

func (o *Orchestrator) handle(ctx context.Context, query string, intent models.Intent) (intentResult, error) {
	var res intentResult
	switch intent.Kind {
	case models.IntentEdit:
		suggestions, err := o.suggester.Suggest(ctx, query, intent)
		if err != nil {
			return res, err
		}
		res.edit = o.patches.GenerateAll(ctx, suggestions)
	case models.IntentCreate:
		docs, err := o.creator.Create(ctx, query, intent)
		if err != nil {
			return res, err
		}
		res.create = docs
	case models.IntentDelete:
		docs, err := o.deleter.Identify(ctx, query, intent)
		if err != nil {
			return res, err
		}
		res.delete = docs
	case models.IntentMove, models.IntentOther:
		o.logger.Info("no handler for intent, skipping", "kind", intent.Kind, "reason", intent.Reason)
	default:
		o.logger.Warn("unknown intent kind, skipping", "kind", intent.Kind)
	}
	return res, nil
}
