package editor

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"docsync/internal/apperr"
	"docsync/internal/events"
	"docsync/internal/models"
)

const (
	totalSteps      = 4
	finishedMessage = "Edit documentation process completed successfully"
	cancelledMsg    = "Processing was cancelled"
	cancelledType   = "CancelledError"
)

// Stream runs the same pipeline as Run but yields progress events as work
// completes. The last event is always finished or error. Intents and their
// suggestions are processed one after another so events stay in causal order.
// Breaking out of the loop stops the run without a terminal event.
func (o *Orchestrator) Stream(ctx context.Context, req models.EditDocumentationRequest, sessionID string) iter.Seq[events.ProgressEvent] {
	return func(yield func(events.ProgressEvent) bool) {
		s := &streamRun{
			o:         o,
			ctx:       events.WithSession(ctx, sessionID),
			sessionID: sessionID,
			yield:     yield,
		}
		s.run(req)
	}
}

type streamCounts struct {
	edit, create, delete int
}

type streamRun struct {
	o         *Orchestrator
	ctx       context.Context
	sessionID string
	yield     func(events.ProgressEvent) bool
	counts    streamCounts

	// ended is set once a terminal event was yielded or the consumer stopped.
	ended    bool
	yielding bool
}

func (s *streamRun) run(req models.EditDocumentationRequest) {
	defer func() {
		if r := recover(); r != nil {
			if s.yielding {
				panic(r)
			}
			s.o.logger.Error("edit stream panicked", "session", s.sessionID, "panic", r)
			if !s.ended {
				s.fail(&apperr.PanicError{Value: r})
			}
		}
	}()
	if strings.TrimSpace(req.Query) == "" {
		s.fail(apperr.Validation("query", "Query is required"))
		return
	}
	if !s.progress(events.ProgressPayload{Step: 1, TotalSteps: totalSteps, Message: "Detecting user intent..."}) {
		return
	}

	intents, err := s.o.classifier.Classify(s.ctx, req.Query, req.DocumentID)
	if err != nil {
		s.fail(err)
		return
	}
	if !s.emit(events.New(s.sessionID, events.EventIntentDetected, events.IntentDetectedPayload{Intents: intents})) {
		return
	}

	if len(intents) == 0 {
		if s.progress(events.ProgressPayload{Step: totalSteps, TotalSteps: totalSteps, Message: "No actionable intents detected"}) {
			s.finish()
		}
		return
	}

	for i, intent := range intents {
		if s.cancelled() {
			return
		}
		ok := s.progress(events.ProgressPayload{
			Step:         2,
			TotalSteps:   totalSteps,
			Message:      fmt.Sprintf("Processing %s intent (%d/%d)", intent.Kind, i+1, len(intents)),
			IntentIndex:  i + 1,
			TotalIntents: len(intents),
		})
		if !ok || !s.handle(req.Query, intent) {
			return
		}
	}

	if s.cancelled() {
		return
	}
	if !s.progress(events.ProgressPayload{Step: 3, TotalSteps: totalSteps, Message: "Aggregating results"}) {
		return
	}
	if !s.progress(events.ProgressPayload{Step: 4, TotalSteps: totalSteps, Message: "All operations completed"}) {
		return
	}
	s.finish()
}

// handle reports false when the stream must stop.
func (s *streamRun) handle(query string, intent models.Intent) bool {
	switch intent.Kind {
	case models.IntentEdit:
		return s.handleEdit(query, intent)
	case models.IntentCreate:
		return s.handleCreate(query, intent)
	case models.IntentDelete:
		return s.handleDelete(query, intent)
	case models.IntentMove, models.IntentOther:
		s.o.logger.Info("no handler for intent, skipping", "kind", intent.Kind, "session", s.sessionID)
		return s.note(fmt.Sprintf("No handler for %s intent, skipping", intent.Kind))
	default:
		s.o.logger.Warn("unknown intent kind, skipping", "kind", intent.Kind, "session", s.sessionID)
		return s.note(fmt.Sprintf("Unknown intent kind %q, skipping", intent.Kind))
	}
}

func (s *streamRun) handleEdit(query string, intent models.Intent) bool {
	suggestions, err := s.o.suggester.Suggest(s.ctx, query, intent)
	if err != nil {
		return s.recoverable("Failed to generate edit suggestions", err)
	}
	if !s.emit(events.New(s.sessionID, events.EventSuggestionsFound, events.SuggestionsFoundPayload{Suggestions: suggestions})) {
		return false
	}

	for i, sg := range suggestions {
		if s.cancelled() {
			return false
		}
		ok := s.emit(events.New(s.sessionID, events.EventDocumentProcessing, events.DocumentProcessingPayload{
			SuggestionIndex:  i + 1,
			TotalSuggestions: len(suggestions),
			DocumentTitle:    s.title(sg),
			DocumentPath:     sg.Path,
		}))
		if !ok {
			return false
		}
		edit, err := s.o.patches.Generate(s.ctx, sg)
		if err != nil {
			if !s.recoverable(fmt.Sprintf("Failed to process document %s", sg.Path), err) {
				return false
			}
			continue
		}
		if !s.emit(events.New(s.sessionID, events.EventDocumentCompleted, events.DocumentCompletedPayload{Edit: *edit})) {
			return false
		}
		s.counts.edit++
	}
	return true
}

func (s *streamRun) handleCreate(query string, intent models.Intent) bool {
	if !s.note("Creating new documentation content...") {
		return false
	}
	docs, err := s.o.creator.Create(s.ctx, query, intent)
	if err != nil {
		return s.recoverable("Failed to create content", err)
	}
	for _, doc := range docs {
		if !s.emit(events.New(s.sessionID, events.EventDocumentCreated, events.DocumentCreatedPayload{Document: doc})) {
			return false
		}
		s.counts.create++
	}
	return true
}

func (s *streamRun) handleDelete(query string, intent models.Intent) bool {
	if !s.note("Identifying documents for deletion...") {
		return false
	}
	docs, err := s.o.deleter.Identify(s.ctx, query, intent)
	if err != nil {
		return s.recoverable("Failed to identify documents for deletion", err)
	}
	if len(docs) == 0 {
		return s.note("No documents identified for deletion")
	}
	for _, doc := range docs {
		if !s.emit(events.New(s.sessionID, events.EventDocumentDeleted, events.DocumentDeletedPayload{Document: doc})) {
			return false
		}
		s.counts.delete++
	}
	return true
}

func (s *streamRun) emit(evt events.ProgressEvent) bool {
	events.LogEvent(s.ctx, s.o.logger, evt)
	s.yielding = true
	ok := s.yield(evt)
	s.yielding = false
	if !ok || evt.Type.Terminal() {
		s.ended = true
	}
	return ok
}

// title falls back to the stored document title, then to a short id, when
// the suggestion carries none.
func (s *streamRun) title(sg models.EditSuggestion) string {
	if sg.Title != "" {
		return sg.Title
	}
	if doc, err := s.o.patches.versions.GetDocumentVersion(s.ctx, sg.DocumentID, sg.Version); err == nil && doc.Title != "" {
		return doc.Title
	}
	return shortID(sg.DocumentID)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (s *streamRun) progress(p events.ProgressPayload) bool {
	return s.emit(events.NewProgress(s.sessionID, p))
}

// note emits a step-2 progress message inside an intent handler.
func (s *streamRun) note(message string) bool {
	return s.progress(events.ProgressPayload{Step: 2, TotalSteps: totalSteps, Message: message})
}

// recoverable reports a handler failure without ending the stream, unless the
// failure came from cancellation.
func (s *streamRun) recoverable(message string, err error) bool {
	if s.cancelled() {
		return false
	}
	return s.progress(events.ProgressPayload{
		Step:       2,
		TotalSteps: totalSteps,
		Message:    message,
		Error:      err.Error(),
		ErrorType:  apperr.TypeName(err),
	})
}

// cancelled emits the terminal cancellation event when the context is done.
func (s *streamRun) cancelled() bool {
	if s.ctx.Err() == nil {
		return false
	}
	s.emit(events.NewError(s.sessionID, cancelledMsg, cancelledType))
	return true
}

func (s *streamRun) fail(err error) {
	if s.ctx.Err() != nil || errors.Is(err, context.Canceled) {
		s.emit(events.NewError(s.sessionID, cancelledMsg, cancelledType))
		return
	}
	s.emit(events.NewError(s.sessionID, err.Error(), apperr.TypeName(err)))
}

func (s *streamRun) finish() {
	s.emit(events.NewFinished(s.sessionID, events.FinishedPayload{
		Message:     finishedMessage,
		EditCount:   s.counts.edit,
		CreateCount: s.counts.create,
		DeleteCount: s.counts.delete,
	}))
}
