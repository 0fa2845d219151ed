package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/internal/events"
	"docsync/internal/models"
)

func collect(seq func(func(events.ProgressEvent) bool)) []events.ProgressEvent {
	var out []events.ProgressEvent
	for evt := range seq {
		out = append(out, evt)
	}
	return out
}

func types(evts []events.ProgressEvent) []events.EventType {
	out := make([]events.EventType, 0, len(evts))
	for _, e := range evts {
		out = append(out, e.Type)
	}
	return out
}

func assertSingleTerminal(t *testing.T, evts []events.ProgressEvent) {
	t.Helper()
	require.NotEmpty(t, evts)
	for i, e := range evts {
		if i < len(evts)-1 {
			assert.False(t, e.Type.Terminal(), "terminal event %s at position %d", e.Type, i)
		}
	}
	assert.True(t, evts[len(evts)-1].Type.Terminal())
}

func assertMonotonicSteps(t *testing.T, evts []events.ProgressEvent) {
	t.Helper()
	last := 0
	for _, e := range evts {
		if p, ok := e.Payload.(events.ProgressPayload); ok {
			assert.GreaterOrEqual(t, p.Step, last)
			last = p.Step
		}
	}
}

func TestStream_FullRun(t *testing.T) {
	answers, versions := fullScript()
	o := newTestOrchestrator(scripted(answers), versions)

	evts := collect(o.Stream(context.Background(), models.EditDocumentationRequest{Query: "many things"}, "s-1"))
	assertSingleTerminal(t, evts)
	assertMonotonicSteps(t, evts)

	assert.Equal(t, []events.EventType{
		events.EventProgress,
		events.EventIntentDetected,
		events.EventProgress, // edit intent
		events.EventSuggestionsFound,
		events.EventDocumentProcessing,
		events.EventDocumentCompleted,
		events.EventDocumentProcessing,
		events.EventDocumentCompleted,
		events.EventProgress, // create intent
		events.EventProgress,
		events.EventDocumentCreated,
		events.EventProgress, // delete intent
		events.EventProgress,
		events.EventDocumentDeleted,
		events.EventProgress, // move intent
		events.EventProgress,
		events.EventProgress, // aggregating
		events.EventProgress, // completed
		events.EventFinished,
	}, types(evts))

	for _, e := range evts {
		assert.Equal(t, "s-1", e.SessionID)
	}
	finished := evts[len(evts)-1].Payload.(events.FinishedPayload)
	assert.Equal(t, 2, finished.EditCount)
	assert.Equal(t, 1, finished.CreateCount)
	assert.Equal(t, 1, finished.DeleteCount)
}

func TestStream_NoIntents(t *testing.T) {
	runner := scripted(map[string]any{intentAgentName: map[string]any{"intents": []any{}}})
	evts := collect(newTestOrchestrator(runner, nil).Stream(context.Background(), models.EditDocumentationRequest{Query: "hi"}, "s"))
	assert.Equal(t, []events.EventType{events.EventProgress, events.EventIntentDetected, events.EventProgress, events.EventFinished}, types(evts))
	p := evts[2].Payload.(events.ProgressPayload)
	assert.Equal(t, 4, p.Step)
	assert.Equal(t, "No actionable intents detected", p.Message)
}

func TestStream_ClassificationFailureEndsWithError(t *testing.T) {
	runner := scripted(map[string]any{intentAgentName: errors.New("bad gateway")})
	evts := collect(newTestOrchestrator(runner, nil).Stream(context.Background(), models.EditDocumentationRequest{Query: "q"}, "s"))
	assertSingleTerminal(t, evts)
	last := evts[len(evts)-1]
	assert.Equal(t, events.EventError, last.Type)
	assert.Equal(t, "AgentInvocationError", last.Payload.(events.ErrorPayload).ErrorType)
}

func TestStream_HandlerFailureIsRecoverable(t *testing.T) {
	answers, versions := fullScript()
	answers[patchAgentName] = patchFor(map[string]any{
		"alpha": errors.New("patch failed"),
		"bravo": change("Text.", "Better text."),
	})
	evts := collect(newTestOrchestrator(scripted(answers), versions).Stream(context.Background(), models.EditDocumentationRequest{Query: "q"}, "s"))
	assertSingleTerminal(t, evts)
	assert.Equal(t, events.EventFinished, evts[len(evts)-1].Type)

	var recovered int
	for _, e := range evts {
		if p, ok := e.Payload.(events.ProgressPayload); ok && p.Error != "" {
			recovered++
		}
	}
	assert.Equal(t, 1, recovered)
	assert.Equal(t, 1, evts[len(evts)-1].Payload.(events.FinishedPayload).EditCount)
}

func TestStream_CancellationWhileConsuming(t *testing.T) {
	answers, versions := fullScript()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var evts []events.ProgressEvent
	for evt := range newTestOrchestrator(scripted(answers), versions).Stream(ctx, models.EditDocumentationRequest{Query: "q"}, "s") {
		evts = append(evts, evt)
		if evt.Type == events.EventSuggestionsFound {
			cancel()
		}
	}
	assertSingleTerminal(t, evts)
	last := evts[len(evts)-1]
	require.Equal(t, events.EventError, last.Type)
	assert.Equal(t, "CancelledError", last.Payload.(events.ErrorPayload).ErrorType)
	assert.Equal(t, "Processing was cancelled", last.Payload.(events.ErrorPayload).Message)
	for _, e := range evts {
		assert.NotEqual(t, events.EventDocumentCompleted, e.Type)
	}
}

func TestStream_ConsumerBreakStopsSilently(t *testing.T) {
	answers, versions := fullScript()
	runner := scripted(answers)
	var n int
	for range newTestOrchestrator(runner, versions).Stream(context.Background(), models.EditDocumentationRequest{Query: "q"}, "s") {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
	assert.Len(t, runner.Calls(), 1)
}

func TestStream_PanicEndsWithError(t *testing.T) {
	answers, versions := fullScript()
	answers[deleterAgentName] = func(string) any { panic("deleter exploded") }

	evts := collect(newTestOrchestrator(scripted(answers), versions).Stream(context.Background(), models.EditDocumentationRequest{Query: "q"}, "s"))
	assertSingleTerminal(t, evts)
	last := evts[len(evts)-1]
	require.Equal(t, events.EventError, last.Type)
	p := last.Payload.(events.ErrorPayload)
	assert.Equal(t, "PanicError", p.ErrorType)
	assert.Contains(t, p.Message, "deleter exploded")
	assert.Contains(t, types(evts), events.EventDocumentCreated)
}

func TestStream_ClassifierPanicEndsWithError(t *testing.T) {
	runner := scripted(map[string]any{intentAgentName: func(string) any { panic("classifier exploded") }})
	evts := collect(newTestOrchestrator(runner, nil).Stream(context.Background(), models.EditDocumentationRequest{Query: "q"}, "s"))
	assert.Equal(t, []events.EventType{events.EventProgress, events.EventError}, types(evts))
}

func TestStream_ConsumerPanicPropagates(t *testing.T) {
	answers, versions := fullScript()
	assert.PanicsWithValue(t, "consumer", func() {
		for range newTestOrchestrator(scripted(answers), versions).Stream(context.Background(), models.EditDocumentationRequest{Query: "q"}, "s") {
			panic("consumer")
		}
	})
}

func TestStream_DocumentTitleFallback(t *testing.T) {
	answers, versions := fullScript()
	answers[suggesterAgentName+"_api_ref"] = map[string]any{"suggestions": []any{
		map[string]any{"document_id": "alpha", "version": "v1", "path": "/alpha", "changes": "reword"},
	}}
	answers[suggesterAgentName+"_narrative"] = map[string]any{"suggestions": []any{
		map[string]any{"document_id": "0123456789abcdef", "version": "v1", "path": "/gone", "changes": "reword"},
	}}
	answers[intentAgentName] = intents(models.IntentEdit)

	var titles []string
	for evt := range newTestOrchestrator(scripted(answers), versions).Stream(context.Background(), models.EditDocumentationRequest{Query: "q"}, "s") {
		if p, ok := evt.Payload.(events.DocumentProcessingPayload); ok {
			titles = append(titles, p.DocumentTitle)
		}
	}
	assert.Equal(t, []string{"Title alpha", "01234567"}, titles)
}
