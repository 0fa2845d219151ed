package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"docsync/internal/models"
)

type EventType string

const (
	EventIntentDetected     EventType = "intent_detected"
	EventSuggestionsFound   EventType = "suggestions_found"
	EventDocumentProcessing EventType = "document_processing"
	EventDocumentCompleted  EventType = "document_completed"
	EventDocumentCreated    EventType = "document_created"
	EventDocumentDeleted    EventType = "document_deleted"
	EventError              EventType = "error"
	EventFinished           EventType = "finished"
	EventProgress           EventType = "progress"
)

// Terminal reports whether no event may follow one of this type.
func (t EventType) Terminal() bool {
	return t == EventError || t == EventFinished
}

// ProgressEvent is one step of a streamed edit run.
type ProgressEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Type      EventType `json:"type"`
	Payload   any       `json:"payload"`
}

// Envelope is the outbound frame written to a session channel.
type Envelope struct {
	Event ProgressEvent `json:"event"`
}

type IntentDetectedPayload struct {
	Intents []models.Intent `json:"intents"`
}

type SuggestionsFoundPayload struct {
	Suggestions []models.EditSuggestion `json:"suggestions"`
}

type DocumentProcessingPayload struct {
	SuggestionIndex  int    `json:"suggestion_index"`
	TotalSuggestions int    `json:"total_suggestions"`
	DocumentTitle    string `json:"document_title"`
	DocumentPath     string `json:"document_path"`
}

type DocumentCompletedPayload struct {
	Edit models.DocumentEdit `json:"edit"`
}

type DocumentCreatedPayload struct {
	Document models.GeneratedDocument `json:"document"`
}

type DocumentDeletedPayload struct {
	Document models.DocumentToDelete `json:"document"`
}

type ErrorPayload struct {
	Message   string `json:"message"`
	ErrorType string `json:"error_type"`
}

type FinishedPayload struct {
	Message     string `json:"message"`
	EditCount   int    `json:"edit_count"`
	CreateCount int    `json:"create_count"`
	DeleteCount int    `json:"delete_count"`
}

// ProgressPayload carries step counters. Error fields are set on
// recoverable failures that do not end the stream.
type ProgressPayload struct {
	Step         int    `json:"step"`
	TotalSteps   int    `json:"total_steps"`
	Message      string `json:"message"`
	IntentIndex  int    `json:"intent_index,omitempty"`
	TotalIntents int    `json:"total_intents,omitempty"`
	Error        string `json:"error,omitempty"`
	ErrorType    string `json:"error_type,omitempty"`
}

func New(sessionID string, eventType EventType, payload any) ProgressEvent {
	return ProgressEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		SessionID: sessionID,
		Type:      eventType,
		Payload:   payload,
	}
}

func NewProgress(sessionID string, p ProgressPayload) ProgressEvent {
	return New(sessionID, EventProgress, p)
}

func NewError(sessionID, message, errorType string) ProgressEvent {
	return New(sessionID, EventError, ErrorPayload{Message: message, ErrorType: errorType})
}

func NewFinished(sessionID string, p FinishedPayload) ProgressEvent {
	return New(sessionID, EventFinished, p)
}

type contextKey string

const sessionContextKey contextKey = "docsync/events/session"

// WithSession returns a derived context annotated with the given session id
// so tools and loggers can scope their output.
func WithSession(ctx context.Context, sessionID string) context.Context {
	if strings.TrimSpace(sessionID) == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionContextKey, sessionID)
}

// SessionFromContext extracts the session id associated with ctx.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionContextKey).(string); ok {
		return v
	}
	return ""
}
