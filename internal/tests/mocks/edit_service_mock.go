package mocks

import (
	"context"
	"iter"

	"docsync/internal/events"
	"docsync/internal/models"
)

type EditServiceMock struct {
	EditDocumentationFunc       func(ctx context.Context, req models.EditDocumentationRequest) (*models.EditDocumentationResponse, error)
	EditDocumentationStreamFunc func(ctx context.Context, req models.EditDocumentationRequest, sessionID string) iter.Seq[events.ProgressEvent]
	InlineEditFunc              func(ctx context.Context, req models.InlineEditRequest) (*models.InlineEditResponse, error)
	UpdateDocumentationFunc     func(ctx context.Context, req models.ChangeRequest) (*models.UpdateResult, error)
}

func (m *EditServiceMock) EditDocumentation(ctx context.Context, req models.EditDocumentationRequest) (*models.EditDocumentationResponse, error) {
	if m.EditDocumentationFunc != nil {
		return m.EditDocumentationFunc(ctx, req)
	}
	return models.NewEditDocumentationResponse(), nil
}

func (m *EditServiceMock) EditDocumentationStream(ctx context.Context, req models.EditDocumentationRequest, sessionID string) iter.Seq[events.ProgressEvent] {
	if m.EditDocumentationStreamFunc != nil {
		return m.EditDocumentationStreamFunc(ctx, req, sessionID)
	}
	return func(yield func(events.ProgressEvent) bool) {
		yield(events.NewFinished(sessionID, events.FinishedPayload{Message: "done"}))
	}
}

func (m *EditServiceMock) InlineEdit(ctx context.Context, req models.InlineEditRequest) (*models.InlineEditResponse, error) {
	if m.InlineEditFunc != nil {
		return m.InlineEditFunc(ctx, req)
	}
	return &models.InlineEditResponse{EditedText: req.SelectedText}, nil
}

func (m *EditServiceMock) UpdateDocumentation(ctx context.Context, req models.ChangeRequest) (*models.UpdateResult, error) {
	if m.UpdateDocumentationFunc != nil {
		return m.UpdateDocumentationFunc(ctx, req)
	}
	return &models.UpdateResult{TotalProcessed: req.Len(), Successful: req.Len(), Errors: []models.ProcessingError{}}, nil
}
