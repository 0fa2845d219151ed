package services

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"docsync/internal/apperr"
	"docsync/internal/editor"
	"docsync/internal/events"
	"docsync/internal/models"
)

const (
	languageEN = "en"
	languageJA = "ja"
)

// Orchestrator is the edit pipeline behind EditService.
type Orchestrator interface {
	Run(ctx context.Context, req models.EditDocumentationRequest) (*models.EditDocumentationResponse, error)
	Stream(ctx context.Context, req models.EditDocumentationRequest, sessionID string) iter.Seq[events.ProgressEvent]
}

type InlineEditor interface {
	Edit(ctx context.Context, req models.InlineEditRequest) (*models.InlineEditResponse, error)
}

type EditService interface {
	EditDocumentation(ctx context.Context, req models.EditDocumentationRequest) (*models.EditDocumentationResponse, error)
	EditDocumentationStream(ctx context.Context, req models.EditDocumentationRequest, sessionID string) iter.Seq[events.ProgressEvent]
	InlineEdit(ctx context.Context, req models.InlineEditRequest) (*models.InlineEditResponse, error)
	UpdateDocumentation(ctx context.Context, req models.ChangeRequest) (*models.UpdateResult, error)
}

type EditServiceConfig struct {
	Documents      DocumentService
	Orchestrator   Orchestrator
	Inline         InlineEditor
	Patcher        editor.Patcher
	MaxConcurrency int
	Logger         *slog.Logger
}

type editService struct {
	docs    DocumentService
	orch    Orchestrator
	inline  InlineEditor
	patcher editor.Patcher
	limit   int
	logger  *slog.Logger
}

func NewEditService(cfg EditServiceConfig) EditService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &editService{
		docs:    cfg.Documents,
		orch:    cfg.Orchestrator,
		inline:  cfg.Inline,
		patcher: cfg.Patcher,
		limit:   cfg.MaxConcurrency,
		logger:  logger.With("component", "edits"),
	}
}

func (s *editService) EditDocumentation(ctx context.Context, req models.EditDocumentationRequest) (*models.EditDocumentationResponse, error) {
	return s.orch.Run(ctx, req)
}

func (s *editService) EditDocumentationStream(ctx context.Context, req models.EditDocumentationRequest, sessionID string) iter.Seq[events.ProgressEvent] {
	return s.orch.Stream(ctx, req, sessionID)
}

func (s *editService) InlineEdit(ctx context.Context, req models.InlineEditRequest) (*models.InlineEditResponse, error) {
	return s.inline.Edit(ctx, req)
}

// UpdateDocumentation validates and applies every item of req concurrently.
// Only an empty request is an error; item failures are reported in the result
// and failed items are returned unchanged so they can be resubmitted.
func (s *editService) UpdateDocumentation(ctx context.Context, req models.ChangeRequest) (*models.UpdateResult, error) {
	if req.IsEmpty() {
		return nil, apperr.Validation("change_request", "No changes to apply")
	}

	tasks := make([]func(context.Context) error, 0, req.Len())
	for _, e := range req.Edit {
		tasks = append(tasks, func(ctx context.Context) error { return s.applyEdit(ctx, e) })
	}
	for _, c := range req.Create {
		tasks = append(tasks, func(ctx context.Context) error { return s.applyCreate(ctx, c) })
	}
	for _, d := range req.Delete {
		tasks = append(tasks, func(ctx context.Context) error { return s.applyDelete(ctx, d) })
	}

	results := editor.Settle(ctx, s.limit, tasks, func(ctx context.Context, _ int, task func(context.Context) error) (struct{}, error) {
		return struct{}{}, task(ctx)
	})

	res := &models.UpdateResult{TotalProcessed: len(tasks), Errors: []models.ProcessingError{}}
	failed := models.ChangeRequest{
		Edit:   []models.DocumentEditWithOriginal{},
		Create: []models.GeneratedDocument{},
		Delete: []models.DocumentToDelete{},
	}
	for i, r := range results {
		if r.Err == nil {
			res.Successful++
			continue
		}
		res.Failed++
		res.Errors = append(res.Errors, models.ProcessingError{
			ErrorMessage: r.Err.Error(),
			ErrorType:    apperr.TypeName(r.Err),
		})
		switch {
		case i < len(req.Edit):
			failed.Edit = append(failed.Edit, req.Edit[i])
			s.logger.Error("edit item failed", "index", i, "document_id", req.Edit[i].DocumentID, "error", r.Err)
		case i < len(req.Edit)+len(req.Create):
			j := i - len(req.Edit)
			failed.Create = append(failed.Create, req.Create[j])
			s.logger.Error("create item failed", "index", j, "name", req.Create[j].Name, "error", r.Err)
		default:
			j := i - len(req.Edit) - len(req.Create)
			failed.Delete = append(failed.Delete, req.Delete[j])
			s.logger.Error("delete item failed", "index", j, "document_id", req.Delete[j].DocumentID, "error", r.Err)
		}
	}
	if res.Failed > 0 {
		res.FailedItems = &failed
	}

	switch {
	case res.Failed == 0:
		res.Message = fmt.Sprintf("All %d items processed successfully", res.TotalProcessed)
	case res.Successful == 0:
		res.Message = fmt.Sprintf("All %d items failed to process", res.TotalProcessed)
	default:
		res.Message = fmt.Sprintf("Processed %d items: %d successful, %d failed", res.TotalProcessed, res.Successful, res.Failed)
	}
	s.logger.Info("documentation updated", "total", res.TotalProcessed, "successful", res.Successful, "failed", res.Failed)
	return res, nil
}

func invalid(message string) error {
	return apperr.Validation("", "Validation error: "+message)
}

func validateEdit(e models.DocumentEditWithOriginal) error {
	switch {
	case strings.TrimSpace(e.DocumentID) == "":
		return invalid("Missing document_id")
	case len(e.Changes) == 0:
		return invalid("No changes provided")
	case e.OriginalContent == nil:
		return invalid("Missing original_content")
	case e.OriginalContent.MarkdownContent == "":
		return invalid("Missing original markdown content")
	}
	return nil
}

func validateCreate(c models.GeneratedDocument) error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return invalid("Missing document name")
	case strings.TrimSpace(c.Title) == "":
		return invalid("Missing document title")
	case c.MarkdownContentEN == "" && c.MarkdownContentJA == "":
		return invalid("Missing markdown content for both languages")
	}
	return nil
}

func validateDelete(d models.DocumentToDelete) error {
	switch {
	case strings.TrimSpace(d.DocumentID) == "":
		return invalid("Missing document_id")
	case strings.TrimSpace(d.Version) == "":
		return invalid("Missing version")
	}
	return nil
}

// liveDocument loads id and maps a missing document to a readable message.
func (s *editService) liveDocument(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.docs.GetDocument(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, &apperr.NotFoundError{Resource: "document", ID: id, Message: fmt.Sprintf("Document %s not found", id)}
		}
		return nil, err
	}
	return doc, nil
}

func (s *editService) applyEdit(ctx context.Context, e models.DocumentEditWithOriginal) error {
	if err := validateEdit(e); err != nil {
		return err
	}
	doc, err := s.liveDocument(ctx, e.DocumentID)
	if err != nil {
		return err
	}
	if doc.IsDeleted {
		return apperr.Conflict("Document %s is deleted and cannot be edited", e.DocumentID)
	}

	patched, err := s.patcher.ApplyChecked(e.OriginalContent.MarkdownContent, e.Changes)
	if err != nil {
		return err
	}
	lang := e.OriginalContent.Language
	if lang == "" {
		lang = languageEN
	}
	_, err = s.docs.CreateVersion(ctx, e.DocumentID, models.DocumentContentCreate{MarkdownContent: patched, Language: lang})
	return err
}

// applyCreate persists one document per non-empty language. A failure after
// the first language leaves that language persisted.
func (s *editService) applyCreate(ctx context.Context, c models.GeneratedDocument) error {
	if err := validateCreate(c); err != nil {
		return err
	}
	var parentID *string
	if c.ParentID != nil && *c.ParentID != "" {
		parentID = c.ParentID
	}
	variants := []struct{ lang, body string }{
		{languageEN, c.MarkdownContentEN},
		{languageJA, c.MarkdownContentJA},
	}
	for _, v := range variants {
		if v.body == "" {
			continue
		}
		_, err := s.docs.CreateDocument(ctx,
			models.DocumentCreate{Name: c.Name, Title: c.Title, Path: c.Path, ParentID: parentID, IsAPIRef: c.IsAPIRef},
			&models.DocumentContentCreate{MarkdownContent: v.body, Language: v.lang},
		)
		if err != nil {
			return fmt.Errorf("creating %s variant of %s: %w", v.lang, c.Name, err)
		}
	}
	return nil
}

func (s *editService) applyDelete(ctx context.Context, d models.DocumentToDelete) error {
	if err := validateDelete(d); err != nil {
		return err
	}
	doc, err := s.liveDocument(ctx, d.DocumentID)
	if err != nil {
		return err
	}
	if doc.IsDeleted {
		return apperr.Conflict("Document %s is already deleted", d.DocumentID)
	}
	ok, err := s.docs.DeleteDocument(ctx, d.DocumentID)
	if err != nil {
		return &apperr.PersistenceError{Op: fmt.Sprintf("Failed to delete document %s", d.DocumentID), Err: err}
	}
	if !ok {
		return fmt.Errorf("Failed to delete document %s", d.DocumentID)
	}
	return nil
}
