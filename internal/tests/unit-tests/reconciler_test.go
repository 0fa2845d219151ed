package unit_tests

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/internal/apperr"
	"docsync/internal/editor"
	"docsync/internal/models"
	"docsync/internal/services"
	"docsync/internal/tests/mocks"
)

// docStore is a small in-memory backing for DocumentServiceMock.
type docStore struct {
	mu       sync.Mutex
	docs     map[string]*models.Document
	versions map[string][]models.DocumentContentCreate
	created  []models.DocumentCreate
	calls    int
}

func newDocStore(docs ...*models.Document) *docStore {
	s := &docStore{docs: map[string]*models.Document{}, versions: map[string][]models.DocumentContentCreate{}}
	for _, d := range docs {
		s.docs[d.ID] = d
	}
	return s
}

func (s *docStore) mock() *mocks.DocumentServiceMock {
	return &mocks.DocumentServiceMock{
		GetDocumentFunc: func(ctx context.Context, id string) (*models.Document, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.calls++
			d, ok := s.docs[id]
			if !ok {
				return nil, apperr.NotFound("document", id)
			}
			cp := *d
			return &cp, nil
		},
		CreateVersionFunc: func(ctx context.Context, id string, body models.DocumentContentCreate) (*models.DocumentContentRead, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.calls++
			s.versions[id] = append(s.versions[id], body)
			return &models.DocumentContentRead{DocumentContent: models.DocumentContent{DocumentID: id, MarkdownContent: body.MarkdownContent}}, nil
		},
		CreateDocumentFunc: func(ctx context.Context, doc models.DocumentCreate, body *models.DocumentContentCreate) (*models.Document, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.calls++
			s.created = append(s.created, doc)
			return &models.Document{Name: doc.Name}, nil
		},
		DeleteDocumentFunc: func(ctx context.Context, id string) (bool, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.calls++
			d, ok := s.docs[id]
			if !ok || d.IsDeleted {
				return false, nil
			}
			d.IsDeleted = true
			return true, nil
		},
	}
}

func newReconciler(docs services.DocumentService) services.EditService {
	return services.NewEditService(services.EditServiceConfig{Documents: docs})
}

func validEdit(id string) models.DocumentEditWithOriginal {
	return models.DocumentEditWithOriginal{
		DocumentEdit: models.DocumentEdit{
			DocumentID: id,
			Version:    "v1",
			Changes:    []models.ContentChange{{OldString: "Old line.", NewString: "New line."}},
		},
		OriginalContent: &models.OriginalContent{MarkdownContent: "Old line.\nKeep this.\n", Name: "n", Title: "t", Path: "/p"},
	}
}

func TestUpdateDocumentation_EmptyRequestRejected(t *testing.T) {
	store := newDocStore()
	svc := newReconciler(store.mock())

	res, err := svc.UpdateDocumentation(context.Background(), models.ChangeRequest{
		Edit: []models.DocumentEditWithOriginal{}, Create: []models.GeneratedDocument{}, Delete: []models.DocumentToDelete{},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Nil(t, res)
	assert.Equal(t, 0, store.calls)
}

func TestUpdateDocumentation_AppliesPatchToSnapshot(t *testing.T) {
	store := newDocStore(&models.Document{ID: "doc"})
	res, err := newReconciler(store.mock()).UpdateDocumentation(context.Background(), models.ChangeRequest{
		Edit: []models.DocumentEditWithOriginal{validEdit("doc")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Successful)
	assert.Nil(t, res.FailedItems)
	assert.Equal(t, "All 1 items processed successfully", res.Message)

	require.Len(t, store.versions["doc"], 1)
	assert.Equal(t, "New line.\nKeep this.\n", store.versions["doc"][0].MarkdownContent)
	assert.Equal(t, "en", store.versions["doc"][0].Language)
}

func TestUpdateDocumentation_PartialFailureAccounting(t *testing.T) {
	store := newDocStore(
		&models.Document{ID: "live"},
		&models.Document{ID: "gone", IsDeleted: true},
		&models.Document{ID: "victim"},
	)
	missingChanges := validEdit("live")
	missingChanges.Changes = nil

	req := models.ChangeRequest{
		Edit: []models.DocumentEditWithOriginal{
			validEdit("live"),
			missingChanges,
			validEdit("gone"),
			validEdit("nowhere"),
		},
		Create: []models.GeneratedDocument{
			{Name: "guide", Title: "Guide", Path: "/guide", MarkdownContentEN: "# Guide", MarkdownContentJA: "# ガイド"},
			{Name: "", Title: "No name", MarkdownContentEN: "x"},
			{Name: "empty", Title: "Empty"},
		},
		Delete: []models.DocumentToDelete{
			{DocumentID: "victim", Version: "v1"},
			{DocumentID: "gone", Version: "v1"},
			{DocumentID: "victim2"},
		},
	}

	res, err := newReconciler(store.mock()).UpdateDocumentation(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, req.Len(), res.TotalProcessed)
	assert.Equal(t, res.TotalProcessed, res.Successful+res.Failed)
	assert.Equal(t, 3, res.Successful)
	assert.Equal(t, 7, res.Failed)
	assert.Len(t, res.Errors, res.Failed)
	assert.Equal(t, "Processed 10 items: 3 successful, 7 failed", res.Message)

	require.NotNil(t, res.FailedItems)
	assert.Equal(t, []models.DocumentEditWithOriginal{req.Edit[1], req.Edit[2], req.Edit[3]}, res.FailedItems.Edit)
	assert.Equal(t, []models.GeneratedDocument{req.Create[1], req.Create[2]}, res.FailedItems.Create)
	assert.Equal(t, []models.DocumentToDelete{req.Delete[1], req.Delete[2]}, res.FailedItems.Delete)

	messages := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		messages = append(messages, e.ErrorMessage)
	}
	assert.Equal(t, []string{
		"Validation error: No changes provided",
		"Document gone is deleted and cannot be edited",
		"Document nowhere not found",
		"Validation error: Missing document name",
		"Validation error: Missing markdown content for both languages",
		"Document gone is already deleted",
		"Validation error: Missing version",
	}, messages)
	assert.Equal(t, "ValidationError", res.Errors[0].ErrorType)
	assert.Equal(t, "ConflictError", res.Errors[1].ErrorType)
	assert.Equal(t, "NotFoundError", res.Errors[2].ErrorType)

	// one create item with two languages yields two documents
	assert.Len(t, store.created, 2)
}

func TestUpdateDocumentation_ResubmittingFailedItems(t *testing.T) {
	store := newDocStore(&models.Document{ID: "a"})
	svc := newReconciler(store.mock())

	req := models.ChangeRequest{
		Edit:   []models.DocumentEditWithOriginal{validEdit("a"), validEdit("b")},
		Delete: []models.DocumentToDelete{{DocumentID: "c", Version: "v1"}},
	}
	first, err := svc.UpdateDocumentation(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 2, first.Failed)
	require.NotNil(t, first.FailedItems)

	store.mu.Lock()
	store.docs["b"] = &models.Document{ID: "b"}
	store.docs["c"] = &models.Document{ID: "c"}
	store.mu.Unlock()

	second, err := svc.UpdateDocumentation(context.Background(), *first.FailedItems)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Failed)
	assert.Equal(t, 2, second.Successful)
	assert.Equal(t, "All 2 items processed successfully", second.Message)
}

func TestUpdateDocumentation_AllFailed(t *testing.T) {
	res, err := newReconciler(newDocStore().mock()).UpdateDocumentation(context.Background(), models.ChangeRequest{
		Delete: []models.DocumentToDelete{{DocumentID: "x", Version: "v"}, {}},
	})
	require.NoError(t, err)
	assert.Equal(t, "All 2 items failed to process", res.Message)
	assert.Equal(t, "Validation error: Missing document_id", res.Errors[1].ErrorMessage)
}

func TestUpdateDocumentation_StrictPatching(t *testing.T) {
	store := newDocStore(&models.Document{ID: "doc"})
	svc := services.NewEditService(services.EditServiceConfig{
		Documents: store.mock(),
		Patcher:   editor.Patcher{Strict: true},
	})
	edit := validEdit("doc")
	edit.Changes = []models.ContentChange{{OldString: "absent", NewString: "x"}}

	res, err := svc.UpdateDocumentation(context.Background(), models.ChangeRequest{Edit: []models.DocumentEditWithOriginal{edit}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, "ValidationError", res.Errors[0].ErrorType)
	assert.Empty(t, store.versions)
}

func TestUpdateDocumentation_PanicIsCaptured(t *testing.T) {
	docs := &mocks.DocumentServiceMock{
		GetDocumentFunc: func(ctx context.Context, id string) (*models.Document, error) {
			panic("storage exploded")
		},
	}
	res, err := newReconciler(docs).UpdateDocumentation(context.Background(), models.ChangeRequest{
		Delete: []models.DocumentToDelete{{DocumentID: "x", Version: "v"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, "PanicError", res.Errors[0].ErrorType)
}
