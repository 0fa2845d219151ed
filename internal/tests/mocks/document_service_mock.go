package mocks

import (
	"context"

	"docsync/internal/models"
)

type DocumentServiceMock struct {
	CreateDocumentFunc     func(ctx context.Context, doc models.DocumentCreate, body *models.DocumentContentCreate) (*models.Document, error)
	GetDocumentFunc        func(ctx context.Context, id string) (*models.Document, error)
	RootDocumentsFunc      func(ctx context.Context, isAPIRef *bool) ([]*models.Document, error)
	ChildrenFunc           func(ctx context.Context, id string) ([]*models.Document, error)
	ParentsFunc            func(ctx context.Context, id string) ([]*models.Document, error)
	UpdateDocumentFunc     func(ctx context.Context, id string, update models.DocumentUpdate) (*models.Document, error)
	DeleteDocumentFunc     func(ctx context.Context, id string) (bool, error)
	CreateVersionFunc      func(ctx context.Context, id string, body models.DocumentContentCreate) (*models.DocumentContentRead, error)
	ListVersionsFunc       func(ctx context.Context, id string) ([]models.DocumentContentRead, error)
	GetDocumentVersionFunc func(ctx context.Context, id, version string) (*models.DocumentContentRead, error)
	TreeFunc               func(ctx context.Context, filter models.DocumentFilter) (models.DocumentTree, error)
	CurrentDocumentsFunc   func(ctx context.Context, isAPIRef *bool) ([]models.CurrentDocument, error)
	ListPathsFunc          func(ctx context.Context, isAPIRef bool) ([]models.PathEntry, error)
}

func (m *DocumentServiceMock) CreateDocument(ctx context.Context, doc models.DocumentCreate, body *models.DocumentContentCreate) (*models.Document, error) {
	if m.CreateDocumentFunc != nil {
		return m.CreateDocumentFunc(ctx, doc, body)
	}
	return &models.Document{Name: doc.Name, Title: doc.Title, Path: doc.Path}, nil
}

func (m *DocumentServiceMock) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	if m.GetDocumentFunc != nil {
		return m.GetDocumentFunc(ctx, id)
	}
	return &models.Document{ID: id}, nil
}

func (m *DocumentServiceMock) RootDocuments(ctx context.Context, isAPIRef *bool) ([]*models.Document, error) {
	if m.RootDocumentsFunc != nil {
		return m.RootDocumentsFunc(ctx, isAPIRef)
	}
	return []*models.Document{}, nil
}

func (m *DocumentServiceMock) Children(ctx context.Context, id string) ([]*models.Document, error) {
	if m.ChildrenFunc != nil {
		return m.ChildrenFunc(ctx, id)
	}
	return []*models.Document{}, nil
}

func (m *DocumentServiceMock) Parents(ctx context.Context, id string) ([]*models.Document, error) {
	if m.ParentsFunc != nil {
		return m.ParentsFunc(ctx, id)
	}
	return []*models.Document{}, nil
}

func (m *DocumentServiceMock) UpdateDocument(ctx context.Context, id string, update models.DocumentUpdate) (*models.Document, error) {
	if m.UpdateDocumentFunc != nil {
		return m.UpdateDocumentFunc(ctx, id, update)
	}
	return &models.Document{ID: id}, nil
}

func (m *DocumentServiceMock) DeleteDocument(ctx context.Context, id string) (bool, error) {
	if m.DeleteDocumentFunc != nil {
		return m.DeleteDocumentFunc(ctx, id)
	}
	return true, nil
}

func (m *DocumentServiceMock) CreateVersion(ctx context.Context, id string, body models.DocumentContentCreate) (*models.DocumentContentRead, error) {
	if m.CreateVersionFunc != nil {
		return m.CreateVersionFunc(ctx, id, body)
	}
	return &models.DocumentContentRead{
		DocumentContent: models.DocumentContent{DocumentID: id, MarkdownContent: body.MarkdownContent, Language: body.Language},
		Latest:          true,
	}, nil
}

func (m *DocumentServiceMock) ListVersions(ctx context.Context, id string) ([]models.DocumentContentRead, error) {
	if m.ListVersionsFunc != nil {
		return m.ListVersionsFunc(ctx, id)
	}
	return []models.DocumentContentRead{}, nil
}

func (m *DocumentServiceMock) GetDocumentVersion(ctx context.Context, id, version string) (*models.DocumentContentRead, error) {
	if m.GetDocumentVersionFunc != nil {
		return m.GetDocumentVersionFunc(ctx, id, version)
	}
	return nil, nil
}

func (m *DocumentServiceMock) Tree(ctx context.Context, filter models.DocumentFilter) (models.DocumentTree, error) {
	if m.TreeFunc != nil {
		return m.TreeFunc(ctx, filter)
	}
	return models.DocumentTree{}, nil
}

func (m *DocumentServiceMock) CurrentDocuments(ctx context.Context, isAPIRef *bool) ([]models.CurrentDocument, error) {
	if m.CurrentDocumentsFunc != nil {
		return m.CurrentDocumentsFunc(ctx, isAPIRef)
	}
	return []models.CurrentDocument{}, nil
}

func (m *DocumentServiceMock) ListPaths(ctx context.Context, isAPIRef bool) ([]models.PathEntry, error) {
	if m.ListPathsFunc != nil {
		return m.ListPathsFunc(ctx, isAPIRef)
	}
	return []models.PathEntry{}, nil
}
