package mocks

import (
	"context"

	"docsync/internal/models"
)

type DocumentRepositoryMock struct {
	CreateFunc            func(ctx context.Context, doc *models.Document) error
	GetFunc               func(ctx context.Context, id string) (*models.Document, error)
	ListFunc              func(ctx context.Context, filter models.DocumentFilter) ([]*models.Document, error)
	RootsFunc             func(ctx context.Context, isAPIRef *bool) ([]*models.Document, error)
	ChildrenFunc          func(ctx context.Context, parentID string) ([]*models.Document, error)
	ParentsFunc           func(ctx context.Context, id string) ([]*models.Document, error)
	UpdateFunc            func(ctx context.Context, id string, fields map[string]any) (*models.Document, error)
	SetCurrentVersionFunc func(ctx context.Context, id, version string) error
	SoftDeleteFunc        func(ctx context.Context, id string) (bool, error)
	ListPathsFunc         func(ctx context.Context, isAPIRef bool) ([]models.PathEntry, error)
}

func (m *DocumentRepositoryMock) Create(ctx context.Context, doc *models.Document) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, doc)
	}
	return nil
}

func (m *DocumentRepositoryMock) Get(ctx context.Context, id string) (*models.Document, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *DocumentRepositoryMock) List(ctx context.Context, filter models.DocumentFilter) ([]*models.Document, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Document{}, nil
}

func (m *DocumentRepositoryMock) Roots(ctx context.Context, isAPIRef *bool) ([]*models.Document, error) {
	if m.RootsFunc != nil {
		return m.RootsFunc(ctx, isAPIRef)
	}
	return []*models.Document{}, nil
}

func (m *DocumentRepositoryMock) Children(ctx context.Context, parentID string) ([]*models.Document, error) {
	if m.ChildrenFunc != nil {
		return m.ChildrenFunc(ctx, parentID)
	}
	return []*models.Document{}, nil
}

func (m *DocumentRepositoryMock) Parents(ctx context.Context, id string) ([]*models.Document, error) {
	if m.ParentsFunc != nil {
		return m.ParentsFunc(ctx, id)
	}
	return []*models.Document{}, nil
}

func (m *DocumentRepositoryMock) Update(ctx context.Context, id string, fields map[string]any) (*models.Document, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, fields)
	}
	return nil, nil
}

func (m *DocumentRepositoryMock) SetCurrentVersion(ctx context.Context, id, version string) error {
	if m.SetCurrentVersionFunc != nil {
		return m.SetCurrentVersionFunc(ctx, id, version)
	}
	return nil
}

func (m *DocumentRepositoryMock) SoftDelete(ctx context.Context, id string) (bool, error) {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id)
	}
	return true, nil
}

func (m *DocumentRepositoryMock) ListPaths(ctx context.Context, isAPIRef bool) ([]models.PathEntry, error) {
	if m.ListPathsFunc != nil {
		return m.ListPathsFunc(ctx, isAPIRef)
	}
	return []models.PathEntry{}, nil
}

type ContentRepositoryMock struct {
	CreateFunc       func(ctx context.Context, content *models.DocumentContent) error
	GetFunc          func(ctx context.Context, documentID, version string) (*models.DocumentContent, error)
	ListVersionsFunc func(ctx context.Context, documentID string) ([]*models.DocumentContent, error)
	GetManyFunc      func(ctx context.Context, versions []string) ([]*models.DocumentContent, error)
}

func (m *ContentRepositoryMock) Create(ctx context.Context, content *models.DocumentContent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, content)
	}
	return nil
}

func (m *ContentRepositoryMock) Get(ctx context.Context, documentID, version string) (*models.DocumentContent, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, documentID, version)
	}
	return nil, nil
}

func (m *ContentRepositoryMock) ListVersions(ctx context.Context, documentID string) ([]*models.DocumentContent, error) {
	if m.ListVersionsFunc != nil {
		return m.ListVersionsFunc(ctx, documentID)
	}
	return []*models.DocumentContent{}, nil
}

func (m *ContentRepositoryMock) GetMany(ctx context.Context, versions []string) ([]*models.DocumentContent, error) {
	if m.GetManyFunc != nil {
		return m.GetManyFunc(ctx, versions)
	}
	return []*models.DocumentContent{}, nil
}
