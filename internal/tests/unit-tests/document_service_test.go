package unit_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/internal/apperr"
	"docsync/internal/content"
	"docsync/internal/models"
	"docsync/internal/services"
	"docsync/internal/tests/mocks"
)

func strp(s string) *string { return &s }

func newProcessor(langs ...string) *content.Processor {
	return content.NewProcessor(content.Config{Dimension: 3, Languages: langs})
}

func TestDocumentService_CreateRequiresNameAndPath(t *testing.T) {
	repo := &mocks.DocumentRepositoryMock{}
	svc := services.NewDocumentService(repo, &mocks.ContentRepositoryMock{}, newProcessor(), nil)

	_, err := svc.CreateDocument(context.Background(), models.DocumentCreate{Name: "x"}, nil)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "Path and name are required fields")
}

func TestDocumentService_CreateWithContentSetsCurrentVersion(t *testing.T) {
	var stored *models.DocumentContent
	var current string
	repo := &mocks.DocumentRepositoryMock{
		CreateFunc: func(ctx context.Context, doc *models.Document) error {
			doc.ID = "doc-1"
			return nil
		},
		GetFunc: func(ctx context.Context, id string) (*models.Document, error) {
			return &models.Document{ID: id, Name: "intro", Path: "/intro"}, nil
		},
		SetCurrentVersionFunc: func(ctx context.Context, id, version string) error {
			current = version
			return nil
		},
	}
	contents := &mocks.ContentRepositoryMock{
		CreateFunc: func(ctx context.Context, c *models.DocumentContent) error {
			c.Version = "v-1"
			stored = c
			return nil
		},
	}
	svc := services.NewDocumentService(repo, contents, newProcessor("en", "ja"), nil)

	doc, err := svc.CreateDocument(context.Background(),
		models.DocumentCreate{Name: "intro", Path: "/intro"},
		&models.DocumentContentCreate{MarkdownContent: "これは日本語です"})
	require.NoError(t, err)
	require.NotNil(t, doc.CurrentVersionID)
	assert.Equal(t, "v-1", *doc.CurrentVersionID)
	assert.Equal(t, "v-1", current)
	require.NotNil(t, stored)
	assert.Equal(t, "ja", stored.Language)
	assert.Len(t, stored.Embedding, 3)
}

func TestDocumentService_LatestAlias(t *testing.T) {
	repo := &mocks.DocumentRepositoryMock{
		GetFunc: func(ctx context.Context, id string) (*models.Document, error) {
			if id == "empty" {
				return &models.Document{ID: id}, nil
			}
			return &models.Document{ID: id, Title: "Doc", CurrentVersionID: strp("v2")}, nil
		},
	}
	contents := &mocks.ContentRepositoryMock{
		GetFunc: func(ctx context.Context, documentID, version string) (*models.DocumentContent, error) {
			return &models.DocumentContent{DocumentID: documentID, Version: version, MarkdownContent: "body " + version}, nil
		},
	}
	svc := services.NewDocumentService(repo, contents, newProcessor(), nil)

	got, err := svc.GetDocumentVersion(context.Background(), "doc", "latest")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Version)
	assert.True(t, got.Latest)
	assert.Equal(t, "Doc", got.Title)

	got, err = svc.GetDocumentVersion(context.Background(), "doc", "v1")
	require.NoError(t, err)
	assert.False(t, got.Latest)

	_, err = svc.GetDocumentVersion(context.Background(), "empty", "latest")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, "No versions found for this document", err.Error())
}

func TestDocumentService_UpdateRejectsEmptyPath(t *testing.T) {
	called := false
	repo := &mocks.DocumentRepositoryMock{
		UpdateFunc: func(ctx context.Context, id string, fields map[string]any) (*models.Document, error) {
			called = true
			return &models.Document{ID: id}, nil
		},
	}
	svc := services.NewDocumentService(repo, &mocks.ContentRepositoryMock{}, newProcessor(), nil)

	_, err := svc.UpdateDocument(context.Background(), "d", models.DocumentUpdate{Path: strp("")})
	assert.True(t, apperr.IsValidation(err))
	assert.False(t, called)

	deleted := true
	_, err = svc.UpdateDocument(context.Background(), "d", models.DocumentUpdate{Title: strp("T"), IsDeleted: &deleted})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestDocumentService_TreeGroupsByLanguageAndPartition(t *testing.T) {
	docs := []*models.Document{
		{ID: "g-en", Path: "/Guide", CurrentVersionID: strp("1")},
		{ID: "g-ja", Path: "/guide", CurrentVersionID: strp("2")},
		{ID: "child", Path: "/guide/child", ParentID: strp("g-en"), CurrentVersionID: strp("3")},
		{ID: "api", Path: "/api", IsAPIRef: true, CurrentVersionID: strp("4")},
		{ID: "bare", Path: "/a-bare"},
	}
	contents := map[string]*models.DocumentContent{
		"1": {Version: "1", Language: "en", MarkdownContent: "# Guide  \n\n\n\nText"},
		"2": {Version: "2", Language: "ja", MarkdownContent: "# ガイド"},
		"3": {Version: "3", Language: "en", MarkdownContent: "child"},
		"4": {Version: "4", Language: "en", MarkdownContent: "api", Keywords: []string{"users"}},
	}
	repo := &mocks.DocumentRepositoryMock{
		ListFunc: func(ctx context.Context, filter models.DocumentFilter) ([]*models.Document, error) {
			require.NotNil(t, filter.IsDeleted)
			assert.False(t, *filter.IsDeleted)
			return docs, nil
		},
	}
	contentRepo := &mocks.ContentRepositoryMock{
		GetManyFunc: func(ctx context.Context, versions []string) ([]*models.DocumentContent, error) {
			out := make([]*models.DocumentContent, 0, len(versions))
			for _, v := range versions {
				out = append(out, contents[v])
			}
			return out, nil
		},
	}
	svc := services.NewDocumentService(repo, contentRepo, newProcessor("en", "ja"), nil)

	tree, err := svc.Tree(context.Background(), models.DocumentFilter{})
	require.NoError(t, err)
	require.Contains(t, tree, "en")
	require.Contains(t, tree, "ja")

	en := tree["en"]
	require.Len(t, en.Documentation, 2)
	assert.Equal(t, "bare", en.Documentation[0].ID)
	assert.Equal(t, "g-en", en.Documentation[1].ID)
	assert.Equal(t, "# Guide\n\nText", en.Documentation[1].MarkdownContent)
	require.Len(t, en.Documentation[1].Children, 1)
	assert.Equal(t, "child", en.Documentation[1].Children[0].ID)
	require.Len(t, en.APIReferences, 1)
	assert.Equal(t, []string{"users"}, en.APIReferences[0].Keywords)

	ja := tree["ja"]
	require.Len(t, ja.Documentation, 2)
	assert.Equal(t, "g-ja", ja.Documentation[1].ID)
	assert.Empty(t, ja.Documentation[1].Children)
	assert.Empty(t, ja.APIReferences)
	assert.NotNil(t, ja.APIReferences)
}

func TestDocumentService_CurrentDocumentsSkipsUnversioned(t *testing.T) {
	repo := &mocks.DocumentRepositoryMock{
		ListFunc: func(ctx context.Context, filter models.DocumentFilter) ([]*models.Document, error) {
			return []*models.Document{
				{ID: "a", CurrentVersionID: strp("va")},
				{ID: "b"},
			}, nil
		},
	}
	contentRepo := &mocks.ContentRepositoryMock{
		GetManyFunc: func(ctx context.Context, versions []string) ([]*models.DocumentContent, error) {
			assert.Equal(t, []string{"va"}, versions)
			return []*models.DocumentContent{{Version: "va", DocumentID: "a"}}, nil
		},
	}
	svc := services.NewDocumentService(repo, contentRepo, newProcessor(), nil)

	isAPIRef := false
	got, err := svc.CurrentDocuments(context.Background(), &isAPIRef)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Document.ID)
}
