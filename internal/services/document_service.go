package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"docsync/internal/apperr"
	"docsync/internal/content"
	"docsync/internal/models"
	"docsync/internal/repositories"
)

const latestVersionAlias = "latest"

type DocumentService interface {
	CreateDocument(ctx context.Context, doc models.DocumentCreate, body *models.DocumentContentCreate) (*models.Document, error)
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	RootDocuments(ctx context.Context, isAPIRef *bool) ([]*models.Document, error)
	Children(ctx context.Context, id string) ([]*models.Document, error)
	Parents(ctx context.Context, id string) ([]*models.Document, error)
	UpdateDocument(ctx context.Context, id string, update models.DocumentUpdate) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) (bool, error)
	CreateVersion(ctx context.Context, id string, body models.DocumentContentCreate) (*models.DocumentContentRead, error)
	ListVersions(ctx context.Context, id string) ([]models.DocumentContentRead, error)
	GetDocumentVersion(ctx context.Context, id, version string) (*models.DocumentContentRead, error)
	Tree(ctx context.Context, filter models.DocumentFilter) (models.DocumentTree, error)
	CurrentDocuments(ctx context.Context, isAPIRef *bool) ([]models.CurrentDocument, error)
	ListPaths(ctx context.Context, isAPIRef bool) ([]models.PathEntry, error)
}

type documentService struct {
	docs      repositories.DocumentRepository
	contents  repositories.ContentRepository
	processor *content.Processor
	logger    *slog.Logger
}

func NewDocumentService(docs repositories.DocumentRepository, contents repositories.ContentRepository, processor *content.Processor, logger *slog.Logger) DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	if processor == nil {
		processor = content.NewProcessor(content.Config{Logger: logger})
	}
	return &documentService{
		docs:      docs,
		contents:  contents,
		processor: processor,
		logger:    logger.With("component", "documents"),
	}
}

func (s *documentService) CreateDocument(ctx context.Context, in models.DocumentCreate, body *models.DocumentContentCreate) (*models.Document, error) {
	if strings.TrimSpace(in.Path) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("", "Path and name are required fields")
	}
	doc := &models.Document{
		Name:     in.Name,
		Title:    in.Title,
		Path:     in.Path,
		ParentID: in.ParentID,
		IsAPIRef: in.IsAPIRef,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("service: create document: %w", err)
	}
	if body == nil {
		return doc, nil
	}

	version, err := s.CreateVersion(ctx, doc.ID, *body)
	if err != nil {
		return nil, err
	}
	doc.CurrentVersionID = &version.Version
	return doc, nil
}

func (s *documentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: get document %s: %w", id, err)
	}
	return doc, nil
}

func (s *documentService) RootDocuments(ctx context.Context, isAPIRef *bool) ([]*models.Document, error) {
	list, err := s.docs.Roots(ctx, isAPIRef)
	if err != nil {
		return nil, fmt.Errorf("service: list root documents: %w", err)
	}
	return list, nil
}

func (s *documentService) Children(ctx context.Context, id string) ([]*models.Document, error) {
	list, err := s.docs.Children(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: list children of %s: %w", id, err)
	}
	return list, nil
}

func (s *documentService) Parents(ctx context.Context, id string) ([]*models.Document, error) {
	list, err := s.docs.Parents(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: list parents of %s: %w", id, err)
	}
	return list, nil
}

func (s *documentService) UpdateDocument(ctx context.Context, id string, u models.DocumentUpdate) (*models.Document, error) {
	fields := map[string]any{}
	if u.Name != nil {
		if strings.TrimSpace(*u.Name) == "" {
			return nil, apperr.Validation("name", "Name cannot be empty")
		}
		fields["name"] = *u.Name
	}
	if u.Path != nil {
		if strings.TrimSpace(*u.Path) == "" {
			return nil, apperr.Validation("path", "Path cannot be empty")
		}
		fields["path"] = *u.Path
	}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.ParentID != nil {
		fields["parent_id"] = *u.ParentID
	}
	if u.IsAPIRef != nil {
		fields["is_api_ref"] = *u.IsAPIRef
	}
	if u.IsDeleted != nil {
		fields["is_deleted"] = *u.IsDeleted
	}
	doc, err := s.docs.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("service: update document %s: %w", id, err)
	}
	return doc, nil
}

// DeleteDocument soft-deletes id and reports false when it was already deleted.
func (s *documentService) DeleteDocument(ctx context.Context, id string) (bool, error) {
	ok, err := s.docs.SoftDelete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("service: delete document %s: %w", id, err)
	}
	return ok, nil
}

// CreateVersion processes body, stores it as a new version and makes it current.
func (s *documentService) CreateVersion(ctx context.Context, id string, body models.DocumentContentCreate) (*models.DocumentContentRead, error) {
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: create version of %s: %w", id, err)
	}

	processed, err := s.processor.Process(ctx, body.MarkdownContent, body.Language)
	if err != nil {
		return nil, fmt.Errorf("service: process content of %s: %w", id, err)
	}
	c := &models.DocumentContent{
		DocumentID:      id,
		MarkdownContent: body.MarkdownContent,
		Language:        processed.Language,
		Summary:         processed.Summary,
		Keywords:        processed.Keywords,
		URLs:            processed.URLs,
		Embedding:       processed.Embedding,
	}
	if err := s.contents.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("service: create version of %s: %w", id, err)
	}
	if err := s.docs.SetCurrentVersion(ctx, id, c.Version); err != nil {
		return nil, fmt.Errorf("service: set current version of %s: %w", id, err)
	}
	s.logger.Info("new version created", "document_id", id, "version", c.Version, "language", c.Language)
	return readOf(c, doc, true), nil
}

func (s *documentService) ListVersions(ctx context.Context, id string) ([]models.DocumentContentRead, error) {
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: list versions of %s: %w", id, err)
	}
	list, err := s.contents.ListVersions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: list versions of %s: %w", id, err)
	}
	out := make([]models.DocumentContentRead, 0, len(list))
	for _, c := range list {
		latest := doc.CurrentVersionID != nil && *doc.CurrentVersionID == c.Version
		out = append(out, *readOf(c, doc, latest))
	}
	return out, nil
}

// GetDocumentVersion resolves the "latest" alias to the current version.
func (s *documentService) GetDocumentVersion(ctx context.Context, id, version string) (*models.DocumentContentRead, error) {
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if version == latestVersionAlias {
		if doc.CurrentVersionID == nil || *doc.CurrentVersionID == "" {
			return nil, &apperr.NotFoundError{Resource: "version", ID: id, Message: "No versions found for this document"}
		}
		version = *doc.CurrentVersionID
	}
	c, err := s.contents.Get(ctx, id, version)
	if err != nil {
		return nil, err
	}
	latest := doc.CurrentVersionID != nil && *doc.CurrentVersionID == c.Version
	return readOf(c, doc, latest), nil
}

// CurrentDocuments pairs every live document with its current version.
// Documents without a version are left out.
func (s *documentService) CurrentDocuments(ctx context.Context, isAPIRef *bool) ([]models.CurrentDocument, error) {
	notDeleted := false
	docs, err := s.docs.List(ctx, models.DocumentFilter{IsDeleted: &notDeleted, IsAPIRef: isAPIRef})
	if err != nil {
		return nil, fmt.Errorf("service: list current documents: %w", err)
	}
	byVersion, err := s.currentContents(ctx, docs)
	if err != nil {
		return nil, err
	}
	out := make([]models.CurrentDocument, 0, len(docs))
	for _, d := range docs {
		if d.CurrentVersionID == nil {
			continue
		}
		if c, ok := byVersion[*d.CurrentVersionID]; ok {
			out = append(out, models.CurrentDocument{Document: d, Content: c})
		}
	}
	return out, nil
}

func (s *documentService) ListPaths(ctx context.Context, isAPIRef bool) ([]models.PathEntry, error) {
	paths, err := s.docs.ListPaths(ctx, isAPIRef)
	if err != nil {
		return nil, fmt.Errorf("service: list paths: %w", err)
	}
	return paths, nil
}

// Tree groups documents per configured language into narrative and API
// reference trees. Documents without content appear under every language.
func (s *documentService) Tree(ctx context.Context, filter models.DocumentFilter) (models.DocumentTree, error) {
	if filter.IsDeleted == nil {
		notDeleted := false
		filter.IsDeleted = &notDeleted
	}
	docs, err := s.docs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service: list documents: %w", err)
	}
	byVersion, err := s.currentContents(ctx, docs)
	if err != nil {
		return nil, err
	}

	nodes := make([]*models.DocumentNode, 0, len(docs))
	for _, d := range docs {
		n := &models.DocumentNode{Document: *d, Keywords: []string{}}
		if d.CurrentVersionID != nil {
			if c, ok := byVersion[*d.CurrentVersionID]; ok {
				n.MarkdownContent = content.CleanMarkdown(c.MarkdownContent)
				n.Language = c.Language
				if c.Keywords != nil {
					n.Keywords = c.Keywords
				}
			}
		}
		nodes = append(nodes, n)
	}

	tree := models.DocumentTree{}
	for _, lang := range s.processor.Languages() {
		var guides, refs []*models.DocumentNode
		for _, n := range nodes {
			if n.Language != "" && n.Language != lang {
				continue
			}
			// BuildTree links children in place, so each language gets its own copy.
			cp := *n
			cp.Children = nil
			if n.IsAPIRef {
				refs = append(refs, &cp)
			} else {
				guides = append(guides, &cp)
			}
		}
		sortByPath(guides)
		sortByPath(refs)
		tree[lang] = models.LanguageTree{
			Documentation: nonNil(content.BuildTree(guides)),
			APIReferences: nonNil(content.BuildTree(refs)),
		}
	}
	return tree, nil
}

func (s *documentService) currentContents(ctx context.Context, docs []*models.Document) (map[string]*models.DocumentContent, error) {
	versions := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.CurrentVersionID != nil && *d.CurrentVersionID != "" {
			versions = append(versions, *d.CurrentVersionID)
		}
	}
	list, err := s.contents.GetMany(ctx, versions)
	if err != nil {
		return nil, fmt.Errorf("service: load current contents: %w", err)
	}
	out := make(map[string]*models.DocumentContent, len(list))
	for _, c := range list {
		out[c.Version] = c
	}
	return out, nil
}

func readOf(c *models.DocumentContent, doc *models.Document, latest bool) *models.DocumentContentRead {
	return &models.DocumentContentRead{
		DocumentContent: *c,
		Latest:          latest,
		Name:            doc.Name,
		Title:           doc.Title,
		Path:            doc.Path,
	}
}

func sortByPath(nodes []*models.DocumentNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return strings.ToLower(nodes[i].Path) < strings.ToLower(nodes[j].Path)
	})
}

func nonNil(nodes []*models.DocumentNode) []*models.DocumentNode {
	if nodes == nil {
		return []*models.DocumentNode{}
	}
	return nodes
}
