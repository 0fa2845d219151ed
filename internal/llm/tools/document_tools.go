package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"

	"docsync/internal/events"
	"docsync/internal/models"
	"docsync/internal/vectorindex"
)

const defaultSimilarLimit = 5

// DocumentLookup is the read-only storage view used by the discovery tools.
type DocumentLookup interface {
	CurrentDocuments(ctx context.Context, isAPIRef *bool) ([]models.CurrentDocument, error)
	GetDocumentVersion(ctx context.Context, documentID, version string) (*models.DocumentContentRead, error)
	ListPaths(ctx context.Context, isAPIRef bool) ([]models.PathEntry, error)
}

// QueryEmbedder turns a free-text query into a vector comparable with stored embeddings.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Toolset builds the agent tools backed by the document store.
type Toolset struct {
	docs     DocumentLookup
	embedder QueryEmbedder
	logger   *slog.Logger
}

func NewToolset(docs DocumentLookup, embedder QueryEmbedder, logger *slog.Logger) *Toolset {
	if logger == nil {
		logger = slog.Default()
	}
	return &Toolset{docs: docs, embedder: embedder, logger: logger.With("component", "tools")}
}

type SummariesInput struct {
	Language string `json:"language,omitempty" jsonschema:"description=Optional language code to filter on (e.g. en, ja)"`
}

type SummariesOutput struct {
	Documents []models.DocumentSummary `json:"documents"`
}

type SimilarInput struct {
	Query string `json:"query" jsonschema:"description=Text describing the content to look for"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum number of documents to return (default 5)"`
}

type SimilarDocument struct {
	models.DocumentSummary
	Score float32 `json:"score"`
}

type SimilarOutput struct {
	Documents []SimilarDocument `json:"documents"`
}

type VersionInput struct {
	DocumentID string `json:"document_id" jsonschema:"description=The document_id exactly as returned by another tool"`
	Version    string `json:"version" jsonschema:"description=The version exactly as returned by another tool"`
}

type VersionOutput struct {
	DocumentID      string `json:"document_id"`
	Version         string `json:"version"`
	Title           string `json:"title"`
	Path            string `json:"path"`
	Language        string `json:"language"`
	MarkdownContent string `json:"markdown_content"`
}

type PartitionInput struct {
	IsAPIRef bool `json:"is_api_ref" jsonschema:"description=true for API reference documents, false for narrative guides"`
}

type PathsOutput struct {
	Paths []models.PathEntry `json:"paths"`
}

// Summaries lists current summaries for one partition.
func (t *Toolset) Summaries(ctx context.Context, isAPIRef bool, in *SummariesInput) (*SummariesOutput, error) {
	current, err := t.docs.CurrentDocuments(ctx, &isAPIRef)
	if err != nil {
		return nil, err
	}
	lang := ""
	if in != nil {
		lang = strings.TrimSpace(in.Language)
	}
	out := &SummariesOutput{Documents: []models.DocumentSummary{}}
	for _, cd := range current {
		s := summaryOf(cd, true)
		if lang != "" && s.Language != lang {
			continue
		}
		out.Documents = append(out.Documents, s)
	}
	t.logger.Debug("listed summaries", "is_api_ref", isAPIRef, "count", len(out.Documents), "session", events.SessionFromContext(ctx))
	return out, nil
}

// Similar ranks the partition's documents by cosine similarity to the query.
func (t *Toolset) Similar(ctx context.Context, isAPIRef bool, in *SimilarInput) (*SimilarOutput, error) {
	if in == nil || strings.TrimSpace(in.Query) == "" {
		return nil, errors.New("query is required")
	}
	if t.embedder == nil {
		return nil, errors.New("similarity search is not configured")
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultSimilarLimit
	}

	current, err := t.docs.CurrentDocuments(ctx, &isAPIRef)
	if err != nil {
		return nil, err
	}
	query, err := t.embedder.Embed(ctx, in.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	index := vectorindex.New()
	byVersion := make(map[string]models.CurrentDocument, len(current))
	for _, cd := range current {
		if cd.Content == nil || len(cd.Content.Embedding) != len(query) || isZero(cd.Content.Embedding) {
			continue
		}
		if err := index.Add(cd.Content.Version, cd.Content.Embedding); err != nil {
			t.logger.Warn("skipping document in similarity index", "document_id", cd.Document.ID, "error", err)
			continue
		}
		byVersion[cd.Content.Version] = cd
	}

	hits, err := index.Search(query, limit)
	if err != nil {
		return nil, err
	}
	out := &SimilarOutput{Documents: []SimilarDocument{}}
	for _, h := range hits {
		out.Documents = append(out.Documents, SimilarDocument{
			DocumentSummary: summaryOf(byVersion[h.ID], true),
			Score:           h.Score,
		})
	}
	return out, nil
}

func (t *Toolset) Version(ctx context.Context, in *VersionInput) (*VersionOutput, error) {
	if in == nil || in.DocumentID == "" || in.Version == "" {
		return nil, errors.New("document_id and version are required")
	}
	c, err := t.docs.GetDocumentVersion(ctx, in.DocumentID, in.Version)
	if err != nil {
		return nil, err
	}
	return &VersionOutput{
		DocumentID:      c.DocumentID,
		Version:         c.Version,
		Title:           c.Title,
		Path:            c.Path,
		Language:        c.Language,
		MarkdownContent: c.MarkdownContent,
	}, nil
}

func (t *Toolset) Paths(ctx context.Context, in *PartitionInput) (*PathsOutput, error) {
	isAPIRef := in != nil && in.IsAPIRef
	paths, err := t.docs.ListPaths(ctx, isAPIRef)
	if err != nil {
		return nil, err
	}
	if paths == nil {
		paths = []models.PathEntry{}
	}
	return &PathsOutput{Paths: paths}, nil
}

// DeletionCandidates lists metadata only; bodies and summaries are left out.
func (t *Toolset) DeletionCandidates(ctx context.Context, in *PartitionInput) (*SummariesOutput, error) {
	isAPIRef := in != nil && in.IsAPIRef
	current, err := t.docs.CurrentDocuments(ctx, &isAPIRef)
	if err != nil {
		return nil, err
	}
	out := &SummariesOutput{Documents: []models.DocumentSummary{}}
	for _, cd := range current {
		out.Documents = append(out.Documents, summaryOf(cd, false))
	}
	return out, nil
}

// SuggestionTools returns the discovery tools bound to one partition.
func (t *Toolset) SuggestionTools(isAPIRef bool) ([]tool.BaseTool, error) {
	summaries, err := utils.InferTool("list_document_summaries", ToolDescription("list_document_summaries"),
		func(ctx context.Context, in *SummariesInput) (*SummariesOutput, error) {
			return t.Summaries(ctx, isAPIRef, in)
		})
	if err != nil {
		return nil, fmt.Errorf("list_document_summaries: %w", err)
	}
	version, err := utils.InferTool("get_document_version", ToolDescription("get_document_version"), t.Version)
	if err != nil {
		return nil, fmt.Errorf("get_document_version: %w", err)
	}
	list := []tool.BaseTool{summaries, version}
	if t.embedder != nil {
		similar, err := utils.InferTool("search_similar_documents", ToolDescription("search_similar_documents"),
			func(ctx context.Context, in *SimilarInput) (*SimilarOutput, error) {
				return t.Similar(ctx, isAPIRef, in)
			})
		if err != nil {
			return nil, fmt.Errorf("search_similar_documents: %w", err)
		}
		list = append(list, similar)
	}
	return list, nil
}

func (t *Toolset) CreationTools() ([]tool.BaseTool, error) {
	paths, err := utils.InferTool("list_document_paths", ToolDescription("list_document_paths"), t.Paths)
	if err != nil {
		return nil, fmt.Errorf("list_document_paths: %w", err)
	}
	return []tool.BaseTool{paths}, nil
}

func (t *Toolset) DeletionTools() ([]tool.BaseTool, error) {
	candidates, err := utils.InferTool("list_documents_for_deletion", ToolDescription("list_documents_for_deletion"), t.DeletionCandidates)
	if err != nil {
		return nil, fmt.Errorf("list_documents_for_deletion: %w", err)
	}
	return []tool.BaseTool{candidates}, nil
}

func summaryOf(cd models.CurrentDocument, withSummary bool) models.DocumentSummary {
	s := models.DocumentSummary{}
	if cd.Document != nil {
		s.DocumentID = cd.Document.ID
		s.Title = cd.Document.Title
		s.Path = cd.Document.Path
		s.IsAPIRef = cd.Document.IsAPIRef
	}
	if cd.Content != nil {
		s.Version = cd.Content.Version
		s.Language = cd.Content.Language
		if withSummary {
			s.Summary = cd.Content.Summary
		}
	}
	return s
}

func isZero(v []float32) bool {
	for _, f := range v {
		if f != 0 {
			return false
		}
	}
	return true
}
