package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/internal/llm/client"
	"docsync/internal/models"
	"docsync/internal/tests/mocks"
)

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "en", DetectLanguage("", []string{"en", "ja"}))
	assert.Equal(t, "en", DetectLanguage("Plain English text", []string{"en", "ja"}))
	assert.Equal(t, "ja", DetectLanguage("これは日本語のドキュメントです", []string{"en", "ja"}))
	assert.Equal(t, "en", DetectLanguage("これは日本語のドキュメントです", []string{"en"}))
}

func TestExtractURLs(t *testing.T) {
	md := "See [docs](https://example.com/docs) and https://plain.example.org/path.\n" +
		`<a href="https://html.example.net/x">x</a> <a href="/relative">rel</a>` +
		"\nAgain https://example.com/docs"
	got := ExtractURLs(md)
	assert.Equal(t, []string{
		"https://example.com/docs",
		"https://html.example.net/x",
		"https://plain.example.org/path",
	}, got)
	assert.Empty(t, ExtractURLs(""))
}

func TestFallbackKeywords(t *testing.T) {
	text := "The webhook sends events. Each webhook event carries a signature; the signature is verified."
	got := FallbackKeywords(text, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "signature", got[0])
	assert.Equal(t, "webhook", got[1])
	assert.NotContains(t, got, "the")
}

func TestCleanMarkdown(t *testing.T) {
	in := "# Title  \r\n\r\n\r\n\r\nBody\t\n"
	assert.Equal(t, "# Title\n\nBody", CleanMarkdown(in))
}

func TestBuildTree(t *testing.T) {
	root := "root"
	mid := "mid"
	nodes := []*models.DocumentNode{
		{Document: models.Document{ID: "root"}},
		{Document: models.Document{ID: "mid", ParentID: &root}},
		{Document: models.Document{ID: "leaf", ParentID: &mid}},
		{Document: models.Document{ID: "orphan", ParentID: strPtr("gone")}},
		{Document: models.Document{ID: "other"}},
	}
	roots := BuildTree(nodes)
	require.Len(t, roots, 2)
	assert.Equal(t, "root", roots[0].ID)
	require.Len(t, roots[0].Children, 1)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "leaf", roots[0].Children[0].Children[0].ID)
	assert.Equal(t, "other", roots[1].ID)
}

func TestProcess_EmptyContent(t *testing.T) {
	p := NewProcessor(Config{Dimension: 4})
	out, err := p.Process(context.Background(), "  ", "")
	require.NoError(t, err)
	assert.Equal(t, "en", out.Language)
	assert.Equal(t, "No content available", out.Summary)
	assert.Equal(t, make([]float32, 4), out.Embedding)
}

func TestProcess_ShortTextIsItsOwnSummary(t *testing.T) {
	runner := &mocks.AgentRunnerMock{
		RunFunc: func(ctx context.Context, agent client.Agent, input string, out any) error {
			if agent.Prompt == client.PromptKeywords {
				return mocks.Fill(out, map[string]any{"keywords": []string{"intro"}})
			}
			return errors.New("unexpected agent " + agent.Name)
		},
	}
	p := NewProcessor(Config{Embedder: &mocks.EmbedderMock{}, Runner: runner, Dimension: 3})
	out, err := p.Process(context.Background(), "# Intro\nShort body.", "en")
	require.NoError(t, err)
	assert.Equal(t, "# Intro\nShort body.", out.Summary)
	assert.Equal(t, []string{"intro"}, out.Keywords)
	assert.Equal(t, []float32{1, 0, 0}, out.Embedding)
}

func TestProcess_EmbeddingFallsBackToSummary(t *testing.T) {
	long := strings.Repeat("webhooks deliver events reliably. ", 30)
	embedder := &mocks.EmbedderMock{
		EmbedStringsFunc: func(ctx context.Context, texts []string) ([][]float64, error) {
			if texts[0] == long {
				return nil, errors.New("input too long")
			}
			return [][]float64{{0, 1, 0}}, nil
		},
	}
	runner := &mocks.AgentRunnerMock{
		RunFunc: func(ctx context.Context, agent client.Agent, input string, out any) error {
			switch agent.Prompt {
			case client.PromptSummary:
				return mocks.Fill(out, map[string]any{"summary": "About webhooks."})
			default:
				return errors.New("keyword model down")
			}
		},
	}
	p := NewProcessor(Config{Embedder: embedder, Runner: runner, Dimension: 3})
	out, err := p.Process(context.Background(), long, "")
	require.NoError(t, err)
	assert.Equal(t, "About webhooks.", out.Summary)
	assert.Equal(t, []float32{0, 1, 0}, out.Embedding)
	assert.Contains(t, out.Keywords, "webhooks")
}

func TestProcess_ZeroVectorWhenEverythingFails(t *testing.T) {
	embedder := &mocks.EmbedderMock{
		EmbedStringsFunc: func(ctx context.Context, texts []string) ([][]float64, error) {
			return nil, errors.New("down")
		},
	}
	p := NewProcessor(Config{Embedder: embedder, Dimension: 2})
	out, err := p.Process(context.Background(), "some text here", "en")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0}, out.Embedding)
}

func strPtr(s string) *string { return &s }
