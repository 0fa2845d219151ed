package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/embedding"
	"golang.org/x/sync/errgroup"

	"docsync/internal/llm/client"
)

const (
	summaryMaxLength = 400
	maxKeywords      = 10
	emptySummary     = "No content available"
)

// AgentRunner is the subset of the LLM client used for keywords and summaries.
type AgentRunner interface {
	Run(ctx context.Context, agent client.Agent, input string, out any) error
}

// Processed holds everything derived from a markdown body before it is stored.
type Processed struct {
	Language  string
	Keywords  []string
	URLs      []string
	Summary   string
	Embedding []float32
}

type Config struct {
	Embedder  embedding.Embedder
	Runner    AgentRunner
	Dimension int
	Languages []string
	Logger    *slog.Logger
}

type Processor struct {
	embedder  embedding.Embedder
	runner    AgentRunner
	dimension int
	languages []string
	logger    *slog.Logger
}

func NewProcessor(cfg Config) *Processor {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{defaultLanguage}
	}
	return &Processor{
		embedder:  cfg.Embedder,
		runner:    cfg.Runner,
		dimension: cfg.Dimension,
		languages: cfg.Languages,
		logger:    cfg.Logger.With("component", "content"),
	}
}

func (p *Processor) Languages() []string { return p.languages }

// Process derives language, links, keywords, summary and embedding for markdown.
// Enrichment failures degrade to fallbacks and never fail the call.
func (p *Processor) Process(ctx context.Context, markdown, language string) (*Processed, error) {
	if strings.TrimSpace(markdown) == "" {
		if language == "" {
			language = defaultLanguage
		}
		return &Processed{
			Language:  language,
			Keywords:  []string{},
			URLs:      []string{},
			Summary:   emptySummary,
			Embedding: p.zeroVector(),
		}, nil
	}

	out := &Processed{
		Language: language,
		URLs:     ExtractURLs(markdown),
	}
	if out.Language == "" {
		out.Language = DetectLanguage(markdown, p.languages)
	}

	var embedErr error
	var g errgroup.Group
	g.Go(func() error {
		out.Embedding, embedErr = p.Embed(ctx, markdown)
		return nil
	})
	g.Go(func() error {
		out.Keywords = p.keywords(ctx, markdown, out.Language)
		return nil
	})
	g.Go(func() error {
		out.Summary = p.summary(ctx, markdown, out.Language)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if embedErr != nil {
		p.logger.Warn("embedding failed, trying fallbacks", "error", embedErr)
		out.Embedding = p.fallbackEmbedding(ctx, out.Summary, out.Keywords)
	}
	return out, nil
}

// Embed returns the embedding of text as float32.
func (p *Processor) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return p.zeroVector(), nil
	}
	if p.embedder == nil {
		return nil, errors.New("no embedder configured")
	}
	vecs, err := p.embedder.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, errors.New("embedder returned no vector")
	}
	return toFloat32(vecs[0]), nil
}

func (p *Processor) fallbackEmbedding(ctx context.Context, summary string, keywords []string) []float32 {
	if summary != "" {
		if vec, err := p.Embed(ctx, summary); err == nil {
			return vec
		}
	}
	if len(keywords) > 0 {
		if vec, err := p.Embed(ctx, strings.Join(keywords, " ")); err == nil {
			return vec
		}
	}
	return p.zeroVector()
}

func (p *Processor) keywords(ctx context.Context, markdown, language string) []string {
	if p.runner != nil {
		var res struct {
			Keywords []string `json:"keywords"`
		}
		input := fmt.Sprintf("Language: %s\n\n%s", language, markdown)
		err := p.runner.Run(ctx, client.Agent{Name: "keyword_extractor", Prompt: client.PromptKeywords}, input, &res)
		if err == nil && len(res.Keywords) > 0 {
			if len(res.Keywords) > maxKeywords {
				res.Keywords = res.Keywords[:maxKeywords]
			}
			return res.Keywords
		}
		if err != nil {
			p.logger.Warn("keyword extraction failed", "error", err)
		}
	}
	return FallbackKeywords(markdown, maxKeywords)
}

func (p *Processor) summary(ctx context.Context, markdown, language string) string {
	if utf8.RuneCountInString(markdown) <= summaryMaxLength {
		return markdown
	}
	if p.runner != nil {
		var res struct {
			Summary string `json:"summary"`
		}
		input := fmt.Sprintf("Language: %s\n\n%s", language, markdown)
		err := p.runner.Run(ctx, client.Agent{Name: "summarizer", Prompt: client.PromptSummary}, input, &res)
		if err == nil && strings.TrimSpace(res.Summary) != "" {
			return strings.TrimSpace(res.Summary)
		}
		if err != nil {
			p.logger.Warn("summary generation failed", "error", err)
		}
	}
	return TruncateSummary(markdown)
}

func (p *Processor) zeroVector() []float32 {
	return make([]float32, p.dimension)
}
