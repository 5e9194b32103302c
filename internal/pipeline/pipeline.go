// Package pipeline orchestrates embedder, vector index, completion model and
// the refusal policy into a single query path producing cited answers.
package pipeline

import (
	"context"
	"time"

	"github.com/careerkb/profile-agent/internal/embedding"
	"github.com/careerkb/profile-agent/internal/errs"
	"github.com/careerkb/profile-agent/internal/llm"
	"github.com/careerkb/profile-agent/internal/vectorindex"
	"github.com/rs/zerolog/log"
)

// Citation points from the answer back to a retrieved chunk. Index is the
// 1-based rank in the evidence set, matching the [Source N] tags.
type Citation struct {
	Index       int    `json:"index"`
	SourceLabel string `json:"source_label"`
	Excerpt     string `json:"excerpt"`
}

type Result struct {
	Answer      string                     `json:"answer"`
	Citations   []Citation                 `json:"citations"`
	Retrieved   []vectorindex.SearchResult `json:"retrieved_chunks"`
	HasEvidence bool                       `json:"has_evidence"`
}

// Rewriter optionally reformulates the query before retrieval. A rewrite
// failure is non-fatal; the original query is used.
type Rewriter interface {
	RewriteQuery(ctx context.Context, query string) (string, error)
}

// AnswerCache short-circuits repeated queries. Both methods are best effort.
type AnswerCache interface {
	Get(ctx context.Context, query string) (*Result, bool)
	Set(ctx context.Context, query string, result *Result)
}

type Options struct {
	TopK                int
	SimilarityThreshold float64
	StrictMode          bool
	MaxTokens           int
	Temperature         float64
	SystemPrompt        string

	EmbedTimeout      time.Duration
	SearchTimeout     time.Duration
	CompletionTimeout time.Duration
}

type Pipeline struct {
	embedder  embedding.Embedder
	index     vectorindex.Index
	llmClient llm.Client
	rewriter  Rewriter    // nil disables query rewrite
	cache     AnswerCache // nil disables caching
	opts      Options
}

func New(embedder embedding.Embedder, index vectorindex.Index, llmClient llm.Client, opts Options) *Pipeline {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = defaultSystemPrompt
	}
	return &Pipeline{
		embedder:  embedder,
		index:     index,
		llmClient: llmClient,
		opts:      opts,
	}
}

func (p *Pipeline) WithRewriter(rewriter Rewriter) *Pipeline {
	p.rewriter = rewriter
	return p
}

func (p *Pipeline) WithCache(cache AnswerCache) *Pipeline {
	p.cache = cache
	return p
}

// Run executes the full retrieval pipeline for a user query. The refusal
// path is a successful result, never an error; embedding, search and
// completion failures propagate wrapped as a retrieval failure.
func (p *Pipeline) Run(ctx context.Context, query string) (*Result, error) {
	log.Info().Str("query", truncate(query, 120)).Msg("Running retrieval pipeline")

	if p.cache != nil {
		if cached, ok := p.cache.Get(ctx, query); ok {
			log.Info().Msg("Answer served from cache")
			return cached, nil
		}
	}

	searchQuery := p.rewrite(ctx, query)

	queryVector, err := p.embedQuery(ctx, searchQuery)
	if err != nil {
		return nil, errs.Wrap(errs.ErrRetrieval, err)
	}

	retrieved, err := p.search(ctx, queryVector)
	if err != nil {
		return nil, errs.Wrap(errs.ErrRetrieval, err)
	}

	evidence := make([]vectorindex.SearchResult, 0, len(retrieved))
	for _, r := range retrieved {
		if r.Score >= p.opts.SimilarityThreshold {
			evidence = append(evidence, r)
		}
	}

	if len(evidence) == 0 && p.opts.StrictMode {
		log.Warn().Str("query", truncate(query, 80)).Msg("No evidence above threshold, refusing")
		return &Result{
			Answer:      RefusalAnswer,
			Citations:   []Citation{},
			Retrieved:   retrieved,
			HasEvidence: false,
		}, nil
	}

	answer, err := p.complete(ctx, evidence, query)
	if err != nil {
		return nil, errs.Wrap(errs.ErrRetrieval, err)
	}

	citations := make([]Citation, 0, len(evidence))
	for i, chunk := range evidence {
		citations = append(citations, Citation{
			Index:       i + 1,
			SourceLabel: chunk.SourceLabel,
			Excerpt:     excerpt(chunk.Text),
		})
	}

	result := &Result{
		Answer:      answer,
		Citations:   citations,
		Retrieved:   retrieved,
		HasEvidence: true,
	}

	if p.cache != nil {
		p.cache.Set(ctx, query, result)
	}

	log.Info().Int("sources", len(citations)).Int("answer_len", len(answer)).Msg("Answer generated")
	return result, nil
}

func (p *Pipeline) rewrite(ctx context.Context, query string) string {
	if p.rewriter == nil {
		return query
	}
	rewritten, err := p.rewriter.RewriteQuery(ctx, query)
	if err != nil {
		log.Warn().Err(err).Msg("Query rewrite failed, using original query")
		return query
	}
	return rewritten
}

func (p *Pipeline) embedQuery(ctx context.Context, query string) ([]float32, error) {
	ctx, cancel := withTimeout(ctx, p.opts.EmbedTimeout)
	defer cancel()
	return p.embedder.EmbedOne(ctx, query)
}

func (p *Pipeline) search(ctx context.Context, queryVector []float32) ([]vectorindex.SearchResult, error) {
	ctx, cancel := withTimeout(ctx, p.opts.SearchTimeout)
	defer cancel()
	return p.index.Search(ctx, queryVector, p.opts.TopK)
}

func (p *Pipeline) complete(ctx context.Context, evidence []vectorindex.SearchResult, query string) (string, error) {
	ctx, cancel := withTimeout(ctx, p.opts.CompletionTimeout)
	defer cancel()

	response, err := p.llmClient.Complete(ctx, llm.Request{
		System:      p.opts.SystemPrompt,
		Prompt:      buildUserMessage(evidence, query),
		MaxTokens:   p.opts.MaxTokens,
		Temperature: p.opts.Temperature,
	})
	if err != nil {
		return "", errs.Wrap(errs.ErrCompletion, err)
	}
	return response.Content, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
