package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"aiview/internal/domain"
	"aiview/internal/ports"
)

// PipelineDeps wires all driven adapters into the ingest pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Summarizer ports.Summarizer
	Store      ports.ArticleStore
	SourceURL  string
	Logger     *slog.Logger
}

// Pipeline drives one end-to-end ingest run:
// listing -> per-candidate dedupe check -> fetch -> summarize -> persist.
// Candidates are processed strictly sequentially, each as its own unit of
// work, so one bad article never poisons the rest of the batch. Re-running
// after a partial failure is always safe because "new" is derived purely
// from store state, keyed by URL.
type Pipeline struct {
	source     ports.ArticleSource
	summarizer ports.Summarizer
	store      ports.ArticleStore
	sourceURL  string
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:     deps.Source,
		summarizer: deps.Summarizer,
		store:      deps.Store,
		sourceURL:  deps.SourceURL,
		logger:     logger,
	}
}

// Run executes a single pipeline run. An empty listing terminates the run
// successfully; a store lookup failure or a panic aborts the remaining
// candidates while retaining already-persisted progress.
func (p *Pipeline) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline run aborted",
				"panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	p.logger.Info("starting ingest pipeline", "source", p.sourceURL)

	candidates := p.source.ListArticles(ctx, p.sourceURL)
	if len(candidates) == 0 {
		p.logger.Warn("no articles found on the listing page, run finished")
		return nil
	}

	p.logger.Info("processing candidates", "count", len(candidates))

	// Reverse listing order: the oldest-appearing entries are completed
	// first, so an interrupted run resumes near where it left off once the
	// dedupe check re-derives what is already stored.
	processed := 0
	for i := len(candidates) - 1; i >= 0; i-- {
		candidate := candidates[i]

		exists, err := p.store.ExistsByURL(ctx, candidate.URL)
		if err != nil {
			return fmt.Errorf("check article %s: %w", candidate.URL, err)
		}
		if exists {
			p.logger.Debug("article already stored, skipping", "url", candidate.URL)
			continue
		}

		p.logger.Info("new article found", "title", candidate.Title, "url", candidate.URL)

		content := p.source.FetchContent(ctx, candidate.URL)
		if content == nil || content.Body == "" {
			p.logger.Warn("could not fetch content, skipping", "url", candidate.URL)
			continue
		}

		result := p.summarizer.Summarize(ctx, candidate.Title, content.Body)
		if result == nil {
			p.logger.Warn("summarization failed, skipping", "url", candidate.URL)
			continue
		}

		article := domain.Article{
			Title:         candidate.Title,
			URL:           candidate.URL,
			PublishedDate: content.PublishedDate,
			Summary:       result.Summary,
			Skills:        result.Skills,
		}

		if err := p.store.Insert(ctx, article); err != nil {
			p.logger.Error("persist failed, skipping", "url", candidate.URL, "error", err)
			continue
		}

		p.logger.Info("article processed and saved", "title", candidate.Title)
		processed++
	}

	p.logger.Info("pipeline finished", "new_articles", processed)
	return nil
}
