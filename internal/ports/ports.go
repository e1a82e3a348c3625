package ports

import (
	"context"

	"aiview/internal/domain"
)

// ArticleSource discovers candidates on the listing page and pulls full
// content for individual articles. Both operations degrade to "nothing
// usable" instead of returning errors: scraping is markup-dependent and a
// single malformed page must never abort a batch. An empty candidate slice
// therefore cannot distinguish "site unreachable" from "no new articles";
// this is a known limitation.
type ArticleSource interface {
	ListArticles(ctx context.Context, sourceURL string) []domain.Candidate
	FetchContent(ctx context.Context, articleURL string) *domain.Content
}

// AIProvider turns a natural-language prompt into parsed JSON output.
// Any failure (network, bad status, envelope shape, JSON decode) yields nil;
// the caller treats "no result" uniformly regardless of cause.
type AIProvider interface {
	Generate(ctx context.Context, prompt string) map[string]any
}

// Summarizer produces a validated two-key summary for an article, or nil
// when the provider fails or returns an unexpected shape.
type Summarizer interface {
	Summarize(ctx context.Context, title, body string) *domain.SummaryResult
}

// ArticleStore persists articles and answers the dedupe lookup by URL.
type ArticleStore interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Insert(ctx context.Context, article domain.Article) error
	List(ctx context.Context, skip, limit int) ([]domain.Article, error)
}

// Scheduler controls when the pipeline executes.
type Scheduler interface {
	Start(job func()) error
	Stop()
}
