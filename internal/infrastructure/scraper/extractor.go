package scraper

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"aiview/internal/domain"
	"aiview/internal/ports"
)

const (
	listingTimeout = 15 * time.Second
	detailTimeout  = 10 * time.Second

	// Sites commonly block default Go user agents; present a browser one.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Extractor scrapes the listing page and individual article pages.
// Every failure mode degrades to "nothing usable" rather than an error,
// so a single malformed page never aborts a pipeline run.
type Extractor struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.ArticleSource = (*Extractor)(nil)

// New wires an HTTP client; a nil client gets a plain default.
func New(client *http.Client, logger *slog.Logger) *Extractor {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, logger: logger}
}

// ListArticles fetches the listing page and extracts candidates in page
// order. It returns an empty slice on network failure or when no listing
// items match the expected structure; both cases are logged, not propagated.
func (e *Extractor) ListArticles(ctx context.Context, sourceURL string) []domain.Candidate {
	ctx, cancel := context.WithTimeout(ctx, listingTimeout)
	defer cancel()

	doc := e.fetchDocument(ctx, sourceURL)
	if doc == nil {
		return nil
	}

	base, err := url.Parse(sourceURL)
	if err != nil {
		e.logger.Error("invalid source url", "url", sourceURL, "error", err)
		return nil
	}

	items := doc.Find("div.list__item")
	if items.Length() == 0 {
		e.logger.Warn("no listing items found, page structure may have changed", "url", sourceURL)
		return nil
	}

	var candidates []domain.Candidate
	items.Each(func(_ int, item *goquery.Selection) {
		titleLink := item.Find("h2.archive__item-title a").First()
		excerpt := item.Find("p.archive__item-excerpt").First()
		if titleLink.Length() == 0 || excerpt.Length() == 0 {
			return
		}

		href, ok := titleLink.Attr("href")
		if !ok || href == "" {
			return
		}

		candidates = append(candidates, domain.Candidate{
			Title:   strings.TrimSpace(titleLink.Text()),
			URL:     resolveURL(base, href),
			Excerpt: strings.TrimSpace(excerpt.Text()),
		})
	})

	e.logger.Info("listing scraped", "url", sourceURL, "candidates", len(candidates))
	return candidates
}

// FetchContent fetches a single article page, concatenates the paragraphs of
// the content section, and extracts the published date. It returns nil when
// the page cannot be fetched or the content section is missing.
func (e *Extractor) FetchContent(ctx context.Context, articleURL string) *domain.Content {
	ctx, cancel := context.WithTimeout(ctx, detailTimeout)
	defer cancel()

	doc := e.fetchDocument(ctx, articleURL)
	if doc == nil {
		return nil
	}

	section := doc.Find("section.page__content").First()
	if section.Length() == 0 {
		e.logger.Warn("content section not found", "url", articleURL)
		return nil
	}

	var paragraphs []string
	section.Find("p").Each(func(_ int, p *goquery.Selection) {
		paragraphs = append(paragraphs, strings.TrimSpace(p.Text()))
	})

	return &domain.Content{
		Body:          strings.Join(paragraphs, "\n"),
		PublishedDate: e.extractPublishedDate(doc, articleURL),
	}
}

// extractPublishedDate applies the date fallback chain: the inline
// <time class="dt-published"> datetime attribute wins; the
// article:published_time meta tag is consulted only when the inline element
// is absent; everything else falls back to the current time.
func (e *Extractor) extractPublishedDate(doc *goquery.Document, articleURL string) time.Time {
	if raw, ok := doc.Find("time.dt-published").First().Attr("datetime"); ok {
		if parsed, err := parseDate(raw); err == nil {
			return parsed
		}
		e.logger.Warn("cannot parse inline published date, using current time", "url", articleURL, "value", raw)
		return time.Now()
	}

	if raw, ok := doc.Find(`meta[property="article:published_time"]`).First().Attr("content"); ok {
		if parsed, err := parseDate(raw); err == nil {
			return parsed
		}
		e.logger.Warn("cannot parse meta published date, using current time", "url", articleURL, "value", raw)
		return time.Now()
	}

	e.logger.Warn("no published date found, using current time", "url", articleURL)
	return time.Now()
}

func (e *Extractor) fetchDocument(ctx context.Context, pageURL string) *goquery.Document {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		e.logger.Error("build request", "url", pageURL, "error", err)
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Error("fetch page", "url", pageURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e.logger.Error("fetch page", "url", pageURL, "status", resp.Status)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		e.logger.Error("parse page", "url", pageURL, "error", err)
		return nil
	}

	return doc
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, strings.TrimSpace(value))
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
