package domain

import "time"

// Candidate is an article reference discovered on the listing page,
// prior to full-content retrieval.
type Candidate struct {
	Title   string
	URL     string
	Excerpt string
}

// Content is the payload extracted from a single article page.
type Content struct {
	Body          string
	PublishedDate time.Time
}

// SummaryResult is the validated two-key structure produced by an AI provider.
type SummaryResult struct {
	Summary string   `json:"summary"`
	Skills  []string `json:"skills"`
}

// Article is the persisted record. URL is globally unique and acts as the
// idempotency key for the whole pipeline: a candidate whose URL is already
// stored is never re-processed. The pipeline creates articles once and never
// updates or deletes them.
type Article struct {
	ID            int64
	Title         string
	URL           string
	PublishedDate time.Time
	Summary       string
	Skills        []string
	CreatedAt     time.Time
}
