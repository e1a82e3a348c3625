package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"aiview/internal/domain"
	"aiview/internal/ports"
)

// maxBodyLength bounds the article body embedded in the prompt to respect
// backend input limits. Truncation is lossy and silent apart from a log line.
const maxBodyLength = 15000

const promptTemplate = `You are a senior technology analyst. Analyze the following article titled "%s" and produce a structured JSON object containing exactly two keys: "summary" and "skills".

1. "summary": a professional 150-200 word summary that explains what the core technology, framework, or model introduced by the article is, and which problem it solves or what value it brings.

2. "skills": a JSON array of 3 to 5 key takeaways. Each entry must be a concrete, actionable insight a reader gains from the article, such as a technique that can be applied directly, a new approach to a specific problem, or a tool or trend worth following.

The article content follows:
---
%s
---

Return strictly a JSON object of this shape and nothing else:
{
  "summary": "...",
  "skills": ["...", "...", "..."]
}`

// SummaryService builds the instruction prompt, delegates to the AI
// provider, and validates the shape of the structured result. It is the
// single chokepoint where vendor output heterogeneity is normalized before
// anything reaches persistence.
type SummaryService struct {
	provider ports.AIProvider
	logger   *slog.Logger
}

var _ ports.Summarizer = (*SummaryService)(nil)

// NewSummaryService wires the provider abstraction.
func NewSummaryService(provider ports.AIProvider, logger *slog.Logger) *SummaryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryService{provider: provider, logger: logger}
}

// Summarize returns a validated summary for the article, or nil when the
// provider fails or returns an unexpected shape. A missing key, a scalar
// skills value, and a provider timeout are all treated identically.
func (s *SummaryService) Summarize(ctx context.Context, title, body string) *domain.SummaryResult {
	if runes := []rune(body); len(runes) > maxBodyLength {
		s.logger.Warn("article body too long, truncating",
			"length", len(runes), "limit", maxBodyLength)
		body = string(runes[:maxBodyLength])
	}

	prompt := fmt.Sprintf(promptTemplate, title, body)

	raw := s.provider.Generate(ctx, prompt)
	if raw == nil {
		return nil
	}

	result, ok := validateShape(raw)
	if !ok {
		s.logger.Error("ai response has unexpected shape", "response", raw)
		return nil
	}
	return result
}

// validateShape checks that the decoded object carries a string summary and
// a skills array of strings.
func validateShape(raw map[string]any) (*domain.SummaryResult, bool) {
	summary, ok := raw["summary"].(string)
	if !ok {
		return nil, false
	}

	items, ok := raw["skills"].([]any)
	if !ok {
		return nil, false
	}

	skills := make([]string, 0, len(items))
	for _, item := range items {
		skill, ok := item.(string)
		if !ok {
			return nil, false
		}
		skills = append(skills, skill)
	}

	return &domain.SummaryResult{Summary: summary, Skills: skills}, true
}
