package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProvider records the prompt and replies with a fixed object.
type fakeProvider struct {
	response map[string]any
	prompt   string
}

func (f *fakeProvider) Generate(_ context.Context, prompt string) map[string]any {
	f.prompt = prompt
	return f.response
}

func TestSummarizeValidShape(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{response: map[string]any{
		"summary": "what it is and why it matters",
		"skills":  []any{"a", "b", "c"},
	}}

	result := NewSummaryService(provider, testLogger()).Summarize(context.Background(), "Title", "Body text")

	require.NotNil(t, result)
	assert.Equal(t, "what it is and why it matters", result.Summary)
	assert.Equal(t, []string{"a", "b", "c"}, result.Skills)

	assert.Contains(t, provider.prompt, "Title")
	assert.Contains(t, provider.prompt, "Body text")
}

func TestSummarizeProviderFailure(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{response: nil}
	result := NewSummaryService(provider, testLogger()).Summarize(context.Background(), "t", "b")

	assert.Nil(t, result)
}

func TestSummarizeMissingSkills(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{response: map[string]any{"summary": "only summary"}}
	result := NewSummaryService(provider, testLogger()).Summarize(context.Background(), "t", "b")

	assert.Nil(t, result)
}

func TestSummarizeSkillsNotASequence(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{response: map[string]any{
		"summary": "s",
		"skills":  "a scalar, not a sequence",
	}}
	result := NewSummaryService(provider, testLogger()).Summarize(context.Background(), "t", "b")

	assert.Nil(t, result)
}

func TestSummarizeSkillsWithNonStringElement(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{response: map[string]any{
		"summary": "s",
		"skills":  []any{"ok", 42},
	}}
	result := NewSummaryService(provider, testLogger()).Summarize(context.Background(), "t", "b")

	assert.Nil(t, result)
}

func TestSummarizeMissingSummary(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{response: map[string]any{"skills": []any{"a"}}}
	result := NewSummaryService(provider, testLogger()).Summarize(context.Background(), "t", "b")

	assert.Nil(t, result)
}

func TestSummarizeTruncatesLongBody(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{response: map[string]any{
		"summary": "s",
		"skills":  []any{"a"},
	}}

	marker := "UNIQUE-TAIL-MARKER"
	body := strings.Repeat("x", maxBodyLength+100) + marker

	result := NewSummaryService(provider, testLogger()).Summarize(context.Background(), "t", body)

	require.NotNil(t, result)
	assert.NotContains(t, provider.prompt, marker, "text beyond the limit must not reach the provider")
	assert.Contains(t, provider.prompt, strings.Repeat("x", 100))
}
