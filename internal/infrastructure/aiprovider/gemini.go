package aiprovider

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"aiview/internal/config"
	"aiview/internal/ports"
)

// GeminiProvider implements ports.AIProvider on top of the official Gemini
// SDK. Requesting an application/json response MIME type makes the backend
// emit bare JSON, which is then decoded from the candidate text parts.
type GeminiProvider struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

var _ ports.AIProvider = (*GeminiProvider)(nil)

// NewGemini constructs the SDK client. Construction failure is a startup
// error for the caller to handle, not a runtime condition.
func NewGemini(ctx context.Context, cfg config.GeminiConfig, logger *slog.Logger) (*GeminiProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}

	return &GeminiProvider{
		client: client,
		model:  cfg.Model,
		logger: logger,
	}, nil
}

// Generate sends the prompt and decodes the JSON object from the first
// candidate. Any failure yields nil.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	model := p.client.GenerativeModel(p.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		p.logger.Error("gemini request failed", "error", err)
		return nil
	}

	text, ok := candidateText(resp)
	if !ok {
		p.logger.Error("gemini response has no text candidates")
		return nil
	}

	return decodeJSONObject(text, p.logger)
}

// Close releases the underlying SDK client.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func candidateText(resp *genai.GenerateContentResponse) (string, bool) {
	if len(resp.Candidates) == 0 {
		return "", false
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", false
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ""), true
}
