package aiprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"aiview/internal/config"
	"aiview/internal/ports"
)

// requestTimeout bounds every outbound AI call so a stuck provider cannot
// stall the pipeline indefinitely.
const requestTimeout = 60 * time.Second

// OpenAIProvider implements ports.AIProvider against OpenAI-compatible chat
// completion APIs. The base URL is configurable so self-hosted compatible
// endpoints work as well.
type OpenAIProvider struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.AIProvider = (*OpenAIProvider)(nil)

// NewOpenAI builds a provider from configuration.
func NewOpenAI(cfg config.OpenAIConfig, logger *slog.Logger) *OpenAIProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIProvider{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate posts the prompt as a single user message and decodes the JSON
// object embedded in the first choice. Any failure yields nil.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) map[string]any {
	body, err := json.Marshal(chatRequest{
		Model:          p.model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		p.logger.Error("marshal chat payload", "error", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		p.logger.Error("build chat request", "error", err)
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Error("openai request failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Error("openai returned bad status", "status", resp.Status)
		return nil
	}

	var envelope chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		p.logger.Error("decode openai envelope", "error", err)
		return nil
	}

	if len(envelope.Choices) == 0 {
		p.logger.Error("openai response has no choices")
		return nil
	}

	return decodeJSONObject(envelope.Choices[0].Message.Content, p.logger)
}

// decodeJSONObject parses the generated text as a JSON object, tolerating
// markdown code fences that some backends wrap around JSON output.
func decodeJSONObject(text string, logger *slog.Logger) map[string]any {
	text = stripCodeFence(text)

	var result map[string]any
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		logger.Error("generated text is not a JSON object", "error", err)
		return nil
	}
	return result
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
