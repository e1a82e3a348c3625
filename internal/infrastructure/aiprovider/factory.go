package aiprovider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"aiview/internal/config"
	"aiview/internal/ports"
)

var (
	// ErrMissingCredential indicates the selected provider has no API key
	// configured. This aborts startup of the ingest pipeline; it is never a
	// runtime retry condition.
	ErrMissingCredential = errors.New("ai provider credential is not configured")
)

// New selects the concrete provider variant from configuration. The choice
// is made once at startup; callers depend only on ports.AIProvider
// afterwards. Providers holding resources additionally implement io.Closer.
func New(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (ports.AIProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case config.ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("gemini: %w", ErrMissingCredential)
		}
		return NewGemini(ctx, cfg.Gemini, logger)
	case config.ProviderOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai: %w", ErrMissingCredential)
		}
		return NewOpenAI(cfg.OpenAI, logger), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}
