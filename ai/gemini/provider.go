package gemini

import (
	"context"
	"log/slog"

	"github.com/poiesic/enrichproxy/ai"
)

// Provider implements ai.Provider on the Gemini API.
type Provider struct {
	analyzer ai.Analyzer
	logger   *slog.Logger
}

// NewProvider creates a Gemini-backed analysis provider with rate limiting
// applied as configured.
func NewProvider(ctx context.Context, config *ai.Config) (ai.Provider, error) {
	completer, err := newCompleter(ctx, config)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "gemini-provider")
	return &Provider{
		analyzer: ai.RateLimited(
			ai.NewLLMAnalyzer(completer, logger),
			ai.NewLimiter(config.RequestsPerSecond, config.Burst),
		),
		logger: logger,
	}, nil
}

// Analyzer returns the analysis service.
func (p *Provider) Analyzer() ai.Analyzer {
	return p.analyzer
}

// Close is a no-op; the genai client holds no resources needing release.
func (p *Provider) Close() error {
	p.logger.Debug("closing Gemini provider")
	return nil
}
