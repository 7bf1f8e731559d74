package ai

import (
	"context"
	"encoding/json"

	"github.com/poiesic/enrichproxy/core"
	"golang.org/x/time/rate"
)

// NewLimiter returns a limiter admitting rps calls per second with the given
// burst, or nil when rps is not positive.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// rateLimited shares one limiter across every call made through it.
type rateLimited struct {
	next    Analyzer
	limiter *rate.Limiter
}

// RateLimited wraps next so each call first waits for limiter. A call whose
// context ends while waiting fails with a *ClientError without reaching next.
// A nil limiter returns next unchanged.
func RateLimited(next Analyzer, limiter *rate.Limiter) Analyzer {
	if limiter == nil {
		return next
	}
	return &rateLimited{next: next, limiter: limiter}
}

func (r *rateLimited) Analyze(ctx context.Context, op core.Operation, lang core.LanguageCode, text string) (json.RawMessage, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Err: err}
	}
	return r.next.Analyze(ctx, op, lang, text)
}

func (r *rateLimited) AnalyzeBatch(ctx context.Context, op core.Operation, lang core.LanguageCode, texts []string) (*BatchResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Err: err}
	}
	return r.next.AnalyzeBatch(ctx, op, lang, texts)
}
