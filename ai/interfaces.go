package ai

import (
	"context"
	"encoding/json"

	"github.com/poiesic/enrichproxy/core"
)

// MaxBatchSize is the largest number of texts AnalyzeBatch accepts.
const MaxBatchSize = 25

// Analyzer runs text-analysis operations.
// Implementations must be thread-safe for concurrent use.
type Analyzer interface {
	// Analyze runs op on a single text and returns the operation result as a
	// JSON object. Failures are reported as *ServiceError when the service
	// rejected the call and *ClientError when the call never reached it.
	Analyze(ctx context.Context, op core.Operation, lang core.LanguageCode, text string) (json.RawMessage, error)

	// AnalyzeBatch runs op on up to MaxBatchSize texts in one call.
	// Per-text failures are listed in BatchResult.Errors; a returned error
	// means the whole call failed.
	AnalyzeBatch(ctx context.Context, op core.Operation, lang core.LanguageCode, texts []string) (*BatchResult, error)
}

// BatchResult holds the outcome of one batch call as two lists. Index refers
// to the position of the text within the submitted batch; neither list is
// guaranteed to be ordered.
type BatchResult struct {
	Results []BatchItem
	Errors  []BatchItemError
}

// BatchItem is a successful per-text result of a batch call.
type BatchItem struct {
	Index int
	Value json.RawMessage
}

// BatchItemError is a failed per-text result of a batch call.
type BatchItemError struct {
	Index        int
	ErrorCode    string
	ErrorMessage string
}

// Completer sends one prompt to a language model and returns its raw reply.
// Implementations map transport failures to *ClientError and rejected calls
// to *ServiceError.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)

	// Model identifies the model answering the prompts.
	Model() string
}

// Provider aggregates the analysis services of one backend for
// convenient initialization and lifecycle management.
type Provider interface {
	// Analyzer returns the analysis service.
	// The returned Analyzer is safe for concurrent use.
	Analyzer() Analyzer

	// Close releases resources held by the provider.
	Close() error
}
