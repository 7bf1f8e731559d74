package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/poiesic/enrichproxy/core"
)

// LLMAnalyzer implements Analyzer by prompting a language model through a
// Completer. Model replies are decoded into the result schemas of the
// operations; offsets are computed from the source text.
type LLMAnalyzer struct {
	completer Completer
	logger    *slog.Logger
}

var _ Analyzer = (*LLMAnalyzer)(nil)

// NewLLMAnalyzer creates an analyzer backed by completer.
func NewLLMAnalyzer(completer Completer, logger *slog.Logger) *LLMAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMAnalyzer{
		completer: completer,
		logger:    logger.With("component", "llm-analyzer", "model", completer.Model()),
	}
}

// Analyze runs op on one text.
func (a *LLMAnalyzer) Analyze(ctx context.Context, op core.Operation, lang core.LanguageCode, text string) (json.RawMessage, error) {
	system, err := BuildSystemPrompt(op, lang, false)
	if err != nil {
		return nil, &ClientError{Err: err}
	}

	reply, err := a.completer.Complete(ctx, system, text)
	if err != nil {
		a.logger.Debug("completion failed", "operation", op, "err", err)
		return nil, clientError(err)
	}

	value, err := DecodeSingle(op, text, reply, a.metadata())
	if err != nil {
		a.logger.Warn("error decoding analysis reply", "operation", op, "reply", reply, "err", err)
		return nil, &ServiceError{Code: CodeInvalidResponse, Message: err.Error()}
	}
	return value, nil
}

// AnalyzeBatch runs op on up to MaxBatchSize texts with a single prompt.
func (a *LLMAnalyzer) AnalyzeBatch(ctx context.Context, op core.Operation, lang core.LanguageCode, texts []string) (*BatchResult, error) {
	if len(texts) == 0 {
		return nil, &ClientError{Err: ErrEmptyBatch}
	}
	if len(texts) > MaxBatchSize {
		return nil, &ClientError{Err: fmt.Errorf("%w: %d texts", ErrBatchTooLarge, len(texts))}
	}

	system, err := BuildSystemPrompt(op, lang, true)
	if err != nil {
		return nil, &ClientError{Err: err}
	}
	input, err := BuildBatchInput(texts)
	if err != nil {
		return nil, &ClientError{Err: err}
	}

	reply, err := a.completer.Complete(ctx, system, input)
	if err != nil {
		a.logger.Debug("batch completion failed", "operation", op, "size", len(texts), "err", err)
		return nil, clientError(err)
	}

	result, err := DecodeBatch(op, texts, reply, a.metadata())
	if err != nil {
		a.logger.Warn("error decoding batch reply", "operation", op, "reply", reply, "err", err)
		return nil, &ServiceError{Code: CodeInvalidResponse, Message: err.Error()}
	}

	a.logger.Debug("analyzed batch",
		"operation", op,
		"size", len(texts),
		"succeeded", len(result.Results),
		"failed", len(result.Errors))
	return result, nil
}

func (a *LLMAnalyzer) metadata() *ResponseMetadata {
	return &ResponseMetadata{RequestID: uuid.NewString(), Model: a.completer.Model()}
}
