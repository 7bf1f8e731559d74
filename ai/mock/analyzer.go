package mock

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/enrichproxy/ai"
	"github.com/poiesic/enrichproxy/core"
)

// MockAnalyzer is a test double for ai.Analyzer.
// It returns deterministic results derived from the text by default and
// lets tests override either call form.
type MockAnalyzer struct {
	// AnalyzeFunc overrides Analyze when set.
	AnalyzeFunc func(ctx context.Context, op core.Operation, lang core.LanguageCode, text string) (json.RawMessage, error)

	// AnalyzeBatchFunc overrides AnalyzeBatch when set.
	AnalyzeBatchFunc func(ctx context.Context, op core.Operation, lang core.LanguageCode, texts []string) (*ai.BatchResult, error)

	calls      atomic.Int64
	batchCalls atomic.Int64
}

var _ ai.Analyzer = (*MockAnalyzer)(nil)

// NewMockAnalyzer creates a mock analyzer with default behavior.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{}
}

// Analyze returns the configured result or a canned one for op.
func (m *MockAnalyzer) Analyze(ctx context.Context, op core.Operation, lang core.LanguageCode, text string) (json.RawMessage, error) {
	m.calls.Add(1)
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, op, lang, text)
	}
	if err := ctx.Err(); err != nil {
		return nil, &ai.ClientError{Err: err}
	}
	return CannedResult(op, text)
}

// AnalyzeBatch returns the configured result or canned results for every
// text. Default results are listed in reverse order since batch replies
// carry no ordering guarantee.
func (m *MockAnalyzer) AnalyzeBatch(ctx context.Context, op core.Operation, lang core.LanguageCode, texts []string) (*ai.BatchResult, error) {
	m.batchCalls.Add(1)
	if m.AnalyzeBatchFunc != nil {
		return m.AnalyzeBatchFunc(ctx, op, lang, texts)
	}
	if len(texts) == 0 {
		return nil, ai.ErrEmptyBatch
	}
	if len(texts) > ai.MaxBatchSize {
		return nil, ai.ErrBatchTooLarge
	}
	if err := ctx.Err(); err != nil {
		return nil, &ai.ClientError{Err: err}
	}

	result := &ai.BatchResult{}
	for i := len(texts) - 1; i >= 0; i-- {
		value, err := CannedResult(op, texts[i])
		if err != nil {
			return nil, err
		}
		result.Results = append(result.Results, ai.BatchItem{Index: i, Value: value})
	}
	return result, nil
}

// CallCount returns the number of Analyze calls.
func (m *MockAnalyzer) CallCount() int {
	return int(m.calls.Load())
}

// BatchCallCount returns the number of AnalyzeBatch calls.
func (m *MockAnalyzer) BatchCallCount() int {
	return int(m.batchCalls.Load())
}

// Reset clears the call counters.
func (m *MockAnalyzer) Reset() {
	m.calls.Store(0)
	m.batchCalls.Store(0)
}

// CannedResult builds the default result of op for text:
//
//   - DetectDominantLanguage: English with score 0.99
//   - DetectEntities: every capitalized word as an OTHER entity
//   - DetectKeyPhrases: the whole trimmed text as one phrase
//   - DetectSentiment: NEUTRAL
//   - DetectSyntax: every word as a NOUN token
//
// Every result carries response metadata.
func CannedResult(op core.Operation, text string) (json.RawMessage, error) {
	meta := &ai.ResponseMetadata{RequestID: "mock-request", Model: "mock"}
	words := splitWords(text)

	var result any
	switch op {
	case core.DetectDominantLanguage:
		result = ai.DominantLanguageResult{
			Languages: []ai.DominantLanguage{{LanguageCode: string(core.English), Score: 0.99}},
			Metadata:  meta,
		}
	case core.DetectEntities:
		entities := []ai.Entity{}
		for _, w := range words {
			r, _ := utf8.DecodeRuneInString(w.text)
			if unicode.IsUpper(r) {
				entities = append(entities, ai.Entity{Score: 0.9, Type: "OTHER", Text: w.text, BeginOffset: w.begin, EndOffset: w.end})
			}
		}
		result = ai.EntitiesResult{Entities: entities, Metadata: meta}
	case core.DetectKeyPhrases:
		phrases := []ai.KeyPhrase{}
		if len(words) > 0 {
			trimmed := strings.TrimSpace(text)
			phrases = append(phrases, ai.KeyPhrase{
				Score:       0.9,
				Text:        trimmed,
				BeginOffset: words[0].begin,
				EndOffset:   words[0].begin + utf8.RuneCountInString(trimmed),
			})
		}
		result = ai.KeyPhrasesResult{KeyPhrases: phrases, Metadata: meta}
	case core.DetectSentiment:
		result = ai.SentimentResult{
			Sentiment:      "NEUTRAL",
			SentimentScore: ai.SentimentScore{Neutral: 1},
			Metadata:       meta,
		}
	case core.DetectSyntax:
		tokens := []ai.SyntaxToken{}
		for i, w := range words {
			tokens = append(tokens, ai.SyntaxToken{
				TokenID:      i + 1,
				Text:         w.text,
				BeginOffset:  w.begin,
				EndOffset:    w.end,
				PartOfSpeech: ai.PartOfSpeech{Tag: "NOUN", Score: 0.9},
			})
		}
		result = ai.SyntaxResult{SyntaxTokens: tokens, Metadata: meta}
	default:
		return nil, ai.ErrUnsupportedOperation
	}
	return json.Marshal(result)
}

type word struct {
	text       string
	begin, end int
}

// splitWords splits text on whitespace, reporting rune offsets.
func splitWords(text string) []word {
	var words []word
	var b strings.Builder
	begin := 0
	pos := 0
	flush := func() {
		if b.Len() > 0 {
			words = append(words, word{text: b.String(), begin: begin, end: pos})
			b.Reset()
		}
	}
	for _, r := range text {
		if unicode.IsSpace(r) {
			flush()
		} else {
			if b.Len() == 0 {
				begin = pos
			}
			b.WriteRune(r)
		}
		pos++
	}
	flush()
	return words
}
