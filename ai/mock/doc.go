// Package mock provides test doubles for the ai package interfaces.
//
// MockAnalyzer answers every operation with deterministic results derived
// from the text, so tests can run the full enrichment flow without a model:
//
//	analyzer := mock.NewMockAnalyzer()
//	analyzer.AnalyzeBatchFunc = func(ctx context.Context, op core.Operation, lang core.LanguageCode, texts []string) (*ai.BatchResult, error) {
//	    return nil, &ai.ServiceError{StatusCode: 429, Code: "ThrottlingException"}
//	}
//
//	count := analyzer.BatchCallCount()
//
// MockProvider wraps a MockAnalyzer behind ai.Provider.
package mock
