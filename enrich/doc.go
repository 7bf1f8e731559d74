// Package enrich runs analysis units against an ai.Analyzer on a bounded
// worker pool shared by all requests.
//
// Single-document requests run every extraction item as its own call through
// ExecuteSingular; bulk requests run one batch call per BatchGroup through
// ExecuteBatches. The caller blocks until every unit completes or the
// collective deadline passes.
//
// Analysis failures never fail the request. Service and client errors are
// converted to core.AnalysisError payloads and the affected locators are
// relabelled with core.ErrorSuffix. Only ErrDeadlineExceeded, ErrInterrupted
// and ErrPoolFailure are returned as errors, and no partial result
// accompanies them.
package enrich
