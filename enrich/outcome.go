package enrich

import (
	"errors"

	"github.com/poiesic/enrichproxy/ai"
	"github.com/poiesic/enrichproxy/core"
)

// analysisError converts an analysis call failure into its inline payload.
// Failures that are neither service nor client errors are reported as client
// errors: they happened before the service answered.
func analysisError(err error) *core.AnalysisError {
	var se *ai.ServiceError
	if errors.As(err, &se) {
		return &core.AnalysisError{
			StatusCode:   se.StatusCode,
			ErrorCode:    se.Code,
			RequestID:    se.RequestID,
			ErrorMessage: se.Message,
		}
	}
	msg := err.Error()
	var ce *ai.ClientError
	if errors.As(err, &ce) {
		msg = ce.Err.Error()
	}
	return &core.AnalysisError{ErrorCode: ai.CodeClientError, ErrorMessage: msg}
}

// BatchError is a failed item of a batch, addressed by its within-batch index.
type BatchError struct {
	Index int
	Err   *core.AnalysisError
}

// BatchResponse is the outcome of one BatchGroup. Results and Errors keep the
// order the analyzer reported them in. Locators follow item order; the
// locators of failed items carry the error suffix.
type BatchResponse struct {
	Key      core.BatchKey
	Locators []core.Locator
	Results  []ai.BatchItem
	Errors   []BatchError
}

// failedResponse marks every item of group as failed with the same payload.
func failedResponse(group core.BatchGroup, payload *core.AnalysisError) BatchResponse {
	resp := BatchResponse{
		Key:      group.Key,
		Locators: make([]core.Locator, len(group.Items)),
		Errors:   make([]BatchError, len(group.Items)),
	}
	for i, item := range group.Items {
		resp.Locators[i] = item.Locator.Failed()
		resp.Errors[i] = BatchError{Index: i, Err: payload}
	}
	return resp
}

// batchResponse converts an analyzer batch result for group.
func batchResponse(group core.BatchGroup, result *ai.BatchResult) BatchResponse {
	resp := BatchResponse{
		Key:      group.Key,
		Locators: group.Locators(),
		Results:  result.Results,
		Errors:   make([]BatchError, 0, len(result.Errors)),
	}
	for _, e := range result.Errors {
		if e.Index >= 0 && e.Index < len(resp.Locators) {
			resp.Locators[e.Index] = resp.Locators[e.Index].Failed()
		}
		resp.Errors = append(resp.Errors, BatchError{
			Index: e.Index,
			Err:   &core.AnalysisError{ErrorCode: e.ErrorCode, ErrorMessage: e.ErrorMessage},
		})
	}
	return resp
}
