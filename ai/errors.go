package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBatch is returned when AnalyzeBatch receives no texts.
	ErrEmptyBatch = errors.New("empty batch")

	// ErrBatchTooLarge is returned when AnalyzeBatch receives more than MaxBatchSize texts.
	ErrBatchTooLarge = errors.New("batch too large")

	// ErrUnsupportedOperation is returned for operations the analyzer cannot run.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrMalformedResponse indicates the model reply does not match the result schema.
	ErrMalformedResponse = errors.New("malformed analysis response")
)

// Error codes reported for failures that don't come with a service code.
const (
	CodeClientError     = "ClientException"
	CodeInvalidResponse = "InvalidResponseException"
	CodeMissingResult   = "MissingResultException"
	CodeInternalFailure = "InternalServerException"
)

// ServiceError is returned when the analysis service rejected a call.
type ServiceError struct {
	StatusCode int
	Code       string
	RequestID  string
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("analysis service error %s (status %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("analysis service error %s: %s", e.Code, e.Message)
}

// ClientError is returned when a call failed before reaching the analysis
// service, for example on transport or request validation failures.
type ClientError struct {
	Err error
}

func (e *ClientError) Error() string {
	return "analysis client error: " + e.Err.Error()
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// clientError wraps err unless it already is a classified analysis error.
func clientError(err error) error {
	var se *ServiceError
	var ce *ClientError
	if errors.As(err, &se) || errors.As(err, &ce) {
		return err
	}
	return &ClientError{Err: err}
}
