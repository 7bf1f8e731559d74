package proxy

import (
	"errors"
	"fmt"
)

// InternalMessage is the body of every 500 response.
const InternalMessage = "[ERROR] Internal error happened when processing your requests, please try again later"

var (
	// ErrInvalidInput marks requests rejected before any work started.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal marks requests aborted by a failure of the proxy or its collaborators.
	ErrInternal = errors.New("internal error")

	// ErrBackendRequired is returned when no backend client is provided.
	ErrBackendRequired = errors.New("backend client required")

	// ErrRepositoryRequired is returned when no configuration repository is provided.
	ErrRepositoryRequired = errors.New("configuration repository required")

	// ErrExecutorRequired is returned when no executor is provided.
	ErrExecutorRequired = errors.New("executor required")
)

// InvalidInputError carries the message reported to the caller of a rejected
// request.
type InvalidInputError struct {
	Message string
	Err     error
}

func (e *InvalidInputError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// Is makes every InvalidInputError match ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(message string, err error) error {
	return &InvalidInputError{Message: message, Err: err}
}

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
