package enrich

import "errors"

var (
	// ErrAnalyzerRequired is returned when an executor is built without an analyzer.
	ErrAnalyzerRequired = errors.New("analyzer required")

	// ErrDeadlineExceeded is returned when the units of one request did not
	// complete before the deadline.
	ErrDeadlineExceeded = errors.New("enrichment deadline exceeded")

	// ErrInterrupted is returned when the caller's context ended before the
	// units completed.
	ErrInterrupted = errors.New("enrichment interrupted")

	// ErrPoolFailure is returned when a unit could not be executed by the
	// worker pool or failed unexpectedly while running.
	ErrPoolFailure = errors.New("worker pool failure")
)
