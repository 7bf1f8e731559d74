package merge

import "errors"

var (
	// ErrMalformedResult is returned when analysis results cannot be
	// reattached to their documents.
	ErrMalformedResult = errors.New("malformed analysis result")
)
