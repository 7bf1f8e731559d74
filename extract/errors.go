package extract

import "errors"

var (
	// ErrMalformedDocument is returned when a document body cannot be decoded as a JSON object.
	ErrMalformedDocument = errors.New("malformed document")
)
