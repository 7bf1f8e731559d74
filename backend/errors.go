package backend

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrInvalidURL is returned when the cluster URL cannot be used.
	ErrInvalidURL = errors.New("invalid backend URL")

	// ErrUnavailable is returned when the cluster could not be reached.
	ErrUnavailable = errors.New("backend unavailable")
)

// maxSnippet bounds the response text kept in an HTTPError.
const maxSnippet = 256

// HTTPError summarizes an unexpected cluster response.
type HTTPError struct {
	Op         string
	StatusCode int
	Snippet    string
}

func (e *HTTPError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("backend %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("backend %s: status %d: %s", e.Op, e.StatusCode, e.Snippet)
}

// NewHTTPError builds an HTTPError for resp, truncating its body.
func NewHTTPError(op string, resp *Response) *HTTPError {
	body := resp.Body
	if len(body) > maxSnippet {
		body = body[:maxSnippet]
		for len(body) > 0 && !utf8.Valid(body) {
			body = body[:len(body)-1]
		}
	}
	return &HTTPError{Op: op, StatusCode: resp.StatusCode, Snippet: string(body)}
}
