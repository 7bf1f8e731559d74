package backend

import (
	"context"
	"net/http"
	"net/url"
)

// Request is a request as received from the edge or sent to the cluster.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Response is a cluster response relayed back to the edge.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client forwards requests to the search cluster.
// Implementations must be thread-safe for concurrent use.
type Client interface {
	// Forward sends req and returns the cluster's response, whatever its
	// status. An error means no response was received.
	Forward(ctx context.Context, req *Request) (*Response, error)

	// IndexAbsent reports whether index does not exist in the cluster.
	IndexAbsent(ctx context.Context, index string) (bool, error)
}

// Successful reports whether the response has a 2xx status.
func (r *Response) Successful() bool {
	return r.StatusCode/100 == 2
}
