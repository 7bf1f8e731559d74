package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds one round trip to the cluster.
const DefaultTimeout = 60 * time.Second

const userAgent = "enrichproxy"

// Headers that describe a single connection and are never relayed.
var hopHeaders = []string{
	"Connection",
	"Content-Length",
	"Keep-Alive",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// HTTPClient forwards requests to the cluster over HTTP.
type HTTPClient struct {
	baseURL  *url.URL
	username string
	password string
	http     *http.Client
	logger   *slog.Logger
}

var _ Client = (*HTTPClient)(nil)

// Option configures an HTTPClient.
type Option func(*HTTPClient) error

// WithBasicAuth authenticates every request with HTTP basic auth.
func WithBasicAuth(username, password string) Option {
	return func(c *HTTPClient) error {
		c.username = username
		c.password = password
		return nil
	}
}

// WithTimeout sets the round trip timeout.
// Default is DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", timeout)
		}
		c.http.Timeout = timeout
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) error {
		if client != nil {
			c.http = client
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *HTTPClient) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewHTTPClient creates a client for the cluster at baseURL. A bare host is
// given the https scheme.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidURL, baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "backend")
	return c, nil
}

// Forward sends req to the cluster.
func (c *HTTPClient) Forward(ctx context.Context, req *Request) (*Response, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for key, values := range req.Header {
		if isHopHeader(key) {
			continue
		}
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if len(req.Body) > 0 && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("User-Agent", userAgent)
	if c.username != "" {
		httpReq.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}
	c.logger.Debug("forwarded request", "method", req.Method, "path", req.Path,
		"status", resp.StatusCode, "duration", time.Since(start))

	header := resp.Header.Clone()
	for _, h := range hopHeaders {
		header.Del(h)
	}
	return &Response{StatusCode: resp.StatusCode, Header: header, Body: b}, nil
}

// IndexAbsent probes index with a HEAD request.
func (c *HTTPClient) IndexAbsent(ctx context.Context, index string) (bool, error) {
	resp, err := c.Forward(ctx, &Request{Method: http.MethodHead, Path: "/" + url.PathEscape(index)})
	if err != nil {
		return false, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return true, nil
	case resp.Successful():
		return false, nil
	}
	return false, NewHTTPError("index exists", resp)
}

func isHopHeader(key string) bool {
	for _, h := range hopHeaders {
		if strings.EqualFold(h, key) {
			return true
		}
	}
	return false
}
