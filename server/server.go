package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/poiesic/enrichproxy/backend"
)

const (
	// DefaultMaxBodySize bounds request bodies accepted from clients.
	DefaultMaxBodySize = 100 << 20

	// DefaultShutdownTimeout bounds the drain of in-flight requests.
	DefaultShutdownTimeout = 30 * time.Second
)

// Handler processes one request and always produces a response.
type Handler interface {
	Handle(ctx context.Context, req *backend.Request) *backend.Response
}

// Server adapts a Handler to net/http.
type Server struct {
	handler         Handler
	maxBodySize     int64
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

var _ http.Handler = (*Server)(nil)

// Option configures a Server.
type Option func(*Server) error

// WithMaxBodySize bounds request bodies; larger ones get 413.
// Default is DefaultMaxBodySize.
func WithMaxBodySize(size int64) Option {
	return func(s *Server) error {
		if size <= 0 {
			return fmt.Errorf("max body size must be positive, got %d", size)
		}
		s.maxBodySize = size
		return nil
	}
}

// WithShutdownTimeout bounds the graceful shutdown of ListenAndServe.
// Default is DefaultShutdownTimeout.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) error {
		s.shutdownTimeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates a server dispatching to handler.
func New(handler Handler, opts ...Option) (*Server, error) {
	if handler == nil {
		return nil, errors.New("handler required")
	}
	s := &Server{
		handler:         handler,
		maxBodySize:     DefaultMaxBodySize,
		shutdownTimeout: DefaultShutdownTimeout,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "server")
	return s, nil
}

// ServeHTTP reads the whole request, hands it to the handler and writes the
// response back.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		s.logger.Warn("failed to read request body", "path", r.URL.Path, "err", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	resp := s.handler.Handle(r.Context(), &backend.Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})

	header := w.Header()
	for key, values := range resp.Header {
		if skipHeader(key) {
			continue
		}
		for _, v := range values {
			header.Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(resp.Body); err != nil {
		s.logger.Debug("failed to write response", "path", r.URL.Path, "err", err)
	}
}

// ListenAndServe serves on addr until ctx is canceled, then drains in-flight
// requests within the shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", listener.Addr().String())
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// skipHeader reports whether a relayed header is managed by net/http.
func skipHeader(key string) bool {
	switch http.CanonicalHeaderKey(key) {
	case "Content-Length", "Transfer-Encoding", "Connection", "Keep-Alive":
		return true
	}
	return false
}
