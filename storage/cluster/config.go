package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/poiesic/enrichproxy/backend"
	"github.com/poiesic/enrichproxy/core"
	"github.com/poiesic/enrichproxy/fieldconfig"
	"github.com/poiesic/enrichproxy/storage"
)

// DefaultIndex is the cluster index holding the configuration document.
const DefaultIndex = ".enrichment-config"

// documentID is the id of the single configuration document.
const documentID = "0"

// ConfigRepository stores the configuration as a document of the search
// cluster, in the customer payload format.
type ConfigRepository struct {
	client backend.Client
	index  string
	logger *slog.Logger
}

var _ storage.ConfigRepository = (*ConfigRepository)(nil)

// Option configures a ConfigRepository.
type Option func(*ConfigRepository) error

// WithIndex sets the index holding the configuration document.
// Default is DefaultIndex.
func WithIndex(index string) Option {
	return func(r *ConfigRepository) error {
		if index == "" {
			return fmt.Errorf("index name required")
		}
		r.index = index
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *ConfigRepository) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewConfigRepository creates a repository storing through client.
func NewConfigRepository(client backend.Client, opts ...Option) (storage.ConfigRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("backend client required")
	}
	r := &ConfigRepository{
		client: client,
		index:  DefaultIndex,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "cluster-config", "index", r.index)
	return r, nil
}

func (r *ConfigRepository) path(kind string) string {
	return "/" + url.PathEscape(r.index) + "/" + kind + "/" + documentID
}

// Load fetches and decodes the configuration document.
func (r *ConfigRepository) Load(ctx context.Context) (core.ConfigSet, error) {
	resp, err := r.client.Forward(ctx, &backend.Request{Method: http.MethodGet, Path: r.path("_source")})
	if err != nil {
		return core.ConfigSet{}, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return core.ConfigSet{}, storage.ErrNotFound
	}
	if !resp.Successful() {
		return core.ConfigSet{}, backend.NewHTTPError("load configuration", resp)
	}

	set, err := fieldconfig.Decode(resp.Body)
	if err != nil {
		return core.ConfigSet{}, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	return set, nil
}

// Save indexes the configuration document, refreshing the index so the next
// Load observes it.
func (r *ConfigRepository) Save(ctx context.Context, set core.ConfigSet) error {
	body, err := fieldconfig.Encode(set)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	resp, err := r.client.Forward(ctx, &backend.Request{
		Method: http.MethodPut,
		Path:   r.path("_doc"),
		Query:  url.Values{"refresh": {"true"}},
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   body,
	})
	if err != nil {
		return err
	}
	if !resp.Successful() {
		return backend.NewHTTPError("save configuration", resp)
	}
	r.logger.Info("configuration saved", "configurations", set.Len(), "fingerprint", set.Fingerprint())
	return nil
}

// Delete removes the configuration document.
func (r *ConfigRepository) Delete(ctx context.Context) error {
	resp, err := r.client.Forward(ctx, &backend.Request{
		Method: http.MethodDelete,
		Path:   r.path("_doc"),
		Query:  url.Values{"refresh": {"true"}},
	})
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound || resp.Successful() {
		return nil
	}
	return backend.NewHTTPError("delete configuration", resp)
}

// Close is a no-op; the backend client is owned by the caller.
func (r *ConfigRepository) Close() error {
	return nil
}
