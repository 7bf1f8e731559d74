package storage

import (
	"context"

	"github.com/poiesic/enrichproxy/core"
)

// ConfigRepository stores the field configuration of the proxy.
// Implementations must be thread-safe and support concurrent access.
type ConfigRepository interface {
	// Load returns the stored configuration.
	// Returns ErrNotFound if no configuration was ever saved or it was deleted.
	Load(ctx context.Context) (core.ConfigSet, error)

	// Save replaces the stored configuration with set.
	Save(ctx context.Context, set core.ConfigSet) error

	// Delete removes the stored configuration. Deleting a missing
	// configuration is not an error.
	Delete(ctx context.Context) error

	// Close releases resources held by the repository.
	Close() error
}
