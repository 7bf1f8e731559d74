// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/enrichproxy/core"
	"github.com/poiesic/enrichproxy/storage"
)

// activeConfigSet names the configuration set used by the proxy.
const activeConfigSet = "active"

// ConfigRepository implements storage.ConfigRepository for BadgerDB.
type ConfigRepository struct {
	backend     *Backend
	ownsBackend bool
}

var _ storage.ConfigRepository = (*ConfigRepository)(nil)

// NewConfigRepository creates a ConfigRepository on an open backend.
// Closing the repository leaves the backend open.
func NewConfigRepository(backend *Backend) *ConfigRepository {
	return &ConfigRepository{backend: backend}
}

// OpenConfigRepository opens a BadgerDB database at path and returns a
// repository owning it.
func OpenConfigRepository(path string) (storage.ConfigRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &ConfigRepository{backend: backend, ownsBackend: true}, nil
}

// Load retrieves the active configuration set.
func (r *ConfigRepository) Load(ctx context.Context) (core.ConfigSet, error) {
	var set core.ConfigSet
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeConfigSetKey(activeConfigSet))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			set, unmarshalErr = storage.UnmarshalConfigSet(val)
			return unmarshalErr
		})
	}, false)
	return set, err
}

// Save replaces the active configuration set.
func (r *ConfigRepository) Save(ctx context.Context, set core.ConfigSet) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeConfigSetKey(activeConfigSet), storage.MarshalConfigSet(set)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Delete removes the active configuration set.
func (r *ConfigRepository) Delete(ctx context.Context) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeConfigSetKey(activeConfigSet)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close closes the backend if the repository opened it.
func (r *ConfigRepository) Close() error {
	if r.ownsBackend {
		return r.backend.Close()
	}
	return nil
}
