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


package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/enrichproxy/core"
)

// MarshalConfigSet serializes a ConfigSet to bytes.
func MarshalConfigSet(set core.ConfigSet) []byte {
	buf := make([]byte, core.ConfigSetMUS.Size(set))
	core.ConfigSetMUS.Marshal(set, buf)
	return buf
}

// UnmarshalConfigSet deserializes a ConfigSet from bytes.
func UnmarshalConfigSet(data []byte) (core.ConfigSet, error) {
	set, n, err := core.ConfigSetMUS.Unmarshal(data)
	if err != nil {
		return core.ConfigSet{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return core.ConfigSet{}, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return set, nil
}

// LoadOrEmpty loads the stored configuration, treating a missing one as an
// empty set.
func LoadOrEmpty(ctx context.Context, repo ConfigRepository) (core.ConfigSet, error) {
	set, err := repo.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return core.ConfigSet{}, nil
	}
	return set, err
}
