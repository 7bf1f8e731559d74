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


// Package storage provides the storage abstraction for the field
// configuration of the proxy.
//
// ConfigRepository decouples the proxy from where the configuration lives.
// Two backends implement it:
//
//   - storage/badger: a local BadgerDB database
//   - storage/cluster: a document in the search cluster itself
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.ConfigRepository interface:
//
//	repo, err := badger.OpenConfigRepository("/var/lib/enrichproxy")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// Constructors taking an already opened backend return concrete types since
// callers own the backend lifecycle.
//
// # Serialization
//
// Binary encoding of configuration sets uses mus-go through the serializers
// in the core package. Sets are written in key order so equal sets produce
// equal bytes.
//
// # Missing Configuration
//
// Load returns ErrNotFound when nothing is stored. Request processing treats
// that as an empty set, which turns every request into a passthrough; use
// LoadOrEmpty for that view.
package storage
