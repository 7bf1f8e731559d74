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


// Package proxy implements the request processing of the enrichment proxy.
//
// A Processor classifies every request and handles it by category:
//
//   - configuration requests read, replace, merge or clear the stored field
//     configuration
//   - single-document writes have their configured fields analyzed one call
//     per field and operation
//   - bulk writes have their configured fields analyzed in batches grouped by
//     operation and language
//   - everything else is forwarded untouched
//
// Analysis failures of individual fields are written into the documents
// under "_Error" labels and do not fail the request. A missed deadline, a
// worker pool failure or an unreachable cluster fails the whole request and
// nothing is forwarded.
package proxy
