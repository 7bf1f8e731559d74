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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidFieldConfig indicates a FieldConfig failed validation.
	ErrInvalidFieldConfig = errors.New("invalid field config")

	// ErrMissingField indicates a required FieldConfig attribute is empty.
	ErrMissingField = errors.New("missing or empty field")

	// ErrDuplicateConfig indicates two configs share an (indexName, fieldName) pair.
	ErrDuplicateConfig = errors.New("duplicated index-fieldName pair")

	// ErrUnknownOperation indicates an operation name outside the supported set.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrUnknownLanguage indicates an unsupported language code.
	ErrUnknownLanguage = errors.New("unknown language code")
)
