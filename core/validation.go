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

import (
	"fmt"
)

// ValidateFieldConfig validates a FieldConfig according to domain rules.
//
// Validation rules:
//   - IndexName and FieldName must not be empty
//   - Operations must not be empty and every operation must be supported
//   - Language must be set and supported
func ValidateFieldConfig(config *FieldConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidFieldConfig)
	}

	if config.IndexName == "" {
		return fmt.Errorf("%w: %w: indexName", ErrInvalidFieldConfig, ErrMissingField)
	}

	if config.FieldName == "" {
		return fmt.Errorf("%w: %w: fieldName", ErrInvalidFieldConfig, ErrMissingField)
	}

	if len(config.Operations) == 0 {
		return fmt.Errorf("%w: %w: operations", ErrInvalidFieldConfig, ErrMissingField)
	}

	for _, op := range config.Operations {
		if !op.Valid() {
			return fmt.Errorf("%w: %w: %d", ErrInvalidFieldConfig, ErrUnknownOperation, int(op))
		}
	}

	if config.Language == "" {
		return fmt.Errorf("%w: %w: languageCode", ErrInvalidFieldConfig, ErrMissingField)
	}

	if !config.Language.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidFieldConfig, ErrUnknownLanguage, config.Language)
	}

	return nil
}
