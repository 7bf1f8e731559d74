package fieldconfig

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/poiesic/enrichproxy/core"
)

// Payload is the configuration document exchanged with customers.
type Payload struct {
	FieldConfigurations []Entry `json:"fieldConfigurations"`
}

// Entry configures the analysis of one field of one index.
type Entry struct {
	IndexName    string   `json:"indexName"`
	FieldName    string   `json:"fieldName"`
	Operations   []string `json:"operations"`
	LanguageCode string   `json:"languageCode"`
}

func (e Entry) complete() bool {
	return e.IndexName != "" && e.FieldName != "" && len(e.Operations) > 0 && e.LanguageCode != ""
}

func (e Entry) fieldConfig() (core.FieldConfig, error) {
	fc := core.FieldConfig{
		IndexName: e.IndexName,
		FieldName: e.FieldName,
		Language:  core.LanguageCode(e.LanguageCode),
	}
	for _, name := range e.Operations {
		op, err := core.ParseOperation(name)
		if err != nil {
			return core.FieldConfig{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		fc.Operations = append(fc.Operations, op)
	}
	return fc, nil
}

// Decode validates a configuration payload and builds its ConfigSet.
// Duplicated pairs among complete entries are reported before incomplete
// entries.
func Decode(body []byte) (core.ConfigSet, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return core.ConfigSet{}, ErrEmptyBody
	}
	if err := validate(body); err != nil {
		return core.ConfigSet{}, err
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return core.ConfigSet{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	seen := make(map[string]bool, len(payload.FieldConfigurations))
	configs := make([]core.FieldConfig, 0, len(payload.FieldConfigurations))
	incomplete := 0
	for _, entry := range payload.FieldConfigurations {
		if !entry.complete() {
			incomplete++
			continue
		}
		fc, err := entry.fieldConfig()
		if err != nil {
			return core.ConfigSet{}, err
		}
		if seen[fc.Key()] {
			return core.ConfigSet{}, fmt.Errorf("%w: %s", ErrDuplicated, fc.Key())
		}
		seen[fc.Key()] = true
		configs = append(configs, fc)
	}
	if incomplete > 0 {
		return core.ConfigSet{}, fmt.Errorf("%w: %d entries", ErrMissingField, incomplete)
	}

	set, err := core.NewConfigSet(configs...)
	if err != nil {
		return core.ConfigSet{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return set, nil
}

// Encode renders set as a configuration payload, entries ordered by key.
func Encode(set core.ConfigSet) ([]byte, error) {
	payload := Payload{FieldConfigurations: make([]Entry, 0, set.Len())}
	for _, fc := range set.All() {
		entry := Entry{
			IndexName:    fc.IndexName,
			FieldName:    fc.FieldName,
			Operations:   make([]string, len(fc.Operations)),
			LanguageCode: string(fc.Language),
		}
		for i, op := range fc.Operations {
			entry.Operations[i] = op.String()
		}
		payload.FieldConfigurations = append(payload.FieldConfigurations, entry)
	}
	return json.Marshal(payload)
}
