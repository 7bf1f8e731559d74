package core

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// Field suffixes and names written into enriched documents.
const (
	// ErrorSuffix is appended to a locator label when its analysis failed.
	ErrorSuffix = "_Error"
	// FlattenSuffix names the visualization-friendly companion field.
	FlattenSuffix = "_Kibana"
	// TimestampField holds the processing time of an enriched document.
	TimestampField = "process_time"
)

// Operation identifies one analysis capability of the text-analysis service.
type Operation int

const (
	// DetectDominantLanguage detects the dominant language of a text.
	DetectDominantLanguage Operation = iota + 1
	// DetectEntities detects named entities.
	DetectEntities
	// DetectKeyPhrases detects key noun phrases.
	DetectKeyPhrases
	// DetectSentiment detects the prevailing sentiment.
	DetectSentiment
	// DetectSyntax tokenizes a text and tags parts of speech.
	DetectSyntax
)

// FlattenStrategy describes how an operation result is restructured for visualization.
type FlattenStrategy int

const (
	// FlattenNone means the operation has no companion field.
	FlattenNone FlattenStrategy = iota
	// FlattenGroupByType groups result texts by their sub-type.
	FlattenGroupByType
	// FlattenWrapList wraps result texts in a single list.
	FlattenWrapList
)

type operationTrait struct {
	name          string
	needsLanguage bool
	flatten       FlattenStrategy
	resultKey     string
	groupPath     []string
}

var operationTraits = map[Operation]operationTrait{
	DetectDominantLanguage: {name: "DetectDominantLanguage", resultKey: "languages"},
	DetectEntities: {name: "DetectEntities", needsLanguage: true, flatten: FlattenGroupByType,
		resultKey: "entities", groupPath: []string{"type"}},
	DetectKeyPhrases: {name: "DetectKeyPhrases", needsLanguage: true, flatten: FlattenWrapList,
		resultKey: "keyPhrases"},
	DetectSentiment: {name: "DetectSentiment", needsLanguage: true, resultKey: "sentiment"},
	DetectSyntax: {name: "DetectSyntax", needsLanguage: true, flatten: FlattenGroupByType,
		resultKey: "syntaxTokens", groupPath: []string{"partOfSpeech", "tag"}},
}

// Operations returns every supported operation in declaration order.
func Operations() []Operation {
	return []Operation{DetectDominantLanguage, DetectEntities, DetectKeyPhrases, DetectSentiment, DetectSyntax}
}

// ParseOperation resolves an operation by its wire name.
func ParseOperation(name string) (Operation, error) {
	for _, op := range Operations() {
		if operationTraits[op].name == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// Valid reports whether o is one of the supported operations.
func (o Operation) Valid() bool {
	_, ok := operationTraits[o]
	return ok
}

func (o Operation) String() string {
	if t, ok := operationTraits[o]; ok {
		return t.name
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// NeedsLanguage reports whether the analysis call requires a language code.
// Operations that don't are batched on operation identity alone.
func (o Operation) NeedsLanguage() bool {
	return operationTraits[o].needsLanguage
}

// Flatten returns the companion-field strategy of the operation.
func (o Operation) Flatten() FlattenStrategy {
	return operationTraits[o].flatten
}

// ResultKey is the top-level key of the operation result carrying its payload.
func (o Operation) ResultKey() string {
	return operationTraits[o].resultKey
}

// GroupPath is the path inside one result element naming its sub-type.
// Only meaningful for FlattenGroupByType operations.
func (o Operation) GroupPath() []string {
	return operationTraits[o].groupPath
}

func (o Operation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperation, int(o))
	}
	return []byte(o.String()), nil
}

func (o *Operation) UnmarshalText(text []byte) error {
	op, err := ParseOperation(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// LanguageCode is an ISO 639-1 code accepted by the analysis service.
type LanguageCode string

const (
	English    LanguageCode = "en"
	Spanish    LanguageCode = "es"
	French     LanguageCode = "fr"
	German     LanguageCode = "de"
	Italian    LanguageCode = "it"
	Portuguese LanguageCode = "pt"
)

// Languages returns every supported language code.
func Languages() []LanguageCode {
	return []LanguageCode{English, Spanish, French, German, Italian, Portuguese}
}

// Valid reports whether l is a supported language code.
func (l LanguageCode) Valid() bool {
	return slices.Contains(Languages(), l)
}

// ParseLanguageCode resolves a language code, ignoring case.
func ParseLanguageCode(s string) (LanguageCode, error) {
	l := LanguageCode(strings.ToLower(s))
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
	return l, nil
}

// FieldConfig enables a set of operations on one field of one index.
type FieldConfig struct {
	IndexName  string
	FieldName  string
	Operations []Operation
	Language   LanguageCode
}

// Key returns the ConfigSet key "<indexName>_<fieldName>".
func (f FieldConfig) Key() string {
	return f.IndexName + "_" + f.FieldName
}

// normalized returns a copy with operations sorted and deduplicated.
func (f FieldConfig) normalized() FieldConfig {
	ops := slices.Clone(f.Operations)
	slices.Sort(ops)
	f.Operations = slices.Compact(ops)
	return f
}

// ConfigSet is an immutable view of field configuration keyed by FieldConfig.Key.
// The zero value is an empty set.
type ConfigSet struct {
	entries map[string]FieldConfig
}

// NewConfigSet builds a ConfigSet, rejecting configs that fail validation
// and duplicated (indexName, fieldName) pairs.
func NewConfigSet(configs ...FieldConfig) (ConfigSet, error) {
	entries := make(map[string]FieldConfig, len(configs))
	for _, c := range configs {
		if err := ValidateFieldConfig(&c); err != nil {
			return ConfigSet{}, err
		}
		key := c.Key()
		if _, ok := entries[key]; ok {
			return ConfigSet{}, fmt.Errorf("%w: %s", ErrDuplicateConfig, key)
		}
		entries[key] = c.normalized()
	}
	return ConfigSet{entries: entries}, nil
}

// Len returns the number of configured fields.
func (s ConfigSet) Len() int {
	return len(s.entries)
}

// IsEmpty reports whether nothing is configured.
func (s ConfigSet) IsEmpty() bool {
	return len(s.entries) == 0
}

// Get returns the config stored under key.
func (s ConfigSet) Get(key string) (FieldConfig, bool) {
	c, ok := s.entries[key]
	return c, ok
}

// Contains reports whether key is configured.
func (s ConfigSet) Contains(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// All returns every config ordered by key.
func (s ConfigSet) All() []FieldConfig {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]FieldConfig, len(keys))
	for i, k := range keys {
		out[i] = s.entries[k]
	}
	return out
}

// ForIndex returns the configs targeting index, ordered by field name.
func (s ConfigSet) ForIndex(index string) []FieldConfig {
	var out []FieldConfig
	for _, c := range s.All() {
		if c.IndexName == index {
			out = append(out, c)
		}
	}
	return out
}

// Merge returns a new set holding s overlaid with other; entries of other win.
func (s ConfigSet) Merge(other ConfigSet) ConfigSet {
	entries := make(map[string]FieldConfig, len(s.entries)+len(other.entries))
	for k, v := range s.entries {
		entries[k] = v
	}
	for k, v := range other.entries {
		entries[k] = v
	}
	return ConfigSet{entries: entries}
}

// Missing returns the configs of s whose keys are absent from other.
func (s ConfigSet) Missing(other ConfigSet) []FieldConfig {
	var out []FieldConfig
	for _, c := range s.All() {
		if !other.Contains(c.Key()) {
			out = append(out, c)
		}
	}
	return out
}

// Fingerprint identifies the content of the set with a BLAKE2b digest.
// Equal sets produce equal fingerprints regardless of construction order.
func (s ConfigSet) Fingerprint() string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	for _, c := range s.All() {
		h.Write([]byte(c.Key()))
		h.Write([]byte{0})
		for _, op := range c.Operations {
			h.Write([]byte(op.String()))
			h.Write([]byte{','})
		}
		h.Write([]byte(c.Language))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Locator addresses where an analysis result is written back.
// Position is the row of the source line in a bulk payload and is unused for
// single documents.
type Locator struct {
	Label    string
	Position int
}

// NewLocator builds the locator for one field/operation pair.
func NewLocator(fieldName string, op Operation, position int) Locator {
	return Locator{Label: fieldName + "_" + op.String(), Position: position}
}

// Failed returns the locator relabelled for an error payload.
func (l Locator) Failed() Locator {
	if strings.HasSuffix(l.Label, ErrorSuffix) {
		return l
	}
	l.Label += ErrorSuffix
	return l
}

// ExtractionItem is one field value scheduled for one analysis operation.
type ExtractionItem struct {
	Content   string
	Operation Operation
	Language  LanguageCode
	Locator   Locator
}

// BatchKey groups items that can share one batch call.
// Language is empty for operations that don't need one.
type BatchKey struct {
	Operation Operation
	Language  LanguageCode
}

// KeyFor returns the batch key of an item.
func KeyFor(item ExtractionItem) BatchKey {
	if !item.Operation.NeedsLanguage() {
		return BatchKey{Operation: item.Operation}
	}
	return BatchKey{Operation: item.Operation, Language: item.Language}
}

func (k BatchKey) String() string {
	if k.Language == "" {
		return k.Operation.String()
	}
	return k.Operation.String() + "/" + string(k.Language)
}

// BatchGroup is an ordered, bounded group of items sharing a BatchKey.
// Item order is the within-batch index used to realign results.
type BatchGroup struct {
	Key   BatchKey
	Items []ExtractionItem
}

// Texts returns the contents of the group in item order.
func (g BatchGroup) Texts() []string {
	texts := make([]string, len(g.Items))
	for i, item := range g.Items {
		texts[i] = item.Content
	}
	return texts
}

// Locators returns a copy of the item locators in item order.
func (g BatchGroup) Locators() []Locator {
	locs := make([]Locator, len(g.Items))
	for i, item := range g.Items {
		locs[i] = item.Locator
	}
	return locs
}

// AnalysisError is the inline payload written for a failed analysis.
type AnalysisError struct {
	StatusCode   int    `json:"statusCode,omitempty"`
	ErrorCode    string `json:"errorCode"`
	RequestID    string `json:"requestId,omitempty"`
	ErrorMessage string `json:"errorMessage"`
}

// Outcome is the result of one extraction item: either a value or an error.
type Outcome struct {
	Locator   Locator
	Operation Operation
	Value     json.RawMessage
	Err       *AnalysisError
}

// Failed reports whether the outcome carries an error payload.
func (o Outcome) Failed() bool {
	return o.Err != nil
}
