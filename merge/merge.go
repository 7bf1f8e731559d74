package merge

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/poiesic/enrichproxy/core"
	"github.com/poiesic/enrichproxy/jsondoc"
)

// MetadataKeys are the members of analysis results describing the call
// rather than the text. They are removed before insertion.
var MetadataKeys = []string{"sdkResponseMetadata", "sdkHttpMetadata"}

// Single writes every outcome into doc and stamps it with now.
func Single(doc *jsondoc.Value, outcomes []core.Outcome, now time.Time) error {
	for _, o := range outcomes {
		if err := apply(doc, o); err != nil {
			return err
		}
	}
	Stamp(doc, now)
	return nil
}

// Stamp sets the processing timestamp of doc.
func Stamp(doc *jsondoc.Value, now time.Time) {
	doc.Set(core.TimestampField, jsondoc.NewString(now.UTC().Format(time.RFC3339Nano)))
}

// apply writes one outcome under its locator label. Successful results of
// flattenable operations also get the companion field.
func apply(doc *jsondoc.Value, o core.Outcome) error {
	if o.Failed() {
		payload, err := json.Marshal(o.Err)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMalformedResult, o.Locator.Label, err)
		}
		value, err := jsondoc.Parse(payload)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMalformedResult, o.Locator.Label, err)
		}
		doc.Set(o.Locator.Label, value)
		return nil
	}

	value, err := jsondoc.Parse(o.Value)
	if err != nil || value.Kind() != jsondoc.Object {
		return fmt.Errorf("%w: %s is not an object", ErrMalformedResult, o.Locator.Label)
	}
	for _, key := range MetadataKeys {
		value.Delete(key)
	}
	doc.Set(o.Locator.Label, value)

	if flat, ok := Flatten(o.Operation, value); ok {
		doc.Set(o.Locator.Label+core.FlattenSuffix, flat)
	}
	return nil
}
