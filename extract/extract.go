package extract

import (
	"fmt"

	"github.com/poiesic/enrichproxy/core"
	"github.com/poiesic/enrichproxy/jsondoc"
)

// ParseDocument decodes a single-document request body.
func ParseDocument(body []byte) (*jsondoc.Value, error) {
	doc, err := jsondoc.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if doc.Kind() != jsondoc.Object {
		return nil, fmt.Errorf("%w: document is not an object", ErrMalformedDocument)
	}
	return doc, nil
}

// FromDocument produces one item per configured operation for every field of
// index found in doc. Fields are located with a pre-order depth-first search
// and the first match wins. Position is set on every locator so bulk sources
// can share this routine.
func FromDocument(doc *jsondoc.Value, index string, position int, configs core.ConfigSet) []core.ExtractionItem {
	var items []core.ExtractionItem
	for _, fc := range configs.ForIndex(index) {
		value, ok := doc.Find(fc.FieldName)
		if !ok {
			continue
		}
		content := value.Text()
		for _, op := range fc.Operations {
			items = append(items, core.ExtractionItem{
				Content:   content,
				Operation: op,
				Language:  fc.Language,
				Locator:   core.NewLocator(fc.FieldName, op, position),
			})
		}
	}
	return items
}
