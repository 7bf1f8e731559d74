package provision

import (
	"github.com/poiesic/enrichproxy/core"
)

// Mapping returns the field mappings of the enrichment output for the
// configs of one index. The timestamp is a date; labels and codes that are
// aggregated on are keywords.
func Mapping(configs []core.FieldConfig) map[string]any {
	keyword := map[string]any{"type": "keyword"}
	properties := map[string]any{
		core.TimestampField: map[string]any{"type": "date"},
	}

	for _, fc := range configs {
		for _, op := range fc.Operations {
			label := core.NewLocator(fc.FieldName, op, 0).Label
			switch op {
			case core.DetectSentiment:
				properties[label] = map[string]any{
					"properties": map[string]any{"sentiment": keyword},
				}
			case core.DetectDominantLanguage:
				properties[label] = map[string]any{
					"properties": map[string]any{
						"languages": map[string]any{
							"properties": map[string]any{"languageCode": keyword},
						},
					},
				}
			case core.DetectEntities, core.DetectKeyPhrases, core.DetectSyntax:
				properties[label+core.FlattenSuffix] = map[string]any{"type": "object"}
			}
		}
	}
	return properties
}
