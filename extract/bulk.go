package extract

import (
	"fmt"
	"strings"

	"github.com/poiesic/enrichproxy/core"
	"github.com/poiesic/enrichproxy/jsondoc"
)

// LineSeparator delimits bulk payload lines.
const LineSeparator = "\n"

// Source is a document line of a bulk payload introduced by an index or
// create action. Document is decoded on demand by Items.
type Source struct {
	Position int
	Index    string
	Document *jsondoc.Value
}

// BulkPayload is a bulk body split into lines, with its enrichable sources.
type BulkPayload struct {
	Lines   []string
	Sources []Source
}

// ParseBulk splits a bulk body and records the source line of every index and
// create action. Update actions have their partial document skipped. Delete
// actions and lines that are not actions are left alone.
func ParseBulk(body string) *BulkPayload {
	lines := splitLines(body)
	payload := &BulkPayload{Lines: lines}

	for row := 0; row < len(lines); row++ {
		verb, index, ok := parseAction(lines[row])
		if !ok {
			continue
		}
		switch verb {
		case "index", "create":
		case "update":
			row++
			continue
		default:
			continue
		}
		sourceRow := row + 1
		if sourceRow >= len(lines) {
			break
		}
		row = sourceRow
		if index == "" {
			continue
		}
		payload.Sources = append(payload.Sources, Source{Position: sourceRow, Index: index})
	}

	return payload
}

// Items extracts items from every source whose index is configured. Only
// those sources are decoded; a malformed one fails the whole payload.
func (p *BulkPayload) Items(configs core.ConfigSet) ([]core.ExtractionItem, error) {
	var items []core.ExtractionItem
	for i := range p.Sources {
		src := &p.Sources[i]
		if len(configs.ForIndex(src.Index)) == 0 {
			continue
		}
		if src.Document == nil {
			doc, err := ParseDocument([]byte(p.Lines[src.Position]))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", src.Position, err)
			}
			src.Document = doc
		}
		items = append(items, FromDocument(src.Document, src.Index, src.Position, configs)...)
	}
	return items, nil
}

// Body rejoins the lines with the line separator, terminating the last line.
func (p *BulkPayload) Body() string {
	if len(p.Lines) == 0 {
		return ""
	}
	return strings.Join(p.Lines, LineSeparator) + LineSeparator
}

// splitLines splits on the separator and drops trailing empty lines.
func splitLines(body string) []string {
	lines := strings.Split(body, LineSeparator)
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// parseAction reads an action line such as {"index":{"_index":"tweeter"}}.
func parseAction(line string) (verb, index string, ok bool) {
	v, err := jsondoc.Parse([]byte(line))
	if err != nil || v.Kind() != jsondoc.Object || len(v.Members()) != 1 {
		return "", "", false
	}
	m := v.Members()[0]
	switch m.Key {
	case "index", "create", "update", "delete":
	default:
		return "", "", false
	}
	if m.Value.Kind() != jsondoc.Object {
		return "", "", false
	}
	if name, found := m.Value.Get("_index"); found && name.Kind() == jsondoc.String {
		index = name.Text()
	}
	return m.Key, index, true
}
