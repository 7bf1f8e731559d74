package merge

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/poiesic/enrichproxy/core"
	"github.com/poiesic/enrichproxy/enrich"
	"github.com/poiesic/enrichproxy/extract"
	"github.com/poiesic/enrichproxy/jsondoc"
)

// tagged is a batch result or error tagged with its within-batch index.
type tagged struct {
	index int
	value json.RawMessage
	err   *core.AnalysisError
}

// Outcomes realigns the results and errors of one batch with its locators:
// both lists are tagged with their within-batch index, concatenated, sorted
// by index and zipped with the locators, which are in submission order.
func Outcomes(resp enrich.BatchResponse) ([]core.Outcome, error) {
	entries := make([]tagged, 0, len(resp.Results)+len(resp.Errors))
	for _, r := range resp.Results {
		entries = append(entries, tagged{index: r.Index, value: r.Value})
	}
	for _, e := range resp.Errors {
		entries = append(entries, tagged{index: e.Index, err: e.Err})
	}
	slices.SortStableFunc(entries, func(a, b tagged) int {
		return a.index - b.index
	})

	if len(entries) != len(resp.Locators) {
		return nil, fmt.Errorf("%w: batch %s has %d results for %d items",
			ErrMalformedResult, resp.Key, len(entries), len(resp.Locators))
	}

	outcomes := make([]core.Outcome, len(entries))
	for i, entry := range entries {
		if entry.index != i {
			return nil, fmt.Errorf("%w: batch %s has no result for item %d", ErrMalformedResult, resp.Key, i)
		}
		outcomes[i] = core.Outcome{
			Locator:   resp.Locators[i],
			Operation: resp.Key.Operation,
			Value:     entry.value,
			Err:       entry.err,
		}
	}
	return outcomes, nil
}

// Bulk writes the batch responses into the source lines of payload. Every
// touched line is stamped with now and re-serialized; other lines are left
// byte for byte. Lines are only replaced once every response merged.
func Bulk(payload *extract.BulkPayload, responses []enrich.BatchResponse, now time.Time) error {
	docs := make(map[int]*jsondoc.Value, len(payload.Sources))
	for _, src := range payload.Sources {
		if src.Document != nil {
			docs[src.Position] = src.Document
		}
	}

	touched := make(map[int]bool)
	for _, resp := range responses {
		outcomes, err := Outcomes(resp)
		if err != nil {
			return err
		}
		for _, o := range outcomes {
			doc, ok := docs[o.Locator.Position]
			if !ok {
				return fmt.Errorf("%w: no document at line %d", ErrMalformedResult, o.Locator.Position)
			}
			if err := apply(doc, o); err != nil {
				return err
			}
			touched[o.Locator.Position] = true
		}
	}

	for pos := range touched {
		doc := docs[pos]
		Stamp(doc, now)
		payload.Lines[pos] = doc.String()
	}
	return nil
}
