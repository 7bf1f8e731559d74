package batch

import (
	"fmt"
	"testing"

	"github.com/poiesic/enrichproxy/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItems(n int, op core.Operation, lang core.LanguageCode) []core.ExtractionItem {
	items := make([]core.ExtractionItem, n)
	for i := range items {
		items[i] = core.ExtractionItem{
			Content:   fmt.Sprintf("%s-%s-%d", op, lang, i),
			Operation: op,
			Language:  lang,
			Locator:   core.NewLocator("text", op, i),
		}
	}
	return items
}

func TestScheduleGroupCounts(t *testing.T) {
	for _, n := range []int{0, 1, 24, 25, 26, 50, 51, 99, 100, 101} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			groups := Schedule(makeItems(n, core.DetectSentiment, core.English))

			want := (n + MaxSize - 1) / MaxSize
			require.Len(t, groups, want)

			total := 0
			for i, g := range groups {
				if i < len(groups)-1 {
					assert.Len(t, g.Items, MaxSize)
				}
				assert.LessOrEqual(t, len(g.Items), MaxSize)
				assert.NotEmpty(t, g.Items)
				total += len(g.Items)
			}
			assert.Equal(t, n, total)
		})
	}
}

func TestSchedulePreservesArrivalOrder(t *testing.T) {
	items := makeItems(60, core.DetectEntities, core.Spanish)
	groups := Schedule(items)

	var flattened []core.ExtractionItem
	for _, g := range groups {
		flattened = append(flattened, g.Items...)
	}
	assert.Equal(t, items, flattened)
}

func TestScheduleKeys(t *testing.T) {
	var items []core.ExtractionItem
	items = append(items, makeItems(2, core.DetectSentiment, core.English)...)
	items = append(items, makeItems(2, core.DetectSentiment, core.French)...)
	items = append(items, makeItems(1, core.DetectDominantLanguage, core.English)...)
	items = append(items, makeItems(1, core.DetectDominantLanguage, core.German)...)

	groups := Schedule(items)
	require.Len(t, groups, 3)

	assert.Equal(t, core.BatchKey{Operation: core.DetectSentiment, Language: core.English}, groups[0].Key)
	assert.Equal(t, core.BatchKey{Operation: core.DetectSentiment, Language: core.French}, groups[1].Key)
	assert.Equal(t, core.BatchKey{Operation: core.DetectDominantLanguage}, groups[2].Key)
	assert.Len(t, groups[2].Items, 2, "dominant language ignores the language code")
}

func TestScheduleInterleavedKeys(t *testing.T) {
	en := makeItems(30, core.DetectSyntax, core.English)
	it := makeItems(30, core.DetectSyntax, core.Italian)

	var items []core.ExtractionItem
	for i := range en {
		items = append(items, en[i], it[i])
	}

	groups := Schedule(items)
	require.Len(t, groups, 4)

	// Both keys fill up on consecutive items, English first.
	assert.Equal(t, en[:25], groups[0].Items)
	assert.Equal(t, it[:25], groups[1].Items)
	assert.Equal(t, en[25:], groups[2].Items)
	assert.Equal(t, it[25:], groups[3].Items)
}

func TestScheduleWithSize(t *testing.T) {
	groups := ScheduleWithSize(makeItems(5, core.DetectKeyPhrases, core.English), 2)
	require.Len(t, groups, 3)
	assert.Len(t, groups[2].Items, 1)

	groups = ScheduleWithSize(makeItems(2, core.DetectKeyPhrases, core.English), 0)
	assert.Len(t, groups, 2)
}
