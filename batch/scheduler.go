package batch

import (
	"github.com/poiesic/enrichproxy/core"
)

// MaxSize is the largest number of items one batch call accepts.
const MaxSize = 25

// Schedule groups items into batches keyed by core.KeyFor. Items join the
// open group of their key in arrival order; a group is emitted as soon as it
// holds MaxSize items. Remaining open groups are emitted afterwards in the
// order their keys first appeared.
func Schedule(items []core.ExtractionItem) []core.BatchGroup {
	return ScheduleWithSize(items, MaxSize)
}

// ScheduleWithSize is Schedule with a custom capacity.
func ScheduleWithSize(items []core.ExtractionItem, size int) []core.BatchGroup {
	if size < 1 {
		size = 1
	}

	var (
		sealed []core.BatchGroup
		open   = make(map[core.BatchKey]*core.BatchGroup)
		order  []core.BatchKey
	)

	for _, item := range items {
		key := core.KeyFor(item)
		group, ok := open[key]
		if !ok {
			group = &core.BatchGroup{Key: key, Items: make([]core.ExtractionItem, 0, size)}
			open[key] = group
			order = append(order, key)
		}
		group.Items = append(group.Items, item)
		if len(group.Items) == size {
			sealed = append(sealed, *group)
			delete(open, key)
		}
	}

	for _, key := range order {
		if group, ok := open[key]; ok {
			sealed = append(sealed, *group)
			delete(open, key)
		}
	}

	return sealed
}
