package dedupe

import (
	"time"

	"briefing/internal"
)

// NewItem records an incoming item that was not previously known, keeping the
// raw title for human display alongside the canonical course.
type NewItem struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Course string `json:"course"`
}

// MergeResult is the outcome of merging one category's collections.
type MergeResult struct {
	Merged   []internal.Item
	NewItems []NewItem
}

var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// PickBetterDueDate returns the chronologically later of two due dates. A
// missing or unparseable side has no opinion; the deadline that survives a
// merge should be the real one, not an early reminder.
func PickBetterDueDate(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}

	ta, okA := parseDueDate(a)
	tb, okB := parseDueDate(b)
	if !okA {
		return b
	}
	if !okB {
		return a
	}
	if tb.After(ta) {
		return b
	}
	return a
}

func parseDueDate(value string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Merge reconciles an incoming collection into an existing one, keyed by
// fingerprint. Existing items keep their original positions; genuinely new
// items append in incoming order. Merging the same incoming batch twice is a
// no-op: every fingerprint is already known, so NewItems stays empty and the
// merged collection is unchanged.
func (d *Deduper) Merge(existing, incoming []internal.Item, titleField string) MergeResult {
	seen := make(map[string]internal.Item, len(existing)+len(incoming))
	order := make([]string, 0, len(existing)+len(incoming))
	existingKeys := make(map[string]struct{}, len(existing))
	newItems := []NewItem{}

	for _, item := range existing {
		key := d.ItemKey(item, titleField)
		if _, ok := seen[key]; !ok {
			order = append(order, key)
		}
		seen[key] = item
		existingKeys[key] = struct{}{}
	}

	// Incoming wins per field; within one batch, later duplicates of the same
	// fingerprint overwrite earlier ones.
	for _, item := range incoming {
		key := d.ItemKey(item, titleField)
		current, known := seen[key]
		if !known {
			order = append(order, key)
		}
		seen[key] = d.mergeItems(current, item)

		if _, was := existingKeys[key]; !was {
			newItems = append(newItems, NewItem{
				Key:    key,
				Title:  item.String(titleField),
				Course: d.courses.Normalize(item.String("course")),
			})
		}
	}

	merged := make([]internal.Item, 0, len(order))
	for _, key := range order {
		merged = append(merged, seen[key])
	}
	return MergeResult{Merged: merged, NewItems: newItems}
}

// mergeItems overlays the incoming item's fields onto the existing item's,
// shallowly. Due dates are special-cased to keep the later deadline, and the
// stored course is always re-canonicalized.
func (d *Deduper) mergeItems(existing, incoming internal.Item) internal.Item {
	merged := existing.Clone()
	for k, v := range incoming {
		merged[k] = v
	}

	if existing.String("dueDate") != "" || incoming.String("dueDate") != "" {
		merged["dueDate"] = PickBetterDueDate(existing.String("dueDate"), incoming.String("dueDate"))
	}
	if merged.String("course") != "" {
		merged["course"] = d.courses.Normalize(merged.String("course"))
	}
	return merged
}
