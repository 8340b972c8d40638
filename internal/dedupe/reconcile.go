package dedupe

import (
	"strings"
	"time"

	"briefing/internal"
)

// SyncPath identifies which ingestion path produced a reconcile call. The
// email-scan path unions its new-item keys with the existing set so a scan
// can never erase the "new" flags of an unseen submission; the submission
// path replaces them.
type SyncPath string

const (
	PathSubmission SyncPath = "submission"
	PathEmailSync  SyncPath = "emailSync"
)

// ReconcileResult carries the document to persist plus the per-category new
// items for the caller's response payload.
type ReconcileResult struct {
	Doc      *internal.BriefingDocument
	NewItems map[internal.Category][]NewItem
}

// TotalNew counts new items across all categories.
func (r ReconcileResult) TotalNew() int {
	total := 0
	for _, items := range r.NewItems {
		total += len(items)
	}
	return total
}

// Reconciler merges incoming submissions into per-date briefing documents.
// It is pure: fetching the existing document and persisting the result are
// the caller's concern, and calling it again with the same inputs changes
// nothing.
type Reconciler struct {
	deduper *Deduper
}

func NewReconciler(deduper *Deduper) *Reconciler {
	return &Reconciler{deduper: deduper}
}

func (r *Reconciler) Deduper() *Deduper { return r.deduper }

// Reconcile merges one incoming submission into the existing document for a
// date (nil when the date has no document yet) and returns the document
// shape to persist. now stamps the bookkeeping timestamps.
func (r *Reconciler) Reconcile(date string, existing *internal.BriefingDocument, incoming *internal.BriefingSubmission, path SyncPath, now time.Time) ReconcileResult {
	if existing == nil {
		existing = &internal.BriefingDocument{Date: date}
	}

	doc := &internal.BriefingDocument{Date: date}
	newItems := make(map[internal.Category][]NewItem, len(internal.Categories))

	for _, category := range internal.Categories {
		result := r.deduper.Merge(existing.Items(category), incoming.Items(category), category.TitleField())
		if category == internal.CategoryGradescope {
			result.Merged = filterValidGradeRecords(result.Merged)
			result.NewItems = filterValidNewGradeRecords(result.NewItems)
		}
		doc.SetItems(category, result.Merged)
		newItems[category] = result.NewItems
	}

	newKeys := make([]string, 0)
	for _, category := range internal.Categories {
		for _, item := range newItems[category] {
			newKeys = append(newKeys, item.Key)
		}
	}
	if path == PathEmailSync {
		newKeys = unionKeys(existing.NewItemKeys, newKeys)
	}
	doc.NewItemKeys = newKeys

	doc.Summary = incoming.Summary
	if len(doc.Summary) == 0 {
		doc.Summary = existing.Summary
	}

	stamp := now.UTC().Format(time.RFC3339)
	doc.CreatedAt = existing.CreatedAt
	if doc.CreatedAt == "" {
		doc.CreatedAt = stamp
	}
	doc.UpdatedAt = stamp
	doc.LastSubmissionAt = existing.LastSubmissionAt
	doc.LastEmailSyncAt = existing.LastEmailSyncAt
	doc.LastSeenAt = existing.LastSeenAt
	switch path {
	case PathEmailSync:
		doc.LastEmailSyncAt = stamp
	default:
		doc.LastSubmissionAt = stamp
	}

	return ReconcileResult{Doc: doc, NewItems: newItems}
}

// Grade records scraped from irregular sources sometimes carry placeholder
// assignment names; those rows are dropped after the merge.
func validGradeTitle(title string) bool {
	name := strings.ToLower(strings.TrimSpace(title))
	return name != "" && name != "n/a" && name != "null" && name != "undefined"
}

func filterValidGradeRecords(items []internal.Item) []internal.Item {
	out := make([]internal.Item, 0, len(items))
	for _, item := range items {
		if validGradeTitle(item.String("assignment")) {
			out = append(out, item)
		}
	}
	return out
}

func filterValidNewGradeRecords(items []NewItem) []NewItem {
	out := make([]NewItem, 0, len(items))
	for _, item := range items {
		if validGradeTitle(item.Title) {
			out = append(out, item)
		}
	}
	return out
}

func unionKeys(existing, added []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(added))
	out := make([]string, 0, len(existing)+len(added))
	for _, key := range append(append([]string{}, existing...), added...) {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
