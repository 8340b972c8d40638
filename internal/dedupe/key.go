package dedupe

import "briefing/internal"

// Deduper derives deduplication fingerprints and merges item collections.
// Both the ingestion path and the presentation API go through the same
// instance, so the two sides can never disagree about what counts as a
// duplicate.
type Deduper struct {
	courses *CourseNormalizer
	titles  *TitleNormalizer
}

func NewDeduper() *Deduper {
	return &Deduper{
		courses: NewCourseNormalizer(DefaultCourseAliases),
		titles:  NewTitleNormalizer(DefaultVerbPrefixes, DefaultBracketLabels),
	}
}

func (d *Deduper) NormalizeCourse(raw string) string { return d.courses.Normalize(raw) }
func (d *Deduper) NormalizeTitle(raw string) string  { return d.titles.Normalize(raw) }

// ItemKey derives the fingerprint identifying a real-world item within one
// category, regardless of surface text differences. Items missing the title
// field normalize to an empty title, so two untitled items sharing a course
// collapse deliberately.
func (d *Deduper) ItemKey(item internal.Item, titleField string) string {
	return d.titles.Normalize(item.String(titleField)) + "-" + d.courses.Normalize(item.String("course"))
}
