package dedupe

import (
	"regexp"
	"strings"
)

// OtherCourse is the sentinel returned for items with no course at all.
const OtherCourse = "OTHER"

var (
	reSeparators   = regexp.MustCompile(`[\s-]+`)
	reLetterDigit  = regexp.MustCompile(`([A-Z]+)(\d)`)
	reTrailingDash = regexp.MustCompile(`-+$`)
)

// CourseAlias rewrites a known department-code variant to its canonical form.
// Patterns are applied against the already hyphen-normalized, uppercased code.
type CourseAlias struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// DefaultCourseAliases expands shorthand department codes the way course
// catalogs spell them. Ed notification emails say "CS104" for a course that is
// officially "CSCI-104", so CS- expands to CSCI-.
var DefaultCourseAliases = []CourseAlias{
	{Pattern: regexp.MustCompile(`^CS-(\d)`), Replacement: "CSCI-$1"},
}

// CourseNormalizer canonicalizes free-form course identifiers so that
// "Math 226", "MATH-226" and "MATH226" all compare equal.
type CourseNormalizer struct {
	aliases []CourseAlias
}

func NewCourseNormalizer(aliases []CourseAlias) *CourseNormalizer {
	return &CourseNormalizer{aliases: aliases}
}

// Normalize maps a raw course string to its canonical form. It never fails:
// empty input yields OtherCourse, and inputs with no letter/digit structure
// pass through uppercased and trimmed.
func (n *CourseNormalizer) Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return OtherCourse
	}

	normalized := strings.ToUpper(strings.TrimSpace(raw))

	// Runs of whitespace and hyphens become a single hyphen.
	normalized = reSeparators.ReplaceAllString(normalized, "-")

	// "MATH226" -> "MATH-226"; only the first letter/digit boundary.
	normalized = replaceFirst(reLetterDigit, normalized, "$1-$2")

	for _, alias := range n.aliases {
		normalized = alias.Pattern.ReplaceAllString(normalized, alias.Replacement)
	}

	return reTrailingDash.ReplaceAllString(normalized, "")
}

// replaceFirst applies the replacement template to the first match only.
func replaceFirst(re *regexp.Regexp, s, template string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	expanded := re.ExpandString(nil, template, s, loc)
	return s[:loc[0]] + string(expanded) + s[loc[1]:]
}
