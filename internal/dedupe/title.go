package dedupe

import (
	"regexp"
	"strings"
)

// DefaultVerbPrefixes are the leading verbs stripped from task and assignment
// titles before comparison ("Submit HW1" and "Complete HW1" are the same
// assignment).
var DefaultVerbPrefixes = []string{
	"submit", "complete", "finish", "do", "start", "work on", "turn in",
	"upload", "hand in", "deliver", "send", "post", "read", "review",
	"prepare", "watch", "attend",
}

// DefaultBracketLabels are the leading bracketed tags stripped from titles.
var DefaultBracketLabels = []string{"lab", "lecture", "discussion"}

var (
	reCoursePrefix = regexp.MustCompile(`(?i)^[A-Z]{2,4}[-\s]?\d{2,4}[A-Z]?\s+`)
	reParens       = regexp.MustCompile(`\s*\(.*\)\s*$`)
	reViaSuffix    = regexp.MustCompile(`(?i)\s+via\s+.*$`)
	reHomework     = regexp.MustCompile(`(?i)^(homework|hw)\s*(assignment)?\s*0*(\d+)`)
	reLab          = regexp.MustCompile(`(?i)^lab\s*0*(\d+).*$`)
	reProblemSet   = regexp.MustCompile(`(?i)^(problem\s*set|ps)\s*0*(\d+)`)
	reQuiz         = regexp.MustCompile(`(?i)^quiz\s*0*(\d+)`)
	reWhitespace   = regexp.MustCompile(`\s+`)
)

// TitleNormalizer canonicalizes free-form assignment and task titles for
// deduplication. The pipeline is a fixed stage order; each stage rewrites at
// most once, anchored to the start or end of the string, and falls through
// when its pattern does not match.
type TitleNormalizer struct {
	reBracket *regexp.Regexp
	reVerb    *regexp.Regexp
}

func NewTitleNormalizer(verbs, bracketLabels []string) *TitleNormalizer {
	return &TitleNormalizer{
		reBracket: regexp.MustCompile(`(?i)^\[(` + strings.Join(bracketLabels, "|") + `)\]\s*`),
		reVerb:    regexp.MustCompile(`(?i)^(` + strings.Join(verbs, "|") + `)\s+`),
	}
}

// Normalize lowers a raw title to its comparable form:
//
//	"Complete CS104 HW1 via GitHub" -> "hw1"
//	"[Lab] lab01 install dart"      -> "lab1"
//	"Homework 01"                   -> "hw1"
//
// It always returns a string; empty input normalizes to "".
func (n *TitleNormalizer) Normalize(raw string) string {
	normalized := strings.TrimSpace(raw)

	normalized = n.reBracket.ReplaceAllString(normalized, "")
	normalized = n.reVerb.ReplaceAllString(normalized, "")
	normalized = reCoursePrefix.ReplaceAllString(normalized, "")
	normalized = reParens.ReplaceAllString(normalized, "")
	normalized = reViaSuffix.ReplaceAllString(normalized, "")

	normalized = reHomework.ReplaceAllString(normalized, "hw$3")
	// Lab titles drop everything after the number; hw/ps/quiz keep trailing
	// text.
	normalized = reLab.ReplaceAllString(normalized, "lab$1")
	normalized = reProblemSet.ReplaceAllString(normalized, "ps$2")
	normalized = reQuiz.ReplaceAllString(normalized, "quiz$1")

	normalized = reWhitespace.ReplaceAllString(normalized, " ")
	return strings.ToLower(strings.TrimSpace(normalized))
}
