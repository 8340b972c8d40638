package extractor

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// contentLimit caps announcement bodies so briefing documents stay small.
const contentLimit = 500

// ParsedEmail is the source-specific interpretation of one message. Which
// fields are set depends on Type.
type ParsedEmail struct {
	Source     string
	Type       string
	Course     string
	Title      string
	Content    string
	DueDate    string
	URL        string
	Assignment string
	Status     string
	Score      string
	IsStaff    bool
	IsPinned   bool
	Date       string
}

// Item types a parsed email can produce.
const (
	TypeAssignment   = "assignment"
	TypeAnnouncement = "announcement"
	TypeEdPost       = "edPost"
	TypeGradescope   = "gradescope"
)

var (
	// "20261_50386 PHYS-151: Fundamentals of Physics I - Announcements: Lab Meetings"
	reBrightspaceSubject = regexp.MustCompile(`(?i)^\d+_\d+\s+([A-Z]+-\d+[A-Z]*):\s*[^-]+-\s*([^:]+):\s*(.+)$`)

	reAssignmentSubject = regexp.MustCompile(`(?i)assignment|due|submission|quiz|exam`)
	reAnnounceSubject   = regexp.MustCompile(`(?i)announcement`)
	reGradeSubject      = regexp.MustCompile(`(?i)grade|feedback`)

	reDueDate        = regexp.MustCompile(`(?i)due\s*(?:date)?[:\s]*(\w+\s+\d{1,2},?\s*\d{4}|\d{1,2}/\d{1,2}/\d{2,4})`)
	reBrightspaceURL = regexp.MustCompile(`(?i)https?://[^\s<>"]+(?:brightspace|d2l)[^\s<>"]*`)

	reGradescopeGraded    = regexp.MustCompile(`(?i)graded|score|grade`)
	reGradescopeSubmitted = regexp.MustCompile(`(?i)submitted|submission`)
	reScore               = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:/|out of)\s*(\d+(?:\.\d+)?)`)
	reBracketCourse       = regexp.MustCompile(`^\[([^\]]+)\]`)
	reBracketPrefix       = regexp.MustCompile(`^\[[^\]]+\]\s*`)
	reBodyCourse          = regexp.MustCompile(`(?i)course[:\s]*([^,\n]+)`)

	// "CS104-Sp26: HW1 Coding Portion Available"
	reEdSubject    = regexp.MustCompile(`(?i)^([A-Z]+\d+[A-Z]*(?:-[A-Za-z0-9]+)?):\s*(.+)$`)
	reEdTermSuffix = regexp.MustCompile(`-[A-Za-z]+\d+$`)
	reEdStaffBody  = regexp.MustCompile(`(?i)staff|instructor|ta\s|teaching assistant`)
	reEdStaffSubj  = regexp.MustCompile(`(?i)\(staff\)|\(instructor\)`)
	reEdPinned     = regexp.MustCompile(`(?i)pinned|important`)
	reEdURL        = regexp.MustCompile(`(?i)https?://[^\s<>"]*edstem\.org[^\s<>"]*`)

	reAnyURL    = regexp.MustCompile(`(?i)https?://[^\s<>"]+`)
	reSIDate    = regexp.MustCompile(`(?i)(\w+day,?\s+\w+\s+\d{1,2}|\d{1,2}/\d{1,2})`)
	reSITime    = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*(?:am|pm)?(?:\s*-\s*\d{1,2}:\d{2}\s*(?:am|pm)?)?)`)
)

var dueDateTextLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"1/2/2006",
	"1/2/06",
}

// Parser interprets school emails source by source. The SI (supplemental
// instruction) sender has no machine-readable course in its messages, so it
// is pinned to a configured course.
type Parser struct {
	reSIFrom *regexp.Regexp
	siCourse string
}

func NewParser(siSender, siCourse string) *Parser {
	return &Parser{
		reSIFrom: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(siSender)),
		siCourse: siCourse,
	}
}

// Parse interprets a decoded message. It returns nil when the sender is not
// a known source or the message carries nothing briefing-worthy.
func (p *Parser) Parse(msg *ParsedMessage) *ParsedEmail {
	source := p.IdentifySource(msg.From)
	if source == "" {
		return nil
	}

	body := msg.Body
	if msg.AttachmentText != "" {
		body = strings.TrimSpace(body + "\n" + msg.AttachmentText)
	}

	switch source {
	case SourceBrightspace:
		return parseBrightspace(msg.Subject, body, msg.Date)
	case SourceGradescope:
		return parseGradescope(msg.Subject, body, msg.Date)
	case SourceEd:
		return parseEd(msg.Subject, body, msg.Date)
	case SourceSI:
		return p.parseSI(msg.Subject, body, msg.Date)
	}
	return nil
}

func parseBrightspace(subject, body, date string) *ParsedEmail {
	result := &ParsedEmail{
		Source: SourceBrightspace,
		Title:  subject,
		Date:   date,
	}

	if m := reBrightspaceSubject.FindStringSubmatch(subject); m != nil {
		result.Course = strings.TrimSpace(m[1])
		category := strings.ToLower(strings.TrimSpace(m[2]))
		result.Title = strings.TrimSpace(m[3])

		switch {
		case strings.Contains(category, "announcement"):
			result.Type = TypeAnnouncement
			result.Content = truncate(body, contentLimit)
		case strings.Contains(category, "assignment"), strings.Contains(category, "quiz"), strings.Contains(category, "exam"):
			result.Type = TypeAssignment
		case strings.Contains(category, "grade"), strings.Contains(category, "feedback"):
			result.Type = TypeGradescope
			result.Assignment = result.Title
			result.Status = "graded"
		default:
			result.Type = TypeAnnouncement
			result.Content = truncate(body, contentLimit)
		}
	} else {
		switch {
		case reAnnounceSubject.MatchString(subject):
			result.Type = TypeAnnouncement
			result.Content = truncate(body, contentLimit)
		case reAssignmentSubject.MatchString(subject):
			result.Type = TypeAssignment
		case reGradeSubject.MatchString(subject):
			result.Type = TypeGradescope
			result.Assignment = result.Title
			result.Status = "graded"
		}
	}

	if m := reDueDate.FindStringSubmatch(body); m != nil {
		if parsed, ok := parseDueDateText(m[1]); ok {
			result.DueDate = parsed
		}
	}
	if m := reBrightspaceURL.FindString(body); m != "" {
		result.URL = m
	}

	if result.Type == "" {
		return nil
	}
	return result
}

func parseGradescope(subject, body, date string) *ParsedEmail {
	result := &ParsedEmail{
		Source:     SourceGradescope,
		Type:       TypeGradescope,
		Assignment: subject,
		Status:     "pending",
		Date:       date,
	}

	if m := reBracketCourse.FindStringSubmatch(subject); m != nil {
		result.Course = strings.TrimSpace(m[1])
		result.Assignment = strings.TrimSpace(reBracketPrefix.ReplaceAllString(subject, ""))
	} else if m := reBodyCourse.FindStringSubmatch(body); m != nil {
		result.Course = strings.TrimSpace(m[1])
	}

	if reGradescopeGraded.MatchString(subject) || reGradescopeGraded.MatchString(body) {
		result.Status = "graded"
		if m := reScore.FindStringSubmatch(body); m != nil {
			result.Score = m[1] + "/" + m[2]
		}
	} else if reGradescopeSubmitted.MatchString(subject) {
		result.Status = "submitted"
	}

	return result
}

func parseEd(subject, body, date string) *ParsedEmail {
	result := &ParsedEmail{
		Source: SourceEd,
		Type:   TypeEdPost,
		Title:  subject,
		Date:   date,
	}

	if m := reEdSubject.FindStringSubmatch(subject); m != nil {
		fullCourse := strings.TrimSpace(m[1])
		result.Course = strings.TrimSpace(reEdTermSuffix.ReplaceAllString(fullCourse, ""))
		result.Title = strings.TrimSpace(m[2])
	} else if m := reBracketCourse.FindStringSubmatch(subject); m != nil {
		result.Course = strings.TrimSpace(m[1])
		result.Title = strings.TrimSpace(reBracketPrefix.ReplaceAllString(subject, ""))
	}

	if reEdStaffBody.MatchString(body) || reEdStaffSubj.MatchString(subject) {
		result.IsStaff = true
	}
	if reEdPinned.MatchString(subject) {
		result.IsPinned = true
	}
	if m := reEdURL.FindString(body); m != "" {
		result.URL = m
	}

	return result
}

func (p *Parser) parseSI(subject, body, date string) *ParsedEmail {
	result := &ParsedEmail{
		Source:  SourceSI,
		Type:    TypeAnnouncement,
		Course:  p.siCourse,
		Title:   "[SI] " + subject,
		Content: truncate(body, contentLimit),
		Date:    date,
	}

	if m := reAnyURL.FindString(body); m != "" {
		result.URL = m
	}

	dateMatch := reSIDate.FindString(body)
	timeMatch := reSITime.FindString(body)
	if dateMatch != "" || timeMatch != "" {
		var parts []string
		if dateMatch != "" {
			parts = append(parts, dateMatch)
		}
		if timeMatch != "" {
			parts = append(parts, timeMatch)
		}
		result.Content = "SI Session: " + strings.Join(parts, " at ") + "\n\n" + result.Content
	}

	return result
}

func parseDueDateText(value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dueDateTextLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("2006-01-02"), true
		}
	}
	return "", false
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
