package extractor

import (
	"fmt"
	"regexp"
	"time"
)

// Email sources the extractor knows how to handle.
const (
	SourceBrightspace = "brightspace"
	SourceGradescope  = "gradescope"
	SourceEd          = "ed"
	SourceSI          = "si"
)

var (
	reBrightspaceFrom = regexp.MustCompile(`(?i)brightspace|d2l\.com`)
	reGradescopeFrom  = regexp.MustCompile(`(?i)gradescope\.com`)
	reEdFrom          = regexp.MustCompile(`(?i)edstem\.org`)
)

// GmailQuery builds the Gmail search expression covering every supported
// sender since the given time. Read/unread state is not part of the query,
// the email ledger tracks what has been processed.
func GmailQuery(since time.Time, siSender string) string {
	return fmt.Sprintf("after:%d from:(brightspace OR gradescope.com OR edstem.org OR %s)", since.Unix(), siSender)
}

// IdentifySource maps a From header to a known source, or "" when the
// sender is not school-related.
func (p *Parser) IdentifySource(from string) string {
	switch {
	case reBrightspaceFrom.MatchString(from):
		return SourceBrightspace
	case reGradescopeFrom.MatchString(from):
		return SourceGradescope
	case reEdFrom.MatchString(from):
		return SourceEd
	case p.reSIFrom.MatchString(from):
		return SourceSI
	}
	return ""
}
