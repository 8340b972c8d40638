package internal

import "encoding/json"

// Item is one entry in a briefing category. Items arrive as free-form JSON
// objects (from the browser agent or from parsed emails); unknown fields must
// survive a merge untouched, so the representation stays schemaless.
type Item map[string]any

// String returns the named field as a string, or "" when absent or non-string.
func (i Item) String(field string) string {
	v, _ := i[field].(string)
	return v
}

// Clone returns a shallow copy of the item.
func (i Item) Clone() Item {
	out := make(Item, len(i))
	for k, v := range i {
		out[k] = v
	}
	return out
}

// Category identifies one of the five briefing collections.
type Category string

const (
	CategoryActionItems   Category = "actionItems"
	CategoryAssignments   Category = "assignments"
	CategoryAnnouncements Category = "announcements"
	CategoryEdPosts       Category = "edPosts"
	CategoryGradescope    Category = "gradescope"
)

// Categories lists all categories in the order their new-item keys are
// flattened into newItemKeys. The order is a fixed convention.
var Categories = []Category{
	CategoryAssignments,
	CategoryActionItems,
	CategoryAnnouncements,
	CategoryEdPosts,
	CategoryGradescope,
}

// TitleField names the field carrying an item's display title, which varies
// by category and drives fingerprint derivation.
func (c Category) TitleField() string {
	switch c {
	case CategoryActionItems:
		return "task"
	case CategoryGradescope:
		return "assignment"
	default:
		return "title"
	}
}

// BriefingDocument is the persisted daily briefing, one per calendar date.
type BriefingDocument struct {
	Date             string          `json:"date"`
	Summary          json.RawMessage `json:"summary,omitempty"`
	ActionItems      []Item          `json:"actionItems"`
	Assignments      []Item          `json:"assignments"`
	Announcements    []Item          `json:"announcements"`
	EdPosts          []Item          `json:"edPosts"`
	Gradescope       []Item          `json:"gradescope"`
	NewItemKeys      []string        `json:"newItemKeys"`
	CreatedAt        string          `json:"createdAt,omitempty"`
	UpdatedAt        string          `json:"updatedAt,omitempty"`
	LastSubmissionAt string          `json:"lastSubmissionAt,omitempty"`
	LastEmailSyncAt  string          `json:"lastEmailSyncAt,omitempty"`
	LastSeenAt       string          `json:"lastSeenAt,omitempty"`
}

func (d *BriefingDocument) Items(c Category) []Item {
	switch c {
	case CategoryActionItems:
		return d.ActionItems
	case CategoryAssignments:
		return d.Assignments
	case CategoryAnnouncements:
		return d.Announcements
	case CategoryEdPosts:
		return d.EdPosts
	case CategoryGradescope:
		return d.Gradescope
	}
	return nil
}

func (d *BriefingDocument) SetItems(c Category, items []Item) {
	switch c {
	case CategoryActionItems:
		d.ActionItems = items
	case CategoryAssignments:
		d.Assignments = items
	case CategoryAnnouncements:
		d.Announcements = items
	case CategoryEdPosts:
		d.EdPosts = items
	case CategoryGradescope:
		d.Gradescope = items
	}
}

// BriefingSubmission is the incoming payload shape shared by the HTTP
// submission endpoint and the email-scan path. Absent category arrays are
// treated as empty collections.
type BriefingSubmission struct {
	Date          string          `json:"date"`
	Summary       json.RawMessage `json:"summary,omitempty"`
	ActionItems   []Item          `json:"actionItems"`
	Assignments   []Item          `json:"assignments"`
	Announcements []Item          `json:"announcements"`
	EdPosts       []Item          `json:"edPosts"`
	Gradescope    []Item          `json:"gradescope"`
}

func (s *BriefingSubmission) Items(c Category) []Item {
	switch c {
	case CategoryActionItems:
		return s.ActionItems
	case CategoryAssignments:
		return s.Assignments
	case CategoryAnnouncements:
		return s.Announcements
	case CategoryEdPosts:
		return s.EdPosts
	case CategoryGradescope:
		return s.Gradescope
	}
	return nil
}

func (s *BriefingSubmission) Add(c Category, item Item) {
	switch c {
	case CategoryActionItems:
		s.ActionItems = append(s.ActionItems, item)
	case CategoryAssignments:
		s.Assignments = append(s.Assignments, item)
	case CategoryAnnouncements:
		s.Announcements = append(s.Announcements, item)
	case CategoryEdPosts:
		s.EdPosts = append(s.EdPosts, item)
	case CategoryGradescope:
		s.Gradescope = append(s.Gradescope, item)
	}
}

// Empty reports whether no category carries any item.
func (s *BriefingSubmission) Empty() bool {
	for _, c := range Categories {
		if len(s.Items(c)) > 0 {
			return false
		}
	}
	return true
}

// FetchedMailMessage is a raw message pulled from a mail provider.
type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

// EmailRow is one entry in the email-processing ledger.
type EmailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}
