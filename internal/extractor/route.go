package extractor

import (
	"briefing/internal"
)

// Route appends a parsed email to the submission under the right category.
// Assignments additionally spawn a follow-up action item so they show up on
// the task list without manual entry.
func Route(sub *internal.BriefingSubmission, parsed *ParsedEmail, today string) {
	if parsed == nil {
		return
	}

	switch parsed.Type {
	case TypeAssignment:
		sub.Assignments = append(sub.Assignments, internal.Item{
			"title":   parsed.Title,
			"course":  parsed.Course,
			"dueDate": parsed.DueDate,
			"status":  "pending",
			"url":     parsed.URL,
			"source":  "gmail",
		})
		sub.ActionItems = append(sub.ActionItems, internal.Item{
			"task":     "Complete " + parsed.Title,
			"priority": 2,
			"course":   parsed.Course,
			"dueDate":  parsed.DueDate,
			"source":   "gmail",
		})

	case TypeAnnouncement:
		sub.Announcements = append(sub.Announcements, internal.Item{
			"course":  parsed.Course,
			"title":   parsed.Title,
			"content": parsed.Content,
			"date":    today,
			"source":  "gmail",
		})

	case TypeEdPost:
		sub.EdPosts = append(sub.EdPosts, internal.Item{
			"course":   parsed.Course,
			"title":    parsed.Title,
			"isStaff":  parsed.IsStaff,
			"isPinned": parsed.IsPinned,
			"url":      parsed.URL,
			"source":   "gmail",
		})

	case TypeGradescope:
		sub.Gradescope = append(sub.Gradescope, internal.Item{
			"assignment": parsed.Assignment,
			"course":     parsed.Course,
			"status":     parsed.Status,
			"score":      parsed.Score,
			"source":     "gmail",
		})
	}
}
