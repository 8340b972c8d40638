package extractor

import (
	"testing"

	"briefing/internal"
)

func TestRouteAssignmentSpawnsActionItem(t *testing.T) {
	sub := &internal.BriefingSubmission{}

	Route(sub, &ParsedEmail{
		Type:    TypeAssignment,
		Title:   "HW 3",
		Course:  "CSCI-104",
		DueDate: "2025-01-18",
	}, "2025-01-15")

	if len(sub.Assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(sub.Assignments))
	}
	if len(sub.ActionItems) != 1 {
		t.Fatalf("expected 1 action item, got %d", len(sub.ActionItems))
	}
	if got := sub.ActionItems[0].String("task"); got != "Complete HW 3" {
		t.Errorf("task = %q, want Complete HW 3", got)
	}
	if got := sub.ActionItems[0]["priority"]; got != 2 {
		t.Errorf("priority = %v, want 2", got)
	}
	if got := sub.Assignments[0].String("status"); got != "pending" {
		t.Errorf("status = %q, want pending", got)
	}
}

func TestRouteCategories(t *testing.T) {
	sub := &internal.BriefingSubmission{}

	Route(sub, &ParsedEmail{Type: TypeAnnouncement, Title: "Lab Meetings", Course: "PHYS-151", Content: "starts next week"}, "2025-01-15")
	Route(sub, &ParsedEmail{Type: TypeEdPost, Title: "HW1 Available", Course: "CS104", IsPinned: true}, "2025-01-15")
	Route(sub, &ParsedEmail{Type: TypeGradescope, Assignment: "HW 2", Course: "CSCI 104", Status: "graded", Score: "47.5/50"}, "2025-01-15")
	Route(sub, nil, "2025-01-15")

	if len(sub.Announcements) != 1 || len(sub.EdPosts) != 1 || len(sub.Gradescope) != 1 {
		t.Fatalf("unexpected category counts: %d %d %d", len(sub.Announcements), len(sub.EdPosts), len(sub.Gradescope))
	}
	if got := sub.Announcements[0].String("date"); got != "2025-01-15" {
		t.Errorf("announcement date = %q", got)
	}
	if got := sub.EdPosts[0]["isPinned"]; got != true {
		t.Errorf("isPinned = %v", got)
	}
	if got := sub.Gradescope[0].String("score"); got != "47.5/50" {
		t.Errorf("score = %q", got)
	}
}
