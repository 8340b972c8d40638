package extractor

import (
	"strings"
	"testing"
)

func testParser() *Parser {
	return NewParser("suryadi@usc.edu", "MATH-226")
}

func TestIdentifySource(t *testing.T) {
	p := testParser()

	cases := []struct {
		from string
		want string
	}{
		{"Brightspace <no-reply@d2l.com>", "brightspace"},
		{"USC Brightspace <notifications@brightspace.usc.edu>", "brightspace"},
		{"Gradescope <no-reply@gradescope.com>", "gradescope"},
		{"Ed Discussion <notifications@edstem.org>", "ed"},
		{"Albert Suryadi <SURYADI@usc.edu>", "si"},
		{"Mom <mom@example.com>", ""},
	}

	for _, tc := range cases {
		if got := p.IdentifySource(tc.from); got != tc.want {
			t.Errorf("IdentifySource(%q) = %q, want %q", tc.from, got, tc.want)
		}
	}
}

func TestParseBrightspaceAnnouncement(t *testing.T) {
	p := testParser()

	msg := &ParsedMessage{
		Subject: "20261_50386 PHYS-151: Fundamentals of Physics I: Mechanics - Announcements: Lab Meetings",
		From:    "Brightspace <no-reply@d2l.com>",
		Date:    "Wed, 15 Jan 2025 07:00:00 -0800",
		Body:    "Lab meetings start next week. See https://usc.brightspace.com/d2l/home for details.",
	}

	got := p.Parse(msg)
	if got == nil {
		t.Fatal("expected parsed email, got nil")
	}
	if got.Type != TypeAnnouncement {
		t.Errorf("type = %q, want announcement", got.Type)
	}
	if got.Course != "PHYS-151" {
		t.Errorf("course = %q, want PHYS-151", got.Course)
	}
	if got.Title != "Lab Meetings" {
		t.Errorf("title = %q, want Lab Meetings", got.Title)
	}
	if !strings.Contains(got.Content, "Lab meetings start") {
		t.Errorf("content = %q", got.Content)
	}
	if !strings.Contains(got.URL, "brightspace.com") {
		t.Errorf("url = %q", got.URL)
	}
}

func TestParseBrightspaceAssignmentDueDate(t *testing.T) {
	p := testParser()

	msg := &ParsedMessage{
		Subject: "20261_50386 CSCI-104: Data Structures - Assignments: HW 3",
		From:    "no-reply@d2l.com",
		Body:    "A new assignment is available. Due date: January 18, 2025 at 11:59 PM.",
	}

	got := p.Parse(msg)
	if got == nil {
		t.Fatal("expected parsed email, got nil")
	}
	if got.Type != TypeAssignment {
		t.Errorf("type = %q, want assignment", got.Type)
	}
	if got.Course != "CSCI-104" {
		t.Errorf("course = %q, want CSCI-104", got.Course)
	}
	if got.Title != "HW 3" {
		t.Errorf("title = %q, want HW 3", got.Title)
	}
	if got.DueDate != "2025-01-18" {
		t.Errorf("dueDate = %q, want 2025-01-18", got.DueDate)
	}
}

func TestParseBrightspaceFallbackSubject(t *testing.T) {
	p := testParser()

	msg := &ParsedMessage{
		Subject: "Quiz 2 is now due Friday",
		From:    "no-reply@d2l.com",
		Body:    "Reminder that Quiz 2 closes Friday.",
	}

	got := p.Parse(msg)
	if got == nil {
		t.Fatal("expected parsed email, got nil")
	}
	if got.Type != TypeAssignment {
		t.Errorf("type = %q, want assignment", got.Type)
	}
	if got.Title != "Quiz 2 is now due Friday" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestParseBrightspaceIrrelevant(t *testing.T) {
	p := testParser()

	msg := &ParsedMessage{
		Subject: "Welcome to the new semester",
		From:    "no-reply@d2l.com",
		Body:    "We hope you have a great term.",
	}

	if got := p.Parse(msg); got != nil {
		t.Errorf("expected nil for unmatched subject, got %+v", got)
	}
}

func TestParseGradescopeGraded(t *testing.T) {
	p := testParser()

	msg := &ParsedMessage{
		Subject: "[CSCI 104] HW 2 has been graded",
		From:    "Gradescope <no-reply@gradescope.com>",
		Body:    "Your submission received a score of 47.5 / 50. View it on Gradescope.",
	}

	got := p.Parse(msg)
	if got == nil {
		t.Fatal("expected parsed email, got nil")
	}
	if got.Type != TypeGradescope {
		t.Errorf("type = %q, want gradescope", got.Type)
	}
	if got.Course != "CSCI 104" {
		t.Errorf("course = %q, want CSCI 104", got.Course)
	}
	if got.Assignment != "HW 2 has been graded" {
		t.Errorf("assignment = %q", got.Assignment)
	}
	if got.Status != "graded" {
		t.Errorf("status = %q, want graded", got.Status)
	}
	if got.Score != "47.5/50" {
		t.Errorf("score = %q, want 47.5/50", got.Score)
	}
}

func TestParseGradescopeSubmission(t *testing.T) {
	p := testParser()

	msg := &ParsedMessage{
		Subject: "HW 3 submitted",
		From:    "no-reply@gradescope.com",
		Body:    "Course: MATH 226\nThanks for submitting.",
	}

	got := p.Parse(msg)
	if got == nil {
		t.Fatal("expected parsed email, got nil")
	}
	if got.Course != "MATH 226" {
		t.Errorf("course = %q, want MATH 226", got.Course)
	}
	if got.Status != "submitted" {
		t.Errorf("status = %q, want submitted", got.Status)
	}
}

func TestParseEdPost(t *testing.T) {
	p := testParser()

	msg := &ParsedMessage{
		Subject: "CS104-Sp26: HW1 Coding Portion Available (Staff)",
		From:    "Ed Discussion <notifications@edstem.org>",
		Body:    "A new pinned post: https://edstem.org/us/courses/123/discussion/456",
	}

	got := p.Parse(msg)
	if got == nil {
		t.Fatal("expected parsed email, got nil")
	}
	if got.Type != TypeEdPost {
		t.Errorf("type = %q, want edPost", got.Type)
	}
	if got.Course != "CS104" {
		t.Errorf("course = %q, want CS104", got.Course)
	}
	if got.Title != "HW1 Coding Portion Available (Staff)" {
		t.Errorf("title = %q", got.Title)
	}
	if !got.IsStaff {
		t.Error("expected isStaff")
	}
	if !strings.Contains(got.URL, "edstem.org") {
		t.Errorf("url = %q", got.URL)
	}
}

func TestParseSISession(t *testing.T) {
	p := testParser()

	msg := &ParsedMessage{
		Subject: "Exam review this week",
		From:    "suryadi@usc.edu",
		Body:    "We will meet Tuesday, January 14 from 5:00 pm - 6:30 pm in GFS 106. Practice problems attached.",
	}

	got := p.Parse(msg)
	if got == nil {
		t.Fatal("expected parsed email, got nil")
	}
	if got.Type != TypeAnnouncement {
		t.Errorf("type = %q, want announcement", got.Type)
	}
	if got.Course != "MATH-226" {
		t.Errorf("course = %q, want MATH-226", got.Course)
	}
	if got.Title != "[SI] Exam review this week" {
		t.Errorf("title = %q", got.Title)
	}
	if !strings.HasPrefix(got.Content, "SI Session: ") {
		t.Errorf("content should lead with session info, got %q", got.Content)
	}
}

func TestContentTruncation(t *testing.T) {
	p := testParser()

	msg := &ParsedMessage{
		Subject: "Weekly update",
		From:    "suryadi@usc.edu",
		Body:    strings.Repeat("x", 2000),
	}

	got := p.Parse(msg)
	if got == nil {
		t.Fatal("expected parsed email, got nil")
	}
	if len(got.Content) > contentLimit {
		t.Errorf("content length %d exceeds limit", len(got.Content))
	}
}

func TestDecodeMessagePlainText(t *testing.T) {
	raw := []byte("From: Gradescope <no-reply@gradescope.com>\r\n" +
		"To: student@usc.edu\r\n" +
		"Subject: HW 2 has been graded\r\n" +
		"Date: Wed, 15 Jan 2025 07:00:00 -0800\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Your submission received a score of 47.5 / 50.\r\n")

	msg, err := DecodeMessage(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Subject != "HW 2 has been graded" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.From, "gradescope.com") {
		t.Errorf("from = %q", msg.From)
	}
	if !strings.Contains(msg.Body, "47.5 / 50") {
		t.Errorf("body = %q", msg.Body)
	}
}

func TestDecodeMessageHTMLFallback(t *testing.T) {
	raw := []byte("From: no-reply@d2l.com\r\n" +
		"Subject: 20261_50386 PHYS-151: Physics I - Announcements: Lab Meetings\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><body><p>Lab meetings start <b>next week</b>.</p></body></html>\r\n")

	msg, err := DecodeMessage(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(msg.Body, "Lab meetings start next week") {
		t.Errorf("body = %q", msg.Body)
	}
	if strings.Contains(msg.Body, "<") {
		t.Errorf("body should not contain markup: %q", msg.Body)
	}
}
