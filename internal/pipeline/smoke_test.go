package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"briefing/internal/config"
	"briefing/internal/storage"
)

func TestSmokeEmailToBriefing(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rawSrc := filepath.Join("testdata", "brightspace_assignment.eml")
	rawBlob, err := os.ReadFile(rawSrc)
	if err != nil {
		t.Fatal(err)
	}
	rawPath := filepath.Join(tmp, "fixture.eml")
	if err := os.WriteFile(rawPath, rawBlob, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := db.UpsertEmail("gmail", "<fixture-1@example.com>", "HW 3", "no-reply@d2l.com", "2025-01-15T15:00:00Z", "hash", rawPath, "fetched"); err != nil {
		t.Fatal(err)
	}

	cfg, _ := config.Load()
	cfg.Timezone = "UTC"
	proc := NewProcessingService(db, cfg)

	res, err := proc.ProcessPending(10, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Processed != 1 {
		t.Fatalf("expected 1 processed email, got %d", res.Processed)
	}
	if res.NewItems == 0 {
		t.Fatal("expected new items from first scan")
	}

	today := time.Now().UTC().Format("2006-01-02")
	doc, err := db.GetBriefing(today)
	if err != nil {
		t.Fatal(err)
	}
	if doc == nil {
		t.Fatal("expected briefing for today")
	}
	if len(doc.Assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(doc.Assignments))
	}
	if len(doc.ActionItems) != 1 {
		t.Fatalf("expected 1 action item, got %d", len(doc.ActionItems))
	}
	if doc.LastEmailSyncAt == "" {
		t.Fatal("expected lastEmailSyncAt to be stamped")
	}

	// Second pass has nothing pending and must not change the document.
	res, err = proc.ProcessPending(10, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Processed != 0 {
		t.Fatalf("expected no reprocessing, got %d", res.Processed)
	}

	out := filepath.Join(tmp, "briefing.xlsx")
	if err := ExportBriefingToXLSX(doc, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}
}

func TestProcessPendingSkipsIrrelevant(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	raw := []byte("From: Mom <mom@example.com>\r\n" +
		"Subject: dinner sunday?\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Are you coming home this weekend?\r\n")
	rawPath := filepath.Join(tmp, "personal.eml")
	if err := os.WriteFile(rawPath, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := db.UpsertEmail("gmail", "<personal-1@example.com>", "dinner sunday?", "mom@example.com", "2025-01-15T15:00:00Z", "hash2", rawPath, "fetched"); err != nil {
		t.Fatal(err)
	}

	cfg, _ := config.Load()
	cfg.Timezone = "UTC"
	proc := NewProcessingService(db, cfg)

	res, err := proc.ProcessPending(10, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped != 1 {
		t.Fatalf("expected 1 skipped, got %d", res.Skipped)
	}

	rows, err := db.ListEmailsByStatus("skipped", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected skipped ledger row, got %d", len(rows))
	}
}
