package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"briefing/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS briefings (
  date TEXT PRIMARY KEY,
  summary TEXT,
  actionItems TEXT NOT NULL DEFAULT '[]',
  assignments TEXT NOT NULL DEFAULT '[]',
  announcements TEXT NOT NULL DEFAULT '[]',
  edPosts TEXT NOT NULL DEFAULT '[]',
  gradescope TEXT NOT NULL DEFAULT '[]',
  newItemKeys TEXT NOT NULL DEFAULT '[]',
  createdAt TEXT NOT NULL,
  updatedAt TEXT NOT NULL,
  lastSubmissionAt TEXT,
  lastEmailSyncAt TEXT,
  lastSeenAt TEXT
);

CREATE TABLE IF NOT EXISTS emails (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  messageId TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, messageId)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertBriefing(doc *internal.BriefingDocument) error {
	actionItems, err := marshalItems(doc.ActionItems)
	if err != nil {
		return err
	}
	assignments, err := marshalItems(doc.Assignments)
	if err != nil {
		return err
	}
	announcements, err := marshalItems(doc.Announcements)
	if err != nil {
		return err
	}
	edPosts, err := marshalItems(doc.EdPosts)
	if err != nil {
		return err
	}
	gradescope, err := marshalItems(doc.Gradescope)
	if err != nil {
		return err
	}
	newKeys, err := json.Marshal(doc.NewItemKeys)
	if err != nil {
		return err
	}

	_, err = d.conn.Exec(`
INSERT INTO briefings (date, summary, actionItems, assignments, announcements, edPosts, gradescope, newItemKeys, createdAt, updatedAt, lastSubmissionAt, lastEmailSyncAt, lastSeenAt)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(date) DO UPDATE SET
  summary=excluded.summary,
  actionItems=excluded.actionItems,
  assignments=excluded.assignments,
  announcements=excluded.announcements,
  edPosts=excluded.edPosts,
  gradescope=excluded.gradescope,
  newItemKeys=excluded.newItemKeys,
  updatedAt=excluded.updatedAt,
  lastSubmissionAt=excluded.lastSubmissionAt,
  lastEmailSyncAt=excluded.lastEmailSyncAt,
  lastSeenAt=excluded.lastSeenAt
`, doc.Date, nullableString(string(doc.Summary)), string(actionItems), string(assignments), string(announcements), string(edPosts), string(gradescope), string(newKeys),
		doc.CreatedAt, doc.UpdatedAt, nullableString(doc.LastSubmissionAt), nullableString(doc.LastEmailSyncAt), nullableString(doc.LastSeenAt))
	return err
}

func (d *DB) GetBriefing(date string) (*internal.BriefingDocument, error) {
	row := d.conn.QueryRow(`
SELECT date, summary, actionItems, assignments, announcements, edPosts, gradescope, newItemKeys, createdAt, updatedAt, lastSubmissionAt, lastEmailSyncAt, lastSeenAt
FROM briefings WHERE date = ?
`, date)
	doc, err := scanBriefing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return doc, err
}

func (d *DB) LatestBriefing() (*internal.BriefingDocument, error) {
	row := d.conn.QueryRow(`
SELECT date, summary, actionItems, assignments, announcements, edPosts, gradescope, newItemKeys, createdAt, updatedAt, lastSubmissionAt, lastEmailSyncAt, lastSeenAt
FROM briefings ORDER BY date DESC LIMIT 1
`)
	doc, err := scanBriefing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return doc, err
}

func (d *DB) ListBriefings(limit int) ([]*internal.BriefingDocument, error) {
	rows, err := d.conn.Query(`
SELECT date, summary, actionItems, assignments, announcements, edPosts, gradescope, newItemKeys, createdAt, updatedAt, lastSubmissionAt, lastEmailSyncAt, lastSeenAt
FROM briefings ORDER BY date DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*internal.BriefingDocument
	for rows.Next() {
		doc, err := scanBriefing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// MarkBriefingSeen clears newItemKeys for a date. Returns false when the date
// has no document.
func (d *DB) MarkBriefingSeen(date string, now time.Time) (bool, error) {
	stamp := now.UTC().Format(time.RFC3339)
	result, err := d.conn.Exec(`
UPDATE briefings SET newItemKeys = '[]', lastSeenAt = ?, updatedAt = ? WHERE date = ?
`, stamp, stamp, date)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (d *DB) BriefingCount() (int, error) {
	var count int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM briefings`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBriefing(row rowScanner) (*internal.BriefingDocument, error) {
	var doc internal.BriefingDocument
	var summary, lastSubmission, lastEmailSync, lastSeen sql.NullString
	var actionItems, assignments, announcements, edPosts, gradescope, newKeys string

	if err := row.Scan(&doc.Date, &summary, &actionItems, &assignments, &announcements, &edPosts, &gradescope, &newKeys,
		&doc.CreatedAt, &doc.UpdatedAt, &lastSubmission, &lastEmailSync, &lastSeen); err != nil {
		return nil, err
	}

	if summary.Valid && summary.String != "" {
		doc.Summary = json.RawMessage(summary.String)
	}
	doc.LastSubmissionAt = lastSubmission.String
	doc.LastEmailSyncAt = lastEmailSync.String
	doc.LastSeenAt = lastSeen.String

	for _, pair := range []struct {
		raw  string
		dest *[]internal.Item
	}{
		{actionItems, &doc.ActionItems},
		{assignments, &doc.Assignments},
		{announcements, &doc.Announcements},
		{edPosts, &doc.EdPosts},
		{gradescope, &doc.Gradescope},
	} {
		if err := json.Unmarshal([]byte(pair.raw), pair.dest); err != nil {
			return nil, fmt.Errorf("decode briefing %s: %w", doc.Date, err)
		}
	}
	if err := json.Unmarshal([]byte(newKeys), &doc.NewItemKeys); err != nil {
		return nil, fmt.Errorf("decode briefing %s: %w", doc.Date, err)
	}

	return &doc, nil
}

func marshalItems(items []internal.Item) ([]byte, error) {
	if items == nil {
		items = []internal.Item{}
	}
	return json.Marshal(items)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func (d *DB) UpsertEmail(provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.EmailRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO emails (provider, messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.EmailRow{}, err
	}

	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, errors.New("failed to upsert email")
	}
	return *row, nil
}

func (d *DB) GetEmailByProviderMessageID(provider, messageID string) (*internal.EmailRow, error) {
	var row internal.EmailRow
	err := d.conn.QueryRow(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE provider = ? AND messageId = ?
`, provider, messageID).Scan(
		&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListEmailsByStatus(status string, limit int) ([]internal.EmailRow, error) {
	rows, err := d.conn.Query(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE status = ? ORDER BY receivedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.EmailRow
	for rows.Next() {
		var row internal.EmailRow
		if err := rows.Scan(&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateEmailStatus(emailID int, status string) error {
	_, err := d.conn.Exec(`UPDATE emails SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, emailID)
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
