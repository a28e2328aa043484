package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateTestStore creates a throwaway SQLite store with the message schema
// (the subset of columns the decoders read). It lives in a per-test temp
// directory rather than in memory: the decoders run nested queries over
// pooled connections, and an in-memory database is private to a single
// connection.
func CreateTestStore(t *testing.T) *sql.DB {
	t.Helper()
	db, _ := CreateTestStoreFile(t)
	return db
}

// CreateTestStoreFile is CreateTestStore but also returns the on-disk path,
// for tests that open the store by path themselves.
func CreateTestStoreFile(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}

	schema := []string{
		`CREATE TABLE message (
			ROWID INTEGER PRIMARY KEY,
			guid TEXT NOT NULL,
			text TEXT,
			service TEXT,
			handle_id INTEGER DEFAULT 0,
			subject TEXT,
			date INTEGER DEFAULT 0,
			date_read INTEGER DEFAULT 0,
			date_delivered INTEGER DEFAULT 0,
			is_from_me INTEGER DEFAULT 0,
			is_read INTEGER DEFAULT 0,
			group_title TEXT,
			associated_message_guid TEXT,
			associated_message_type INTEGER DEFAULT 0,
			balloon_bundle_id TEXT,
			expressive_send_style_id TEXT,
			thread_originator_guid TEXT,
			thread_originator_part TEXT,
			payload_data BLOB
		)`,
		`CREATE TABLE chat_message_join (
			chat_id INTEGER,
			message_id INTEGER
		)`,
		`CREATE TABLE message_attachment_join (
			message_id INTEGER,
			attachment_id INTEGER
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			t.Fatalf("Failed to create schema: %v", err)
		}
	}

	t.Cleanup(func() { db.Close() })
	return db, path
}

// MessageRow is the seedable subset of a message row. Zero values map to
// sensible column defaults.
type MessageRow struct {
	RowID                 int
	GUID                  string
	Text                  *string
	Service               *string
	Date                  int64
	DateRead              int64
	DateDelivered         int64
	IsFromMe              bool
	AssociatedMessageGUID *string
	AssociatedMessageType int
	BalloonBundleID       *string
	ExpressiveSendStyleID *string
	ThreadOriginatorGUID  *string
	ThreadOriginatorPart  *string
	ChatID                *int
	Attachments           int
	PayloadData           []byte
}

// Str is a convenience for seeding nullable text columns.
func Str(s string) *string {
	return &s
}

// InsertMessage inserts a message row plus its chat join and attachment
// rows.
func InsertMessage(t *testing.T, db *sql.DB, row MessageRow) {
	t.Helper()

	fromMe := 0
	if row.IsFromMe {
		fromMe = 1
	}
	_, err := db.Exec(`INSERT INTO message (
			ROWID, guid, text, service, date, date_read, date_delivered,
			is_from_me, associated_message_guid, associated_message_type,
			balloon_bundle_id, expressive_send_style_id,
			thread_originator_guid, thread_originator_part, payload_data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.RowID, row.GUID, row.Text, row.Service,
		row.Date, row.DateRead, row.DateDelivered, fromMe,
		row.AssociatedMessageGUID, row.AssociatedMessageType,
		row.BalloonBundleID, row.ExpressiveSendStyleID,
		row.ThreadOriginatorGUID, row.ThreadOriginatorPart, row.PayloadData,
	)
	if err != nil {
		t.Fatalf("Failed to insert message %s: %v", row.GUID, err)
	}

	if row.ChatID != nil {
		if _, err := db.Exec(
			"INSERT INTO chat_message_join (chat_id, message_id) VALUES (?, ?)",
			*row.ChatID, row.RowID); err != nil {
			t.Fatalf("Failed to insert chat join for %s: %v", row.GUID, err)
		}
	}
	for i := 0; i < row.Attachments; i++ {
		if _, err := db.Exec(
			"INSERT INTO message_attachment_join (message_id, attachment_id) VALUES (?, ?)",
			row.RowID, i+1); err != nil {
			t.Fatalf("Failed to insert attachment join for %s: %v", row.GUID, err)
		}
	}
}
