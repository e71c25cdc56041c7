// Package sqlite provides the SQLite store driver, intended for single-node
// deployments and local development.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/thinktank/internal/profile"
	"github.com/hrygo/thinktank/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite database at the profile's DSN and applies the schema.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	// journal_mode=WAL keeps readers unblocked during turn appends.
	db, err := sql.Open("sqlite", profile.DSN+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}
	// modernc sqlite serializes writes itself; one connection avoids
	// SQLITE_BUSY churn under concurrent turns.
	db.SetMaxOpenConns(1)

	d := &DB{db: db, profile: profile}
	if err := d.migrate(context.Background()); err != nil {
		return nil, errors.Wrap(err, "failed to migrate schema")
	}
	return d, nil
}

func (d *DB) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS thread (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		participants TEXT NOT NULL DEFAULT '[]',
		created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
	);
	CREATE TABLE IF NOT EXISTS message (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		thread_id TEXT NOT NULL REFERENCES thread (id),
		speaker TEXT NOT NULL,
		text TEXT NOT NULL,
		created_ts BIGINT NOT NULL,
		confidence REAL
	);
	CREATE INDEX IF NOT EXISTS idx_message_thread_id ON message (thread_id);
	CREATE TABLE IF NOT EXISTS document (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		thread_id TEXT NOT NULL REFERENCES thread (id),
		name TEXT NOT NULL,
		text TEXT NOT NULL,
		created_ts BIGINT NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_document_thread_id ON document (thread_id);
	`
	_, err := d.db.ExecContext(ctx, schema)
	return err
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) GetThread(ctx context.Context, id string) (*store.Thread, error) {
	var thread store.Thread
	var participantsJSON string
	err := d.db.QueryRowContext(ctx,
		`SELECT id, title, participants FROM thread WHERE id = ?`, id,
	).Scan(&thread.ID, &thread.Title, &participantsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get thread %s", id)
	}
	if err := json.Unmarshal([]byte(participantsJSON), &thread.Participants); err != nil {
		return nil, errors.Wrapf(err, "corrupt participants for thread %s", id)
	}

	if thread.Messages, err = d.listMessages(ctx, id); err != nil {
		return nil, err
	}
	if thread.Docs, err = d.listDocs(ctx, id); err != nil {
		return nil, err
	}
	return &thread, nil
}

func (d *DB) CreateThread(ctx context.Context, thread *store.Thread) error {
	participantsJSON, err := json.Marshal(thread.Participants)
	if err != nil {
		return errors.Wrap(err, "failed to marshal participants")
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO thread (id, title, participants) VALUES (?, ?, ?)`,
		thread.ID, thread.Title, string(participantsJSON))
	return errors.Wrapf(err, "failed to create thread %s", thread.ID)
}

func (d *DB) SetParticipants(ctx context.Context, threadID string, participants []string) error {
	participantsJSON, err := json.Marshal(participants)
	if err != nil {
		return errors.Wrap(err, "failed to marshal participants")
	}
	_, err = d.db.ExecContext(ctx,
		`UPDATE thread SET participants = ? WHERE id = ?`,
		string(participantsJSON), threadID)
	return errors.Wrapf(err, "failed to set participants for thread %s", threadID)
}

func (d *DB) AppendMessage(ctx context.Context, threadID string, msg store.Message) error {
	var confidence any
	if msg.Confidence != nil {
		confidence = *msg.Confidence
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO message (id, thread_id, speaker, text, created_ts, confidence) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, threadID, msg.Speaker, msg.Text, msg.CreatedTs, confidence)
	return errors.Wrapf(err, "failed to append message to thread %s", threadID)
}

func (d *DB) AddDoc(ctx context.Context, threadID string, doc store.Doc) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO document (id, thread_id, name, text, created_ts, enabled) VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, threadID, doc.Name, doc.Text, doc.CreatedTs, doc.Enabled)
	return errors.Wrapf(err, "failed to add doc to thread %s", threadID)
}

func (d *DB) SetDocEnabled(ctx context.Context, threadID, docID string, enabled bool) error {
	result, err := d.db.ExecContext(ctx,
		`UPDATE document SET enabled = ? WHERE thread_id = ? AND id = ?`,
		enabled, threadID, docID)
	if err != nil {
		return errors.Wrapf(err, "failed to update doc %s", docID)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.Errorf("doc %s not found in thread %s", docID, threadID)
	}
	return nil
}

func (d *DB) ClearDocs(ctx context.Context, threadID string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM document WHERE thread_id = ?`, threadID)
	return errors.Wrapf(err, "failed to clear docs for thread %s", threadID)
}

func (d *DB) listMessages(ctx context.Context, threadID string) ([]store.Message, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, speaker, text, created_ts, confidence FROM message WHERE thread_id = ? ORDER BY seq`, threadID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list messages for thread %s", threadID)
	}
	defer rows.Close()

	var messages []store.Message
	for rows.Next() {
		var msg store.Message
		var confidence sql.NullFloat64
		if err := rows.Scan(&msg.ID, &msg.Speaker, &msg.Text, &msg.CreatedTs, &confidence); err != nil {
			return nil, errors.Wrap(err, "failed to scan message")
		}
		if confidence.Valid {
			msg.Confidence = &confidence.Float64
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (d *DB) listDocs(ctx context.Context, threadID string) ([]store.Doc, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, name, text, created_ts, enabled FROM document WHERE thread_id = ? ORDER BY seq`, threadID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list docs for thread %s", threadID)
	}
	defer rows.Close()

	var docs []store.Doc
	for rows.Next() {
		var doc store.Doc
		if err := rows.Scan(&doc.ID, &doc.Name, &doc.Text, &doc.CreatedTs, &doc.Enabled); err != nil {
			return nil, errors.Wrap(err, "failed to scan doc")
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

var _ store.Driver = (*DB)(nil)
