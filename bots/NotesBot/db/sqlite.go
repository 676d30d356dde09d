package db

import (
	"context"
	"database/sql"
	"time"

	"notesbot/bots/NotesBot/notes"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS notes (
	id       INTEGER PRIMARY KEY,
	chat_id  INTEGER NOT NULL,
	header   TEXT NOT NULL,
	body     TEXT NOT NULL DEFAULT '',
	state    TEXT NOT NULL,
	deadline TEXT
);
CREATE TABLE IF NOT EXISTS note_counter (
	id      INTEGER PRIMARY KEY,
	next_id INTEGER NOT NULL
);`

// SQLite keeps the snapshot in a local SQLite database
type SQLite struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLite(ctx context.Context, path string, timeout time.Duration) (*SQLite, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed opening database")
	}
	// one writer at a time, the notes are saved from a single place anyway
	d.SetMaxOpenConns(1)

	if _, err = d.ExecContext(ctx, sqliteSchema); err != nil {
		d.Close()
		return nil, errors.Wrap(err, "failed creating tables")
	}

	return &SQLite{db: d, timeout: timeout}, nil
}

func (d *SQLite) Save(ctx context.Context, s notes.Snapshot) error {
	ctx, cancel := withTimeout(ctx, d.timeout)
	defer cancel()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return errors.Wrap(err, "failed to clear notes")
	}

	for _, n := range s.Notes {
		rec := toRecord(n)
		deadline := sql.NullString{String: rec.Deadline, Valid: rec.Deadline != ""}

		if _, err = tx.ExecContext(ctx, `INSERT INTO notes(id, chat_id, header, body, state, deadline)
VALUES(?, ?, ?, ?, ?, ?)`, int64(rec.ID), rec.Chat, rec.Header, rec.Text, rec.State, deadline); err != nil {
			return errors.Wrapf(err, "failed to insert note %d", n.ID)
		}
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO note_counter(id, next_id) VALUES(1, ?)
ON CONFLICT(id) DO UPDATE SET next_id=excluded.next_id`, int64(s.NextID)); err != nil {
		return errors.Wrap(err, "failed to update counter")
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit")
	}
	return nil
}

func (d *SQLite) Load(ctx context.Context) (notes.Snapshot, error) {
	ctx, cancel := withTimeout(ctx, d.timeout)
	defer cancel()

	var s notes.Snapshot

	var nextID int64
	err := d.db.QueryRowContext(ctx, `SELECT next_id FROM note_counter WHERE id=1`).Scan(&nextID)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return notes.Snapshot{}, errors.Wrap(err, "failed fetching counter")
	default:
		s.NextID = uint64(nextID)
	}

	rows, err := d.db.QueryContext(ctx, `SELECT id, chat_id, header, body, state, deadline
FROM notes
ORDER BY id ASC`)
	if err != nil {
		return notes.Snapshot{}, errors.Wrap(err, "failed querying notes")
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var rec noteRecord
		var deadline sql.NullString

		if err = rows.Scan(&id, &rec.Chat, &rec.Header, &rec.Text, &rec.State, &deadline); err != nil {
			return notes.Snapshot{}, errors.Wrap(err, "failed scanning note")
		}
		rec.ID = uint64(id)
		rec.Deadline = deadline.String

		n, err := rec.toNote()
		if err != nil {
			return notes.Snapshot{}, err
		}
		s.Notes = append(s.Notes, n)
	}

	if err = rows.Err(); err != nil {
		return notes.Snapshot{}, errors.Wrap(err, "failed reading notes")
	}
	return s, nil
}

func (d *SQLite) Close() error {
	return d.db.Close()
}
