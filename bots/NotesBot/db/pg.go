package db

import (
	"context"
	"time"

	"notesbot/bots/NotesBot/notes"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

/**
DB tables:
- notes:
	- id: bigint - note ID, primary key
	- chat_id: bigint - owner chat
	- header: text - note name
	- body: text - note text
	- state: text - ToDo, Doing or Done
	- deadline: date - optional deadline

- note_counter (single row):
	- id: smallint - always 1
	- next_id: bigint - ID of the next created note
*/

const pgSchema = `CREATE TABLE IF NOT EXISTS notes (
	id       BIGINT PRIMARY KEY,
	chat_id  BIGINT NOT NULL,
	header   TEXT NOT NULL,
	body     TEXT NOT NULL DEFAULT '',
	state    TEXT NOT NULL,
	deadline DATE
);
CREATE TABLE IF NOT EXISTS note_counter (
	id      SMALLINT PRIMARY KEY,
	next_id BIGINT NOT NULL
);`

// pgConn is the part of pgxpool.Pool the storage uses
type pgConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PG keeps the snapshot in PostgreSQL
type PG struct {
	conn    pgConn
	timeout time.Duration
}

func NewPG(ctx context.Context, connStr string, timeout time.Duration) (*PG, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, errors.Wrap(err, "failed connecting to database")
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed pinging database")
	}

	if _, err = pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed creating tables")
	}

	return newPG(pool, timeout), nil
}

func newPG(conn pgConn, timeout time.Duration) *PG {
	return &PG{conn: conn, timeout: timeout}
}

// Save replaces the stored notes and counter in one transaction
func (d *PG) Save(ctx context.Context, s notes.Snapshot) error {
	ctx, cancel := withTimeout(ctx, d.timeout)
	defer cancel()

	tx, err := d.conn.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `DELETE FROM notes`); err != nil {
		return errors.Wrap(err, "failed to clear notes")
	}

	for _, n := range s.Notes {
		var deadline pgtype.Date
		if n.Deadline != nil {
			deadline = pgtype.Date{Time: *n.Deadline, Valid: true}
		}

		if _, err = tx.Exec(ctx, `INSERT INTO notes(id, chat_id, header, body, state, deadline)
VALUES($1, $2, $3, $4, $5, $6)`, int64(n.ID), n.Chat, n.Header, n.Text, n.State.String(), deadline); err != nil {
			return errors.Wrapf(err, "failed to insert note %d", n.ID)
		}
	}

	if _, err = tx.Exec(ctx, `INSERT INTO note_counter(id, next_id) VALUES(1, $1)
ON CONFLICT (id) DO UPDATE SET next_id=EXCLUDED.next_id`, int64(s.NextID)); err != nil {
		return errors.Wrap(err, "failed to update counter")
	}

	if err = tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit")
	}
	return nil
}

func (d *PG) Load(ctx context.Context) (notes.Snapshot, error) {
	ctx, cancel := withTimeout(ctx, d.timeout)
	defer cancel()

	var s notes.Snapshot

	var nextID int64
	err := d.conn.QueryRow(ctx, `SELECT next_id FROM note_counter WHERE id=1`).Scan(&nextID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return notes.Snapshot{}, errors.Wrap(err, "failed fetching counter")
	default:
		s.NextID = uint64(nextID)
	}

	rows, err := d.conn.Query(ctx, `SELECT id, chat_id, header, body, state, deadline
FROM notes
ORDER BY id ASC`)
	if err != nil {
		return notes.Snapshot{}, errors.Wrap(err, "failed querying notes")
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var rec noteRecord
		var deadline pgtype.Date

		if err = rows.Scan(&id, &rec.Chat, &rec.Header, &rec.Text, &rec.State, &deadline); err != nil {
			return notes.Snapshot{}, errors.Wrap(err, "failed scanning note")
		}

		rec.ID = uint64(id)
		if deadline.Valid {
			rec.Deadline = deadline.Time.Format(notes.DateFormat)
		}

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

func (d *PG) Close() error {
	d.conn.Close()
	return nil
}
