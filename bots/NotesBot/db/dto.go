package db

import (
	"notesbot/bots/NotesBot/notes"

	"github.com/pkg/errors"
)

// noteRecord is the stored form of a note. State and deadline are kept as
// text so every backend reads the same values.
type noteRecord struct {
	ID       uint64 `json:"id" yaml:"id"`
	Chat     int64  `json:"chat" yaml:"chat"`
	Header   string `json:"header" yaml:"header"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	State    string `json:"state" yaml:"state"`
	Deadline string `json:"deadline,omitempty" yaml:"deadline,omitempty"` // YYYY-MM-DD
}

type snapshotRecord struct {
	NextID uint64       `json:"next_id" yaml:"next_id"`
	Notes  []noteRecord `json:"notes" yaml:"notes"`
}

func toRecord(n notes.Note) noteRecord {
	r := noteRecord{
		ID:     n.ID,
		Chat:   n.Chat,
		Header: n.Header,
		Text:   n.Text,
		State:  n.State.String(),
	}
	if n.Deadline != nil {
		r.Deadline = n.Deadline.Format(notes.DateFormat)
	}
	return r
}

func (r noteRecord) toNote() (notes.Note, error) {
	n := notes.Note{
		ID:     r.ID,
		Chat:   r.Chat,
		Header: r.Header,
		Text:   r.Text,
	}

	if err := n.SetState(r.State); err != nil {
		return notes.Note{}, errors.Wrapf(err, "note %d", r.ID)
	}
	if err := n.SetDeadline(r.Deadline); err != nil {
		return notes.Note{}, errors.Wrapf(err, "note %d", r.ID)
	}
	return n, nil
}

func toSnapshotRecord(s notes.Snapshot) snapshotRecord {
	r := snapshotRecord{
		NextID: s.NextID,
		Notes:  make([]noteRecord, 0, len(s.Notes)),
	}
	for _, n := range s.Notes {
		r.Notes = append(r.Notes, toRecord(n))
	}
	return r
}

func (r snapshotRecord) toSnapshot() (notes.Snapshot, error) {
	s := notes.Snapshot{
		NextID: r.NextID,
		Notes:  make([]notes.Note, 0, len(r.Notes)),
	}
	for _, rec := range r.Notes {
		n, err := rec.toNote()
		if err != nil {
			return notes.Snapshot{}, err
		}
		s.Notes = append(s.Notes, n)
	}
	return s, nil
}
