package notes

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// DefaultSaveEvery is how often, in created notes, the collection is saved
const DefaultSaveEvery = 5

// Saver persists a snapshot, overwriting the previous one
type Saver interface {
	Save(ctx context.Context, s Snapshot) error
}

// Gate creates notes and saves the collection each time a new id is a
// multiple of every. The snapshot is taken after the new note is inserted,
// so the note that triggers the save is part of it. Saves are serialized:
// a snapshot is always written after every older one.
type Gate struct {
	mu     sync.Mutex // held from Snapshot to the end of Save
	notes  *Collection
	saver  Saver
	every  uint64
	logger *zap.SugaredLogger
}

func NewGate(c *Collection, s Saver, every uint64, l *zap.SugaredLogger) *Gate {
	if every == 0 {
		every = DefaultSaveEvery
	}
	if l == nil {
		l = zap.NewNop().Sugar()
	}

	return &Gate{
		notes:  c,
		saver:  s,
		every:  every,
		logger: l,
	}
}

// Create adds a note. The id is valid even if the save fails: durability is
// best effort and the error only reports it.
func (g *Gate) Create(ctx context.Context, header string, chat int64) (uint64, error) {
	id := g.notes.Create(header, chat)
	if id%g.every != 0 {
		return id, nil
	}

	g.logger.Debugw("saving notes", "id", id)
	return id, g.save(ctx)
}

// Flush saves the collection regardless of the counter
func (g *Gate) Flush(ctx context.Context) error {
	return g.save(ctx)
}

func (g *Gate) save(ctx context.Context) error {
	if g.saver == nil {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	s := g.notes.Snapshot()
	if err := g.saver.Save(ctx, s); err != nil {
		return fmt.Errorf("%w: failed saving %d notes: %w", ErrStorage, len(s.Notes), err)
	}
	return nil
}
