package notesbot

import (
	"context"
	"fmt"
	"io"

	"notesbot/bot"
	"notesbot/bots/NotesBot/db"

	"github.com/pkg/errors"
)

// Dump writes the stored notes to w in id order
func Dump(ctx context.Context, cfg bot.Config, w io.Writer) error {
	c, err := loadConfig(cfg)
	if err != nil {
		return err
	}

	s, err := db.Open(ctx, c.Storage)
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "couldn't load notes")
	}

	fmt.Fprintf(w, "%d notes, next id %d\n", len(snap.Notes), snap.NextID)
	for _, n := range snap.Notes {
		fmt.Fprintf(w, "\nchat %d\n%s\n", n.Chat, n)
	}
	return nil
}
