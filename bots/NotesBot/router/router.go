package router

import (
	"context"
	"strings"
	"time"

	"notesbot/bots/NotesBot/notes"

	"github.com/jmhodges/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	txtOk             = "Ok:)"
	txtStateChanged   = "State changed"
	txtUnknownID      = "Unknown id"
	txtInvalidDate    = "Invalid date format"
	txtInvalidState   = "Invalid state"
	txtUnknownCommand = "Unknown command. Use /help to list supported commands"
	txtSomethingWrong = "Oops, something went wrong"

	noDeadline = "none"
)

// Reply holds the messages to send back, in order. Err tells why a command
// failed, if it did; the failure is already described in Texts.
type Reply struct {
	Texts []string
	Err   error
}

func reply(texts ...string) Reply {
	return Reply{Texts: texts}
}

func failure(err error, texts ...string) Reply {
	return Reply{Texts: texts, Err: err}
}

// Router runs one command against the collection. It keeps no state between
// calls.
type Router struct {
	notes  *notes.Collection
	gate   *notes.Gate
	clk    clock.Clock
	loc    *time.Location
	logger *zap.SugaredLogger
}

func New(c *notes.Collection, g *notes.Gate, clk clock.Clock, loc *time.Location, l *zap.SugaredLogger) *Router {
	if clk == nil {
		clk = clock.New()
	}
	if loc == nil {
		loc = time.UTC
	}
	if l == nil {
		l = zap.NewNop().Sugar()
	}

	return &Router{
		notes:  c,
		gate:   g,
		clk:    clk,
		loc:    loc,
		logger: l,
	}
}

// Route executes cmd on behalf of chat
func (r *Router) Route(ctx context.Context, chat int64, cmd Command) Reply {
	switch cmd.Kind {
	case Help:
		return reply(helpText())

	case Create:
		id, err := r.gate.Create(ctx, cmd.Arg, chat)
		if err != nil {
			// the note exists, only the save failed
			r.logger.Errorw("failed saving notes", "chat", chat, "id", id, "err", err)
			return failure(err, txtOk)
		}
		r.logger.Debugw("note created", "chat", chat, "id", id)
		return reply(txtOk)

	case SetState:
		if _, err := notes.ParseState(cmd.Arg); err != nil {
			return failure(err, txtInvalidState)
		}
		return r.update(chat, cmd.ID, func(n *notes.Note) error {
			return n.SetState(cmd.Arg)
		})

	case SetDead:
		if !isNoDeadline(cmd.Arg) {
			if _, err := notes.ParseDate(cmd.Arg); err != nil {
				return failure(err, txtInvalidDate)
			}
		}
		return r.update(chat, cmd.ID, func(n *notes.Note) error {
			if isNoDeadline(cmd.Arg) {
				return n.SetDeadline("")
			}
			return n.SetDeadline(cmd.Arg)
		})

	case Edit:
		return r.update(chat, cmd.ID, func(n *notes.Note) error {
			n.SetText(cmd.Arg)
			return nil
		})

	case EditName:
		return r.update(chat, cmd.ID, func(n *notes.Note) error {
			n.SetHeader(cmd.Arg)
			return nil
		})

	case Delete:
		if n, ok := r.notes.Get(cmd.ID); ok && n.Chat == chat {
			r.notes.Delete(cmd.ID)
		}
		return reply(txtOk)

	case Show:
		n, ok := r.notes.Get(cmd.ID)
		if !ok || n.Chat != chat {
			return failure(notes.ErrNotFound, txtUnknownID)
		}
		return reply(n.String())

	case List:
		return render(r.notes.ListByChat(chat))

	case ListAll:
		return render(r.notes.ListByChatAll(chat))

	case Agenda:
		return render(r.notes.Agenda(chat, r.today()))
	}

	return failure(errors.Errorf("unknown command kind %d", cmd.Kind), txtUnknownCommand)
}

// update applies f to the chat's note. Notes of other chats are unknown.
func (r *Router) update(chat int64, id uint64, f func(n *notes.Note) error) Reply {
	err := r.notes.Update(id, func(n *notes.Note) error {
		if n.Chat != chat {
			return notes.ErrNotFound
		}
		return f(n)
	})

	switch {
	case err == nil:
		return reply(txtStateChanged)
	case errors.Is(err, notes.ErrNotFound):
		return failure(err, txtUnknownID)
	case errors.Is(err, notes.ErrInvalidState):
		return failure(err, txtInvalidState)
	case errors.Is(err, notes.ErrInvalidDate):
		return failure(err, txtInvalidDate)
	}
	return failure(err, txtSomethingWrong)
}

// today is the current date in the bot's time zone
func (r *Router) today() time.Time {
	return r.clk.Now().In(r.loc)
}

// render sends a message per note followed by a final "Ok:)"
func render(list []notes.Note) Reply {
	texts := make([]string, 0, len(list)+1)
	for _, n := range list {
		texts = append(texts, n.String())
	}
	return reply(append(texts, txtOk)...)
}

func isNoDeadline(arg string) bool {
	arg = strings.TrimSpace(arg)
	return arg == "" || strings.EqualFold(arg, noDeadline)
}
