package notes

import (
	"strconv"
	"strings"
	"time"
)

const (
	txtNoDeadline = "none"
	numAvgNote    = 100
)

// A Note is a single task of a chat
type Note struct {
	ID       uint64
	Chat     int64
	Header   string
	Text     string
	State    State
	Deadline *time.Time // calendar date, UTC midnight
}

func newNote(id uint64, header string, chat int64) *Note {
	return &Note{
		ID:     id,
		Chat:   chat,
		Header: header,
		State:  StateToDo,
	}
}

// SetState changes the state from a text token. The state is left untouched
// if the token isn't recognized.
func (n *Note) SetState(token string) error {
	s, err := ParseState(token)
	if err != nil {
		return err
	}
	n.State = s
	return nil
}

// SetDeadline sets the deadline from a YYYY-MM-DD string, an empty string
// clears it. On a parse failure the deadline is left untouched.
func (n *Note) SetDeadline(txt string) error {
	if strings.TrimSpace(txt) == "" {
		n.Deadline = nil
		return nil
	}

	d, err := ParseDate(txt)
	if err != nil {
		return err
	}
	n.Deadline = &d
	return nil
}

func (n *Note) SetText(txt string) {
	n.Text = txt
}

func (n *Note) SetHeader(txt string) {
	n.Header = txt
}

// DeadlineString returns the deadline as YYYY-MM-DD or "none".
func (n *Note) DeadlineString() string {
	if n.Deadline == nil {
		return txtNoDeadline
	}
	return n.Deadline.Format(DateFormat)
}

// String renders the note as a message
func (n Note) String() string {
	var sb strings.Builder
	sb.Grow(numAvgNote + len(n.Header) + len(n.Text))

	sb.WriteString("[")
	sb.WriteString(strconv.FormatUint(n.ID, 10))
	sb.WriteString("] ")
	sb.WriteString(n.Header)
	sb.WriteString("\nState: ")
	sb.WriteString(n.State.String())
	sb.WriteString("\nDeadline: ")
	sb.WriteString(n.DeadlineString())
	if n.Text != "" {
		sb.WriteString("\n\n")
		sb.WriteString(n.Text)
	}

	return sb.String()
}

func (n *Note) clone() Note {
	c := *n
	if n.Deadline != nil {
		d := *n.Deadline
		c.Deadline = &d
	}
	return c
}
