package notes

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DateFormat is the only accepted deadline format
const DateFormat = "2006-01-02"

var (
	ErrNotFound     = errors.New("note not found")
	ErrInvalidState = errors.New("invalid state")
	ErrInvalidDate  = errors.New("invalid date format")
	ErrStorage      = errors.New("storage failure")
)

// State is a note's lifecycle stage
type State uint8

const (
	StateToDo State = iota
	StateDoing
	StateDone
)

var stateNames = [...]string{
	StateToDo:  "ToDo",
	StateDoing: "Doing",
	StateDone:  "Done",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// ParseState accepts "todo", "doing" and "done" in any letter case.
func ParseState(token string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "todo":
		return StateToDo, nil
	case "doing":
		return StateDoing, nil
	case "done":
		return StateDone, nil
	}
	return StateToDo, errors.Wrapf(ErrInvalidState, "%q", token)
}

// ParseDate parses a YYYY-MM-DD calendar date. The result is UTC midnight.
func ParseDate(txt string) (time.Time, error) {
	d, err := time.Parse(DateFormat, strings.TrimSpace(txt))
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "%q", txt)
	}
	return d, nil
}

// Day truncates t to its calendar date in t's location and returns it as UTC
// midnight, the representation used for deadlines.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
