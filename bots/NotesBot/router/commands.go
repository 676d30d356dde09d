package router

import (
	"strings"
)

// Kind is a command variant
type Kind int

const (
	Help Kind = iota
	Create
	SetState
	SetDead
	Edit
	EditName
	Delete
	Show
	List
	ListAll
	Agenda
)

// Command is a parsed chat command. ID is used by commands addressing a
// note, Arg holds the header, state token, date or text.
type Command struct {
	Kind Kind
	ID   uint64
	Arg  string
}

// Description is a line of the help message
type Description struct {
	Kind  Kind
	Name  string
	Usage string
	Text  string
}

var Descriptions = []Description{
	{Help, "help", "", "display this text."},
	{Create, "create", "<name>", "create task with <name>."},
	{SetState, "setstate", "<id> <ToDo | Doing | Done>", "set task with <id> to state."},
	{SetDead, "setdead", "<id> [yyyy-mm-dd]", "set task with <id> deadline, no date clears it."},
	{Edit, "edit", "<id> <text>", "set task with <id> text to <text>."},
	{EditName, "editname", "<id> <name>", "set task with <id> name to <name>."},
	{Delete, "delete", "<id>", "delete task with <id>."},
	{Show, "show", "<id>", "show task with <id>."},
	{List, "list", "", "list ToDo and Doing tasks."},
	{ListAll, "listall", "", "list all tasks."},
	{Agenda, "agenda", "", "list all tasks for next week."},
}

// Lookup finds a command description by its name
func Lookup(name string) (Description, bool) {
	name = strings.ToLower(name)
	for _, d := range Descriptions {
		if d.Name == name {
			return d, true
		}
	}
	return Description{}, false
}

func (k Kind) String() string {
	for _, d := range Descriptions {
		if d.Kind == k {
			return d.Name
		}
	}
	return "unknown"
}

// helpText lists every command
func helpText() string {
	var sb strings.Builder
	sb.WriteString("These commands are supported:")
	for _, d := range Descriptions {
		sb.WriteString("\n/")
		sb.WriteString(d.Name)
		if d.Usage != "" {
			sb.WriteString(" ")
			sb.WriteString(d.Usage)
		}
		sb.WriteString(" - ")
		sb.WriteString(d.Text)
	}
	return sb.String()
}
