package tgbot

import (
	"strconv"
	"strings"
	"unicode"

	"notesbot/bots/NotesBot/router"

	"github.com/pkg/errors"
)

const cmdStart = "start"

var (
	errUnknownCommand = errors.New("unknown command")
	errNotNumber      = errors.New("first argument is not a number")
	errUsage          = errors.New("wrong arguments")
)

// ParseCommand turns the name and arguments of a Telegram command into a
// router command. Nothing but the syntax is checked here: states, dates and
// ids are validated by the router.
func ParseCommand(name, args string) (router.Command, error) {
	if strings.EqualFold(name, cmdStart) {
		return router.Command{Kind: router.Help}, nil
	}

	d, ok := router.Lookup(name)
	if !ok {
		return router.Command{}, errors.Wrap(errUnknownCommand, name)
	}

	cmd := router.Command{Kind: d.Kind}
	args = strings.TrimSpace(args)

	switch d.Kind {
	case router.Help, router.List, router.ListAll, router.Agenda:
		return cmd, nil

	case router.Create:
		if args == "" {
			return cmd, errors.Wrap(errUsage, "no name")
		}
		cmd.Arg = args
		return cmd, nil
	}

	idTxt, rest := args, ""
	if i := strings.IndexFunc(args, unicode.IsSpace); i >= 0 {
		idTxt, rest = args[:i], args[i:]
	}
	if idTxt == "" {
		return cmd, errors.Wrap(errUsage, "no id")
	}
	id, err := strconv.ParseUint(idTxt, 10, 64)
	if err != nil {
		return cmd, errors.Wrap(errNotNumber, err.Error())
	}
	cmd.ID = id
	rest = strings.TrimSpace(rest)

	switch d.Kind {
	case router.SetState, router.EditName:
		if rest == "" {
			return cmd, errors.Wrap(errUsage, "missing argument")
		}
		cmd.Arg = rest

	case router.SetDead, router.Edit:
		cmd.Arg = rest
	}

	return cmd, nil
}

// parseFailureText describes why the command named name couldn't be parsed
func parseFailureText(name string, err error) string {
	if errors.Is(err, errUnknownCommand) {
		return txtUnknownCommand
	}

	var sb strings.Builder
	if errors.Is(err, errNotNumber) {
		sb.WriteString(txtNotNumber)
		sb.WriteString("\n")
	}

	d, _ := router.Lookup(name)
	sb.WriteString("Usage: /")
	sb.WriteString(d.Name)
	if d.Usage != "" {
		sb.WriteString(" ")
		sb.WriteString(d.Usage)
	}
	return sb.String()
}
