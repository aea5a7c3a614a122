package zone

import (
	"errors"
	"fmt"
	"strings"
)

// Command is one of the fixed zone commands
type Command int

const (
	View Command = iota + 1
	Pull
	Push
	New
)

var (
	// ErrUsage reports bad command-line arguments
	ErrUsage = errors.New("usage error")
	// ErrWriteFailed reports a zone upload that was not accepted
	ErrWriteFailed = errors.New("zone write failed")
)

var commandNames = map[Command]string{
	View: "view",
	Pull: "pull",
	Push: "push",
	New:  "new",
}

// Commands returns every command in display order
func Commands() []Command {
	return []Command{View, Pull, Push, New}
}

// ParseCommand maps a command name to its Command
func ParseCommand(name string) (Command, error) {
	for _, c := range Commands() {
		if commandNames[c] == name {
			return c, nil
		}
	}

	names := make([]string, 0, len(commandNames))
	for _, c := range Commands() {
		names = append(names, commandNames[c])
	}
	return 0, fmt.Errorf("%w: invalid command %q (choose from %s)", ErrUsage, name, strings.Join(names, ", "))
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Usage is the one-line help text
func (c Command) Usage() string {
	switch c {
	case View:
		return "Print all zones with their domains and records"
	case Pull:
		return "Download every zone into the zones directory"
	case Push:
		return "Upload zone files from the zones directory, replacing remote records"
	case New:
		return "Create a new zone"
	}
	return ""
}

// ArgsUsage describes the positional arguments
func (c Command) ArgsUsage() string {
	if c == New {
		return "<zone-name>"
	}
	return ""
}

// FiltersByZone reports whether the command honours --zone-name
func (c Command) FiltersByZone() bool {
	return c == View || c == Pull || c == Push
}

// CheckArgs validates the positional arguments for the command.
// Only new consumes arguments and it needs exactly one.
func (c Command) CheckArgs(args []string) error {
	if c == New && len(args) != 1 {
		return fmt.Errorf("%w: the `new` command requires a `name` argument: the zone name", ErrUsage)
	}
	return nil
}
