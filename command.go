package libcli

import (
	"flag"
	"fmt"
	"io"
)

// Command is a named sub-command with its own option set and run callback.
// Commands nest; a sub-command is addressed on the command line by naming
// its ancestors first ("database backup").
type Command struct {
	// Name is the word typed on the command line.
	Name string
	// Brief is the one-line description shown in the command list.
	Brief string
	// Description is the longer text shown at the top of the command's
	// help page; Brief is used when empty.
	Description string
	// Flags holds the command's own options. Created by AddCommand when
	// nil; populate it after registration.
	Flags *flag.FlagSet
	// Run is invoked when the command is selected.
	Run RunFunc

	Subcommands []*Command

	// Path is the full space-separated route to this command, set during
	// registration.
	Path string

	cli        *CLI
	helpWanted bool
	options    *Options
}

// Options returns the parse result the command was dispatched with. It is
// only set once the command has been selected on the command line.
func (cmd *Command) Options() *Options {
	return cmd.options
}

// Visit walks the command and its subcommands depth-first, calling visitor
// with each command and its nesting level. Returning false prunes the
// walk below that command.
func (cmd *Command) Visit(visitor func(*Command, int) bool, level int) {
	if visitor == nil {
		return
	}
	if !visitor(cmd, level) {
		return
	}
	for _, sub := range cmd.Subcommands {
		sub.Visit(visitor, level+1)
	}
}

// AddCommand registers cmd and, recursively, its subcommands. Registration
// assigns each command's Path, creates its option set if needed, and gives
// it the customary -h/--help pair.
func (c *CLI) AddCommand(cmd *Command) error {
	if cmd == nil || cmd.Name == "" {
		return fmt.Errorf(FmtErrorWithString, ErrCommandNotFound, "empty command name")
	}

	return c.registerCommand(cmd, "")
}

func (c *CLI) registerCommand(cmd *Command, parentPath string) error {
	cmd.Path = cmd.Name
	if parentPath != "" {
		cmd.Path = parentPath + " " + cmd.Name
	}
	if _, exists := c.commandIndex[cmd.Path]; exists {
		return fmt.Errorf(FmtErrorWithString, ErrCommandExists, cmd.Path)
	}

	cmd.cli = c
	if cmd.Flags == nil {
		cmd.Flags = flag.NewFlagSet(cmd.Path, flag.ContinueOnError)
	}
	cmd.Flags.SetOutput(io.Discard)
	cmd.Flags.Usage = func() {}
	cmd.Flags.BoolVar(&cmd.helpWanted, "h", false, "show this help message and exit")
	cmd.Flags.BoolVar(&cmd.helpWanted, "help", false, "")

	c.commandIndex[cmd.Path] = cmd
	if parentPath == "" {
		c.commands = append(c.commands, cmd)
	}

	for _, sub := range cmd.Subcommands {
		if err := c.registerCommand(sub, cmd.Path); err != nil {
			return err
		}
	}

	return nil
}

// LookupCommand returns the command registered at path ("database backup"),
// or nil.
func (c *CLI) LookupCommand(path string) *Command {
	return c.commandIndex[path]
}

// visitCommands walks every registered top-level command tree in
// registration order.
func (c *CLI) visitCommands(visitor func(*Command, int) bool) {
	for _, cmd := range c.commands {
		cmd.Visit(visitor, 0)
	}
}

func findCommand(cmds []*Command, name string) *Command {
	for _, cmd := range cmds {
		if cmd.Name == name {
			return cmd
		}
	}

	return nil
}
