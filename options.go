package libcli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/russellane/libcli/completion"
)

// commonOptions holds the values of the options installCommonOptions adds to
// every program.
type commonOptions struct {
	help        bool
	longHelp    bool
	mdHelp      bool
	version     bool
	config      string
	printConfig bool
	printURL    bool
	completion  string
	debugDump   bool
}

// installCommonOptions adds the customary options to the top-level option
// set:
//
//	-h, --help           show help and exit
//	-H, --long-help      show help for all commands and exit
//	--md-help            (hidden) show markdown help and exit
//	-v, --verbose        -v for detailed output, -vv for more
//	-V, --version        print version number and exit
//	--config FILE        use config FILE (only when a config file is known)
//	--print-config       print effective config and exit
//	--print-url          print project url and exit
//	--completion [SHELL] print completion scripts and exit
//	-X                   (hidden) dump internal state and exit
//
// -H is only offered when commands have been registered. Idempotent.
func (c *CLI) installCommonOptions() {
	if c.commonInstalled {
		return
	}
	c.commonInstalled = true

	fs := c.Flags
	o := &c.opt

	c.addBoolPair("h", "help", "show this help message and exit", &o.help)
	if len(c.commands) > 0 {
		c.addBoolPair("H", "long-help", "show help for all commands and exit", &o.longHelp)
	}

	fs.BoolVar(&o.mdHelp, "md-help", false, "show this help message in markdown format and exit")
	c.markGeneral("md-help")
	c.hiddenNames["md-help"] = true

	fs.Var(countValue{n: &c.verbose}, "v", "`-v` for detailed output and `-vv` for more detailed")
	fs.Var(countValue{n: &c.verbose}, "verbose", "")
	c.aliasLong["v"] = "verbose"
	c.skipNames["verbose"] = true
	c.markGeneral("v")

	c.addBoolPair("V", "version", "print version number and exit", &o.version)

	if path := c.config.GetString(KeyConfigFile); path != "" {
		fs.StringVar(&o.config, "config", path, "use config `FILE`")
		c.markGeneral("config")
		c.AddDefaultToHelp("config", fs)
	}

	fs.BoolVar(&o.printConfig, "print-config", false, "print effective config and exit")
	c.markGeneral("print-config")

	fs.BoolVar(&o.printURL, "print-url", false, "print project url and exit")
	c.markGeneral("print-url")

	fs.StringVar(&o.completion, "completion", "bash",
		fmt.Sprintf("print completion scripts for `SHELL` and exit (%s)",
			strings.Join(completion.Shells(), ", ")))
	c.markGeneral("completion")
	c.metavars["completion"] = "[SHELL]"
	c.AddDefaultToHelp("completion", fs)

	fs.BoolVar(&o.debugDump, "X", false, "dump internal state and exit")
	c.markGeneral("X")
	c.hiddenNames["X"] = true
}

// addBoolPair installs a short/long alias pair bound to the same variable.
func (c *CLI) addBoolPair(short, long, usage string, p *bool) {
	c.Flags.BoolVar(p, short, false, usage)
	c.Flags.BoolVar(p, long, false, "")
	c.aliasLong[short] = long
	c.skipNames[long] = true
	c.markGeneral(short)
}

func (c *CLI) markGeneral(name string) {
	if !c.generalSet[name] {
		c.generalSet[name] = true
		c.general = append(c.general, name)
	}
}

// flagSeen reports whether the named top-level option appeared on the
// command line.
func (c *CLI) flagSeen(name string) bool {
	seen := false
	c.Flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			seen = true
		}
	})

	return seen
}

// runTerminalActions handles the common options which print something and
// terminate. They are checked in installation order; the first one given
// wins. The returned error, if any, is an ExitStatus.
func (c *CLI) runTerminalActions() error {
	o := &c.opt

	switch {
	case o.help:
		fmt.Fprint(c.stdout, c.FormatHelp())
		return exit(0)

	case o.longHelp:
		fmt.Fprint(c.stdout, c.FormatLongHelp())
		return exit(0)

	case o.mdHelp:
		if len(c.commands) > 0 {
			fmt.Fprint(c.stdout, c.FormatLongMarkdownHelp())
		} else {
			fmt.Fprint(c.stdout, c.FormatMarkdownHelp())
		}
		return exit(0)

	case o.version:
		fmt.Fprintln(c.stdout, c.version())
		return exit(0)

	case o.printConfig:
		c.printConfig()
		return exit(0)

	case o.printURL:
		fmt.Fprintln(c.stdout, c.url())
		return exit(0)

	case c.flagSeen("completion"):
		if !completion.Supported(o.completion) {
			return c.usageError(fmt.Errorf(FmtErrorWithString, ErrUnknownShell, o.completion))
		}
		script := completion.GetGenerator(o.completion).Generate(c.Prog, c.completionData())
		fmt.Fprintln(c.stdout, script)
		return exit(0)

	case o.debugDump:
		c.dumpState()
		return exit(0)
	}

	return nil
}

// printConfig prints the effective configuration, in insertion order, to
// stdout. When a config-name is set the keys are printed as a section of
// that name. Keys excluded from print-config are skipped.
func (c *CLI) printConfig() {
	var b strings.Builder

	indent := ""
	if name := c.config.GetString(KeyConfigName); name != "" {
		b.WriteString(name + ":\n")
		indent = "  "
	}
	c.config.Each(func(key string, value any) {
		if c.printConfigExcluded[key] {
			return
		}
		b.WriteString(fmt.Sprintf("%s%s: %v\n", indent, key, value))
	})

	fmt.Fprint(c.stdout, b.String())
}

// dumpState prints the program's internal state for debugging.
func (c *CLI) dumpState() {
	var options []KeyValue
	c.Flags.VisitAll(func(f *flag.Flag) {
		options = append(options, KeyValue{Key: f.Name, Value: f.Value.String()})
	})

	var config []KeyValue
	c.config.Each(func(key string, value any) {
		config = append(config, KeyValue{Key: key, Value: fmt.Sprint(value)})
	})

	var commands []string
	c.visitCommands(func(cmd *Command, _ int) bool {
		commands = append(commands, cmd.Path)
		return true
	})

	state := struct {
		Prog     string
		Version  string
		URL      string
		Config   []KeyValue
		Options  []KeyValue
		Commands []string
	}{c.Prog, c.version(), c.url(), config, options, commands}

	spew.Fdump(c.stdout, state)
}

// completionData flattens options and commands into the form the completion
// generators consume.
func (c *CLI) completionData() completion.Data {
	data := completion.Data{
		CommandFlags:        map[string][]completion.Flag{},
		CommandDescriptions: map[string]string{},
	}

	flagOf := func(f *flag.Flag) completion.Flag {
		out := completion.Flag{
			Description: f.Usage,
			TakesValue:  takesValue(f),
		}
		if long, ok := c.aliasLong[f.Name]; ok {
			out.Short = f.Name
			out.Long = long
		} else if len(f.Name) == 1 {
			out.Short = f.Name
		} else {
			out.Long = f.Name
		}

		return out
	}

	user, general := c.rootFlagGroups()
	for _, f := range user {
		data.Flags = append(data.Flags, flagOf(f))
	}
	for _, f := range general {
		data.Flags = append(data.Flags, flagOf(f))
	}

	c.visitCommands(func(cmd *Command, _ int) bool {
		data.Commands = append(data.Commands, cmd.Path)
		data.CommandDescriptions[cmd.Path] = cmd.Brief
		var flags []completion.Flag
		cmd.Flags.VisitAll(func(f *flag.Flag) {
			if c.skipNames[f.Name] || c.hiddenNames[f.Name] {
				return
			}
			flags = append(flags, flagOf(f))
		})
		data.CommandFlags[cmd.Path] = flags
		return true
	})

	return data
}
