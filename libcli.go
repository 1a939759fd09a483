// Package libcli builds command-line interfaces on top of the standard flag
// package: a set of customary options every program gets (-h, -v, -V,
// --config, --print-config, --completion, ...), a config file merged into
// option defaults, nested sub-commands, and colorized or markdown help.
//
// Parsing happens in two phases. A tolerant pre-parse scans the raw
// arguments for --verbose and --config, so the verbosity level and the
// config file are known before anything else happens; the full parse then
// runs with the config merged in. A missing config file named on the
// command line is an error, but it is deferred until the full parse so
// --help and friends still work.
package libcli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/russellane/libcli/format"
	"github.com/russellane/libcli/parse"
	"github.com/russellane/libcli/util"
)

// CLI is a command-line interface under construction: a top-level option
// set, an ordered configuration, and optionally a tree of commands. Create
// one with New, define options on Flags (and commands with AddCommand),
// then call Run or Main.
type CLI struct {
	// Prog is the program name used in help and error messages. Defaults
	// to the base name of os.Args[0].
	Prog string
	// Description is shown below the usage line.
	Description string
	// Version overrides the version reported by --version; the module's
	// build info is used when empty.
	Version string
	// URL overrides the url reported by --print-url.
	URL string

	// HelpFirstChar forces the case of the first character of every help
	// string: "upper" (the default), "lower", or "" to leave it alone.
	HelpFirstChar string
	// HelpLineEnding is appended to help strings which lack it.
	// Defaults to ".".
	HelpLineEnding string

	// Flags is the top-level option set.
	Flags *flag.FlagSet

	config       *Config
	commands     []*Command
	commandIndex map[string]*Command
	positionals  []Positional

	general             []string
	generalSet          map[string]bool
	skipNames           map[string]bool
	hiddenNames         map[string]bool
	aliasLong           map[string]string
	metavars            map[string]string
	printConfigExcluded map[string]bool

	opt             commonOptions
	commonInstalled bool
	normalized      bool

	preloaded   bool
	argv        []string
	verbose     int
	deferredErr error

	stdout io.Writer
	stderr io.Writer
	styler format.Styler
}

// Option configures a CLI during New.
type Option func(*CLI)

func WithProg(prog string) Option {
	return func(c *CLI) { c.Prog = prog }
}

// WithDescription sets the text shown below the usage line. The text is
// dedented, so indented multi-line literals read naturally.
func WithDescription(text string) Option {
	return func(c *CLI) { c.Description = util.Dedent(text) }
}

func WithVersion(version string) Option {
	return func(c *CLI) { c.Version = version }
}

func WithURL(url string) Option {
	return func(c *CLI) { c.URL = url }
}

// WithConfigFile sets the default config file; it also enables the --config
// option.
func WithConfigFile(path string) Option {
	return func(c *CLI) { c.config.Set(KeyConfigFile, path) }
}

// WithConfigName selects the section of the config file to load.
func WithConfigName(name string) Option {
	return func(c *CLI) { c.config.Set(KeyConfigName, name) }
}

func WithDistName(name string) Option {
	return func(c *CLI) { c.config.Set(KeyDistName, name) }
}

// WithConfigDefault seeds a configuration key with an application default.
// The value's type also determines the type config-file values for the key
// are coerced to.
func WithConfigDefault(key string, value any) Option {
	return func(c *CLI) { c.config.Set(key, value) }
}

// WithExcludeFromPrintConfig hides keys from --print-config output.
func WithExcludeFromPrintConfig(keys ...string) Option {
	return func(c *CLI) {
		for _, key := range keys {
			c.printConfigExcluded[key] = true
		}
	}
}

func WithStdout(w io.Writer) Option {
	return func(c *CLI) { c.stdout = w }
}

func WithStderr(w io.Writer) Option {
	return func(c *CLI) { c.stderr = w }
}

// WithStyler forces a help styler; the default picks color when stdout is a
// terminal.
func WithStyler(s format.Styler) Option {
	return func(c *CLI) { c.styler = s }
}

// New creates a CLI.
func New(options ...Option) *CLI {
	c := &CLI{
		HelpFirstChar:       "upper",
		HelpLineEnding:      ".",
		config:              NewConfig(),
		commandIndex:        map[string]*Command{},
		generalSet:          map[string]bool{},
		skipNames:           map[string]bool{},
		hiddenNames:         map[string]bool{},
		aliasLong:           map[string]string{},
		metavars:            map[string]string{},
		printConfigExcluded: map[string]bool{},
		stdout:              os.Stdout,
		stderr:              os.Stderr,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.Prog == "" {
		c.Prog = filepath.Base(os.Args[0])
	}

	c.Flags = flag.NewFlagSet(c.Prog, flag.ContinueOnError)
	c.Flags.SetOutput(io.Discard)
	c.Flags.Usage = func() {}

	c.config.seed()
	for _, key := range []string{KeyConfigFile, KeyConfigName, KeyDistName, KeyVerbose} {
		c.printConfigExcluded[key] = true
	}

	return c
}

// Config returns the configuration.
func (c *CLI) Config() *Config {
	return c.config
}

// AddPositional documents a positional argument; the flag package leaves the
// values themselves in Options.Args.
func (c *CLI) AddPositional(name, help string) {
	c.positionals = append(c.positionals, Positional{Name: name, Help: help})
}

// Verbose returns the verbosity level: the number of -v options given.
func (c *CLI) Verbose() int {
	return c.verbose
}

// DistName returns the distribution name: the dist-name config key, falling
// back to config-name, falling back to the program name.
func (c *CLI) DistName() string {
	if name := c.config.GetString(KeyDistName); name != "" {
		return name
	}
	if name := c.config.GetString(KeyConfigName); name != "" {
		return name
	}

	return c.Prog
}

func (c *CLI) version() string {
	if c.Version != "" {
		return c.Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}

	return "(devel)"
}

func (c *CLI) url() string {
	if c.URL != "" {
		return c.URL
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Path != "" {
		return "https://" + info.Main.Path
	}

	return ""
}

func (c *CLI) style() format.Styler {
	if c.styler != nil {
		return c.styler
	}

	return format.Auto(c.stdout)
}

var (
	errorColor = color.New(color.FgRed)
	infoColor  = color.New(color.FgCyan)
	debugColor = color.New(color.FgWhite)
)

// Error prints a message to stdout, in red when color is on.
func (c *CLI) Error(msg string, args ...any) {
	fmt.Fprintln(c.stdout, errorColor.Sprintf("ERROR: "+msg, args...))
}

// Info prints a message to stdout when -v was given.
func (c *CLI) Info(msg string, args ...any) {
	if c.verbose > 0 {
		fmt.Fprintln(c.stdout, infoColor.Sprintf("INFO: "+msg, args...))
	}
}

// Debug prints a message to stdout when -vv was given.
func (c *CLI) Debug(msg string, args ...any) {
	if c.verbose > 1 {
		fmt.Fprintln(c.stdout, debugColor.Sprintf("DEBUG: "+msg, args...))
	}
}

// envOptsName returns the name of the environment variable holding extra
// command-line arguments: the program name upper-cased, with "_OPTS"
// appended ("wumpus" -> "WUMPUS_OPTS").
func envOptsName(prog string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(prog) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	return b.String() + "_OPTS"
}

// withEnvOpts prepends arguments from the <PROG>_OPTS environment variable,
// split with shell quoting rules.
func (c *CLI) withEnvOpts(argv []string) []string {
	name := envOptsName(c.Prog)
	value := os.Getenv(name)
	if value == "" {
		return argv
	}

	extra, err := parse.Split(value)
	if err != nil {
		c.Error("%s: %v", name, err)
		return argv
	}

	return append(extra, argv...)
}

func isVerboseRun(name string) bool {
	if len(name) < 1 {
		return false
	}
	for _, r := range name {
		if r != 'v' {
			return false
		}
	}

	return true
}

// preScan is the tolerant first-phase scan: it finds --verbose and --config
// without knowing any other option, ignoring everything it does not
// recognize.
func preScan(argv []string) (verbose int, configPath string, configGiven bool) {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if arg == "--" {
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		switch {
		case name == "verbose" || isVerboseRun(name):
			if name == "verbose" {
				verbose++
			} else {
				verbose += len(name)
			}
		case strings.HasPrefix(name, "v=") || strings.HasPrefix(name, "verbose="):
			if n, err := strconv.Atoi(name[strings.Index(name, "=")+1:]); err == nil {
				verbose = n
			}
		case name == "config":
			if i+1 < len(argv) {
				configPath = argv[i+1]
				configGiven = true
				i++
			}
		case strings.HasPrefix(name, "config="):
			configPath = strings.TrimPrefix(name, "config=")
			configGiven = true
		}
	}

	return verbose, configPath, configGiven
}

// expandVerbose rewrites collapsed counting options, -vv -> -v -v, which the
// flag package would otherwise reject.
func expandVerbose(argv []string) []string {
	out := make([]string, 0, len(argv))
	passthrough := false
	for _, arg := range argv {
		if passthrough || arg == "--" {
			passthrough = true
			out = append(out, arg)
			continue
		}
		if len(arg) > 2 && arg[0] == '-' && arg[1] != '-' && isVerboseRun(arg[1:]) {
			for range arg[1:] {
				out = append(out, "-v")
			}
			continue
		}
		out = append(out, arg)
	}

	return out
}

// fixCompletionArg gives --completion its optional-argument behavior: when
// the next token is missing or looks like an option, the default shell is
// spliced in so the flag package does not swallow the wrong token.
func fixCompletionArg(argv []string) []string {
	out := make([]string, 0, len(argv))
	passthrough := false
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if passthrough || arg == "--" {
			passthrough = true
			out = append(out, arg)
			continue
		}
		if arg == "--completion" || arg == "-completion" {
			if i+1 >= len(argv) || strings.HasPrefix(argv[i+1], "-") {
				out = append(out, arg+"=bash")
				continue
			}
		}
		out = append(out, arg)
	}

	return out
}

// Preload is the first phase of the two-phase parse: merge <PROG>_OPTS into
// argv, pre-scan for --verbose and --config, and load the config file. An
// explicitly named config file which does not exist is remembered and
// reported by Parse; a missing default config file is ignored. Parse calls
// Preload itself; call it directly only to read the config before defining
// options.
func (c *CLI) Preload(argv []string) error {
	if c.preloaded {
		return nil
	}
	c.preloaded = true

	c.argv = c.withEnvOpts(argv)
	verbose, configPath, configGiven := preScan(c.argv)
	c.verbose = verbose
	c.config.Set(KeyVerbose, verbose)

	seeded := c.config.GetString(KeyConfigFile)
	path := seeded
	if configGiven {
		path = configPath
	}
	if path == "" {
		c.Debug("config-file not defined or given")
		return nil
	}
	c.Debug("reading config-file `%s`", path)

	raw, err := loadConfigFile(util.ExpandUser(path))
	if err != nil {
		if os.IsNotExist(err) {
			if configGiven && path != seeded {
				c.deferredErr = err
			} else {
				c.Debug("%v; ignoring", err)
			}
			return nil
		}
		return err
	}
	if configGiven {
		c.config.Set(KeyConfigFile, path)
	}

	return c.config.mergeMap(raw)
}

// usageError prints the usage line and the error to stderr and wraps err in
// an ExitStatus with code 2.
func (c *CLI) usageError(err error) error {
	fmt.Fprint(c.stderr, c.formatUsageOnly())
	fmt.Fprintf(c.stderr, "%s: error: %v\n", c.Prog, err)

	return &ExitStatus{Code: 2, Err: err}
}

// applyConfigToFlags overlays config values onto top-level options which
// were not given on the command line, so the config file supplies defaults.
// The common options keep their own behavior and are skipped.
func (c *CLI) applyConfigToFlags() {
	explicit := map[string]bool{}
	c.Flags.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	c.Flags.VisitAll(func(f *flag.Flag) {
		if explicit[f.Name] || c.generalSet[f.Name] || c.skipNames[f.Name] {
			return
		}
		value, ok := c.config.Get(f.Name)
		if !ok || value == nil {
			return
		}
		var text string
		if list, ok := value.([]string); ok {
			text = strings.Join(list, ",")
		} else {
			text = fmt.Sprint(value)
		}
		if err := c.Flags.Set(f.Name, text); err != nil {
			c.Error("config key %q: %v", f.Name, err)
		}
	})
}

// updateConfigFromOptions copies final option values back into the config
// for keys the config already has, so --print-config shows the effective
// settings.
func (c *CLI) updateConfigFromOptions() {
	for _, key := range c.config.Keys() {
		if c.printConfigExcluded[key] {
			continue
		}
		f := c.Flags.Lookup(key)
		if f == nil {
			continue
		}
		if getter, ok := f.Value.(flag.Getter); ok {
			c.config.Set(key, getter.Get())
		} else {
			c.config.Set(key, f.Value.String())
		}
	}
}

// Parse runs the full parse: install the common options, normalize help
// text, parse argv, report any deferred config error, overlay the config,
// run terminal options, and dispatch to a command's option set when the
// first positional argument names a command.
//
// The returned error is an ExitStatus when the process should terminate
// (code 0 after --help and friends, code 2 on a usage error); anything
// already printed what it had to.
func (c *CLI) Parse(argv []string) (*Options, error) {
	if err := c.Preload(argv); err != nil {
		return nil, err
	}

	c.installCommonOptions()
	c.normalizeHelp()

	args := fixCompletionArg(expandVerbose(c.argv))
	c.verbose = 0 // the full parse recounts -v
	if err := c.Flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(c.stdout, c.FormatHelp())
			return nil, exit(0)
		}
		return nil, c.usageError(err)
	}

	c.applyConfigToFlags()
	c.updateConfigFromOptions()

	opts := &Options{CLI: c, Verbose: c.verbose, Args: c.Flags.Args()}

	if err := c.runTerminalActions(); err != nil {
		return nil, err
	}

	if c.deferredErr != nil {
		// postponed from Preload
		return nil, c.usageError(c.deferredErr)
	}

	rest := opts.Args
	switch {
	case len(c.commands) > 0 && len(rest) > 0:
		cmd := findCommand(c.commands, rest[0])
		if cmd == nil {
			return nil, c.usageError(fmt.Errorf(FmtErrorWithString, ErrCommandNotFound, rest[0]))
		}
		rest = rest[1:]
		for len(rest) > 0 {
			sub := findCommand(cmd.Subcommands, rest[0])
			if sub == nil {
				break
			}
			cmd = sub
			rest = rest[1:]
		}
		if err := cmd.Flags.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				fmt.Fprint(c.stdout, c.FormatCommandHelp(cmd))
				return nil, exit(0)
			}
			return nil, c.usageError(fmt.Errorf("%s: %w", cmd.Path, err))
		}
		if cmd.helpWanted {
			fmt.Fprint(c.stdout, c.FormatCommandHelp(cmd))
			return nil, exit(0)
		}
		opts.Cmd = cmd
		opts.Args = cmd.Flags.Args()
		cmd.options = opts

	case len(c.commands) == 0 && len(c.positionals) == 0 && len(rest) > 0:
		return nil, c.usageError(
			fmt.Errorf(FmtErrorWithString, ErrUnrecognizedArgs, strings.Join(rest, " ")))
	}

	return opts, nil
}

// Run parses argv and invokes the selected command's callback, if any.
func (c *CLI) Run(argv []string) error {
	opts, err := c.Parse(argv)
	if err != nil {
		return err
	}
	if opts.Cmd != nil && opts.Cmd.Run != nil {
		return opts.Cmd.Run(opts)
	}

	return nil
}

// Main runs the program with os.Args and exits. Errors other than an
// ExitStatus are printed and exit with code 1.
func (c *CLI) Main() {
	err := c.Run(os.Args[1:])
	if err != nil {
		var status *ExitStatus
		if !errors.As(err, &status) {
			c.Error("%v", err)
		}
	}

	os.Exit(ExitCode(err))
}

// Options is the result of a successful Parse.
type Options struct {
	// CLI is the interface the options were parsed by.
	CLI *CLI
	// Cmd is the selected command, or nil.
	Cmd *Command
	// Args holds the positional arguments remaining after option parsing
	// (and after command dispatch, when a command was selected).
	Args []string
	// Verbose is the number of -v options given.
	Verbose int
}

// lookupFlag finds name in the selected command's option set first, then the
// top level.
func (o *Options) lookupFlag(name string) *flag.Flag {
	if o.Cmd != nil {
		if f := o.Cmd.Flags.Lookup(name); f != nil {
			return f
		}
	}

	return o.CLI.Flags.Lookup(name)
}

// Get returns the value of the named option as a string.
func (o *Options) Get(name string) (string, error) {
	f := o.lookupFlag(name)
	if f == nil {
		return "", fmt.Errorf(FmtErrorWithString, ErrFlagNotFound, name)
	}

	return f.Value.String(), nil
}

// GetOrDefault returns the value of the named option, or fallback when the
// option does not exist.
func (o *Options) GetOrDefault(name, fallback string) string {
	value, err := o.Get(name)
	if err != nil {
		return fallback
	}

	return value
}

func (o *Options) GetBool(name string) (bool, error) {
	value, err := o.Get(name)
	if err != nil {
		return false, err
	}

	return strconv.ParseBool(value)
}

func (o *Options) GetInt(name string) (int, error) {
	value, err := o.Get(name)
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(value)
}

func (o *Options) GetFloat(name string) (float64, error) {
	value, err := o.Get(name)
	if err != nil {
		return 0, err
	}

	return strconv.ParseFloat(value, 64)
}
