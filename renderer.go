package libcli

import (
	"flag"
	"regexp"
	"strings"

	"github.com/ef-ds/deque"

	"github.com/russellane/libcli/format"
	"github.com/russellane/libcli/util"
)

const (
	helpWidth       = 80
	helpItemIndent  = 2
	helpMaxPosition = 26
)

type helpItem struct {
	invocation string
	help       string
}

type helpSection struct {
	heading string
	items   []helpItem
}

// helpPage is the layout-neutral form of one help screen; the renderers
// below turn it into plain, colorized or markdown text.
type helpPage struct {
	prog        string
	usage       []string
	description string
	sections    []helpSection
}

type boolFlag interface {
	flag.Value
	IsBoolFlag() bool
}

func takesValue(f *flag.Flag) bool {
	if bf, ok := f.Value.(boolFlag); ok && bf.IsBoolFlag() {
		return false
	}

	return true
}

var metavarPattern = regexp.MustCompile("`([A-Z][A-Z0-9_-]*)`")

// metavar returns the placeholder shown after an option which takes a value:
// an explicit override, else the first ALL-CAPS backticked word of the help
// text, else the upper-cased option name.
func (c *CLI) metavar(f *flag.Flag) string {
	if mv, ok := c.metavars[f.Name]; ok {
		return mv
	}
	if !takesValue(f) {
		return ""
	}
	if m := metavarPattern.FindStringSubmatch(f.Usage); m != nil {
		return m[1]
	}

	return strings.ToUpper(f.Name)
}

// invocation renders the left column of a help item ("-h, --help",
// "--config FILE").
func (c *CLI) invocation(f *flag.Flag) string {
	var inv string
	switch long, ok := c.aliasLong[f.Name]; {
	case ok:
		inv = "-" + f.Name + ", --" + long
	case len(f.Name) == 1:
		inv = "-" + f.Name
	default:
		inv = "--" + f.Name
	}
	if mv := c.metavar(f); mv != "" {
		inv += " " + mv
	}

	return inv
}

// usageToken renders the usage-line form of an option ("[-h]",
// "[--config FILE]").
func (c *CLI) usageToken(f *flag.Flag) string {
	tok := "-" + f.Name
	if len(f.Name) > 1 {
		tok = "-" + tok
	}
	if mv := c.metavar(f); mv != "" {
		tok += " " + mv
	}

	return "[" + tok + "]"
}

// rootFlagGroups splits the top-level options into application options and
// the common ("general") options, dropping hidden options and the long side
// of each alias pair.
func (c *CLI) rootFlagGroups() (user, general []*flag.Flag) {
	c.Flags.VisitAll(func(f *flag.Flag) {
		if c.generalSet[f.Name] || c.skipNames[f.Name] || c.hiddenNames[f.Name] {
			return
		}
		user = append(user, f)
	})
	for _, name := range c.general {
		if c.hiddenNames[name] {
			continue
		}
		if f := c.Flags.Lookup(name); f != nil {
			general = append(general, f)
		}
	}

	return user, general
}

func (c *CLI) buildRootPage() *helpPage {
	user, general := c.rootFlagGroups()
	page := &helpPage{prog: c.Prog, description: c.Description}

	for _, f := range general {
		page.usage = append(page.usage, c.usageToken(f))
	}
	for _, f := range user {
		page.usage = append(page.usage, c.usageToken(f))
	}
	if len(c.commands) > 0 {
		page.usage = append(page.usage, "COMMAND", "...")
	}
	for _, pos := range c.positionals {
		page.usage = append(page.usage, pos.Name)
	}

	if len(c.positionals) > 0 {
		sec := helpSection{heading: "positional arguments"}
		for _, pos := range c.positionals {
			sec.items = append(sec.items, helpItem{invocation: pos.Name, help: pos.Help})
		}
		page.sections = append(page.sections, sec)
	}
	if len(user) > 0 {
		sec := helpSection{heading: "options"}
		for _, f := range user {
			sec.items = append(sec.items, helpItem{invocation: c.invocation(f), help: f.Usage})
		}
		page.sections = append(page.sections, sec)
	}
	sec := helpSection{heading: "general options"}
	for _, f := range general {
		sec.items = append(sec.items, helpItem{invocation: c.invocation(f), help: f.Usage})
	}
	page.sections = append(page.sections, sec)

	if len(c.commands) > 0 {
		sec := helpSection{heading: "specify one of"}
		for _, cmd := range c.commands {
			sec.items = append(sec.items, helpItem{invocation: cmd.Name, help: cmd.Brief})
		}
		page.sections = append(page.sections, sec)
	}

	return page
}

func (c *CLI) buildCommandPage(cmd *Command) *helpPage {
	page := &helpPage{prog: c.Prog + " " + cmd.Path, description: cmd.Description}
	if page.description == "" {
		page.description = cmd.Brief
	}

	var user []*flag.Flag
	cmd.Flags.VisitAll(func(f *flag.Flag) {
		if f.Name == "h" || c.skipNames[f.Name] || c.hiddenNames[f.Name] {
			return
		}
		user = append(user, f)
	})

	page.usage = append(page.usage, "[-h]")
	for _, f := range user {
		page.usage = append(page.usage, c.usageToken(f))
	}
	if len(cmd.Subcommands) > 0 {
		page.usage = append(page.usage, "COMMAND", "...")
	}

	sec := helpSection{heading: "options"}
	if h := cmd.Flags.Lookup("h"); h != nil {
		sec.items = append(sec.items, helpItem{invocation: c.invocation(h), help: h.Usage})
	}
	for _, f := range user {
		sec.items = append(sec.items, helpItem{invocation: c.invocation(f), help: f.Usage})
	}
	page.sections = append(page.sections, sec)

	if len(cmd.Subcommands) > 0 {
		sub := helpSection{heading: "specify one of"}
		for _, s := range cmd.Subcommands {
			sub.items = append(sub.items, helpItem{invocation: s.Name, help: s.Brief})
		}
		page.sections = append(page.sections, sub)
	}

	return page
}

// wrapUsage wraps the usage tokens, continuation lines aligned under the
// first token after the program name.
func wrapUsage(prefix, prog string, tokens []string) []string {
	indent := len(prefix) + len(prog) + 1
	if indent > helpWidth/2 {
		indent = len(prefix)
	}
	pad := strings.Repeat(" ", indent)

	lines := []string{prog}
	width := len(prefix) + len(prog)
	for _, tok := range tokens {
		if width+1+len(tok) > helpWidth && width > indent {
			lines = append(lines, pad+tok)
			width = indent + len(tok)
			continue
		}
		lines[len(lines)-1] += " " + tok
		width += 1 + len(tok)
	}

	return lines
}

func wrapText(text string, width int) []string {
	if width < 20 {
		width = 20
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := []string{words[0]}
	length := len(words[0])
	for _, word := range words[1:] {
		if length+1+len(word) > width {
			lines = append(lines, word)
			length = len(word)
			continue
		}
		lines[len(lines)-1] += " " + word
		length += 1 + len(word)
	}

	return lines
}

func (c *CLI) renderPage(page *helpPage, styler format.Styler) string {
	var b strings.Builder

	prefix := "Usage: "
	usageLines := wrapUsage(prefix, page.prog, page.usage)
	b.WriteString(styler.Usage(prefix) + styler.Text(usageLines[0]) + "\n")
	for _, line := range usageLines[1:] {
		b.WriteString(styler.Text(line) + "\n")
	}

	if page.description != "" {
		b.WriteString("\n")
		for _, line := range wrapText(page.description, helpWidth) {
			b.WriteString(styler.Text(line) + "\n")
		}
	}

	helpPos := helpItemIndent + 2
	for _, sec := range page.sections {
		for _, item := range sec.items {
			if n := helpItemIndent + len(item.invocation) + 2; n > helpPos {
				helpPos = n
			}
		}
	}
	if helpPos > helpMaxPosition {
		helpPos = helpMaxPosition
	}

	for _, sec := range page.sections {
		b.WriteString("\n")
		b.WriteString(styler.Title(sec.heading+":") + "\n")
		for _, item := range sec.items {
			b.WriteString(renderItem(item, helpPos, styler))
		}
	}

	return b.String()
}

func renderItem(item helpItem, helpPos int, styler format.Styler) string {
	var b strings.Builder

	indent := strings.Repeat(" ", helpItemIndent)
	width := helpItemIndent + len(item.invocation)
	helpLines := wrapText(item.help, helpWidth-helpPos)

	if len(helpLines) == 0 {
		b.WriteString(indent + styler.Invocation(item.invocation) + "\n")
		return b.String()
	}

	if width+2 <= helpPos {
		b.WriteString(indent + styler.Invocation(item.invocation))
		b.WriteString(strings.Repeat(" ", helpPos-width))
		b.WriteString(styler.Text(helpLines[0]) + "\n")
		helpLines = helpLines[1:]
	} else {
		b.WriteString(indent + styler.Invocation(item.invocation) + "\n")
	}
	pad := strings.Repeat(" ", helpPos)
	for _, line := range helpLines {
		b.WriteString(pad + styler.Text(line) + "\n")
	}

	return b.String()
}

// FormatHelp returns the top-level help page.
func (c *CLI) FormatHelp() string {
	c.installCommonOptions()
	c.normalizeHelp()

	return c.renderPage(c.buildRootPage(), c.style())
}

// FormatCommandHelp returns the help page for cmd.
func (c *CLI) FormatCommandHelp(cmd *Command) string {
	c.normalizeHelp()

	return c.renderPage(c.buildCommandPage(cmd), c.style())
}

func (c *CLI) formatUsageOnly() string {
	page := c.buildRootPage()
	lines := wrapUsage("Usage: ", page.prog, page.usage)

	return "Usage: " + strings.Join(lines, "\n") + "\n"
}

// banner centers text in a full-width line of dashes, separating the pages
// of the long help listing.
func banner(text string) string {
	label := " " + text + " "
	if len(label) >= helpWidth {
		return label
	}
	left := (helpWidth - len(label)) / 2
	right := helpWidth - len(label) - left

	return strings.Repeat("-", left) + label + strings.Repeat("-", right)
}

// FormatLongHelp returns the top-level help page followed by the page of
// every command, walked breadth-first so siblings stay together.
func (c *CLI) FormatLongHelp() string {
	c.installCommonOptions()
	c.normalizeHelp()
	styler := c.style()

	var b strings.Builder
	b.WriteString(banner(c.Prog) + "\n")
	b.WriteString(c.renderPage(c.buildRootPage(), styler))

	queue := deque.New()
	for _, cmd := range c.commands {
		queue.PushBack(cmd)
	}
	for queue.Len() > 0 {
		item, _ := queue.PopFront()
		cmd := item.(*Command)
		b.WriteString("\n" + banner(c.Prog+" "+cmd.Path) + "\n")
		b.WriteString(c.renderPage(c.buildCommandPage(cmd), styler))
		for _, sub := range cmd.Subcommands {
			queue.PushBack(sub)
		}
	}

	return b.String()
}

// FormatMarkdownHelp returns the top-level help page as a markdown document.
func (c *CLI) FormatMarkdownHelp() string {
	c.installCommonOptions()
	c.normalizeHelp()
	page := c.buildRootPage()

	var b strings.Builder
	b.WriteString(format.Heading(page.prog, format.MarkdownTitleLevel) + "\n\n")
	if page.description != "" {
		b.WriteString(page.description + "\n\n")
	}

	b.WriteString(format.Heading("Usage", format.MarkdownHeadingLevel) + "\n\n")
	usage := strings.Join(wrapUsage("", page.prog, page.usage), "\n")
	b.WriteString(format.Indent(usage, 4) + "\n\n")

	helpPos := helpMaxPosition
	for _, sec := range page.sections {
		b.WriteString(format.Heading(format.TitleCase(sec.heading), format.MarkdownHeadingLevel) + "\n\n")
		var items strings.Builder
		for _, item := range sec.items {
			items.WriteString(renderItem(item, helpPos, format.Plain()))
		}
		b.WriteString(format.Indent(items.String(), 4) + "\n")
	}

	return b.String()
}

// FormatLongMarkdownHelp returns every help page as a markdown document,
// each page in a fenced code block under its own heading.
func (c *CLI) FormatLongMarkdownHelp() string {
	c.installCommonOptions()
	c.normalizeHelp()
	plain := format.Plain()

	var b strings.Builder
	b.WriteString(format.Heading(c.Prog, 1) + "\n\n")
	b.WriteString(format.CodeBlock(c.renderPage(c.buildRootPage(), plain)) + "\n")

	queue := deque.New()
	for _, cmd := range c.commands {
		queue.PushBack(cmd)
	}
	for queue.Len() > 0 {
		item, _ := queue.PopFront()
		cmd := item.(*Command)
		b.WriteString(format.Heading(c.Prog+" "+cmd.Path, 2) + "\n\n")
		b.WriteString(format.CodeBlock(c.renderPage(c.buildCommandPage(cmd), plain)) + "\n")
		for _, sub := range cmd.Subcommands {
			queue.PushBack(sub)
		}
	}

	return b.String()
}

// NormalizeHelpText applies the configured help-text conventions: force the
// case of the first character and make sure the text ends with
// HelpLineEnding.
func (c *CLI) NormalizeHelpText(text string) string {
	if text == "" {
		return text
	}
	if c.HelpLineEnding != "" && !strings.HasSuffix(text, c.HelpLineEnding) {
		text += c.HelpLineEnding
	}
	switch c.HelpFirstChar {
	case "upper":
		text = strings.ToUpper(text[:1]) + text[1:]
	case "lower":
		text = strings.ToLower(text[:1]) + text[1:]
	}

	return text
}

// normalizeHelp runs NormalizeHelpText over every option and command help
// string. Idempotent, so it may be called from every render entry point.
func (c *CLI) normalizeHelp() {
	if c.normalized {
		return
	}
	c.installCommonOptions()
	c.normalized = true

	normalize := func(fs *flag.FlagSet) {
		fs.VisitAll(func(f *flag.Flag) {
			f.Usage = c.NormalizeHelpText(f.Usage)
		})
	}

	normalize(c.Flags)
	c.Description = c.NormalizeHelpText(c.Description)
	for i := range c.positionals {
		c.positionals[i].Help = c.NormalizeHelpText(c.positionals[i].Help)
	}
	c.visitCommands(func(cmd *Command, _ int) bool {
		normalize(cmd.Flags)
		cmd.Brief = c.NormalizeHelpText(cmd.Brief)
		cmd.Description = c.NormalizeHelpText(cmd.Description)
		return true
	})
}

// AddDefaultToHelp appends "(default: `VALUE`)" to the help text of the
// named option. A nil fs means the top-level option set. Bool options which
// default to off are left alone; a home directory in the value is shortened
// to "~".
func (c *CLI) AddDefaultToHelp(name string, fs *flag.FlagSet) {
	if fs == nil {
		fs = c.Flags
	}
	f := fs.Lookup(name)
	if f == nil || f.DefValue == "" || f.DefValue == "false" {
		return
	}

	suffix := " (default: `" + util.HideUser(f.DefValue) + "`)"
	if c.HelpLineEnding != "" && strings.HasSuffix(f.Usage, c.HelpLineEnding) {
		f.Usage = strings.TrimSuffix(f.Usage, c.HelpLineEnding) + suffix + c.HelpLineEnding
	} else {
		f.Usage += suffix
	}
}
