// Package format provides the help-text styling used by libcli: a color
// styler for terminals and markdown primitives for `--md-help`.
package format

import (
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"

	"github.com/russellane/libcli/util"
)

// Styler renders the pieces of a help page. Implementations must be pure
// string transforms; layout is the renderer's job.
type Styler interface {
	// Title styles a section heading ("General Options:").
	Title(s string) string
	// Usage styles the usage prefix ("Usage: ").
	Usage(s string) string
	// Invocation styles an option invocation column ("-h, --help").
	Invocation(s string) string
	// Text styles body text, colorizing `code` spans.
	Text(s string) string
}

var codeSpan = regexp.MustCompile("`([^`]*)`")

type plainStyler struct{}

func (plainStyler) Title(s string) string      { return TitleCase(s) }
func (plainStyler) Usage(s string) string      { return s }
func (plainStyler) Invocation(s string) string { return s }
func (plainStyler) Text(s string) string       { return s }

// Plain returns a styler which applies no color.
func Plain() Styler {
	return plainStyler{}
}

type colorStyler struct {
	title      *color.Color
	usage      *color.Color
	invocation *color.Color
	code       *color.Color
}

// Color returns a styler which colorizes help output: section titles and the
// usage prefix in bold yellow, option invocations in cyan, backtick code
// spans in yellow. Color output is forced on so writers other than a
// terminal (tests, pipes chosen deliberately) still receive escapes.
func Color() Styler {
	s := &colorStyler{
		title:      color.New(color.FgYellow, color.Bold),
		usage:      color.New(color.FgYellow, color.Bold),
		invocation: color.New(color.FgCyan),
		code:       color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{s.title, s.usage, s.invocation, s.code} {
		c.EnableColor()
	}

	return s
}

func (s *colorStyler) Title(text string) string {
	return s.title.Sprint(TitleCase(text))
}

func (s *colorStyler) Usage(text string) string {
	return s.usage.Sprint(text)
}

func (s *colorStyler) Invocation(text string) string {
	return s.invocation.Sprint(text)
}

func (s *colorStyler) Text(text string) string {
	return codeSpan.ReplaceAllStringFunc(text, func(m string) string {
		return s.code.Sprint(m)
	})
}

// Auto selects Color when w is a terminal and NOCOLOR is unset, Plain
// otherwise.
func Auto(w io.Writer) Styler {
	if os.Getenv("NOCOLOR") == "" && util.IsTerminal(w) {
		return Color()
	}

	return Plain()
}

// TitleCase upper-cases the first letter of each word ("General options" ->
// "General Options").
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	return strings.Join(words, " ")
}
