package format

import "strings"

// Markdown heading levels used by the help renderer. Levels 1 and 2 render a
// horizontal rule on github, so documents start at 3.
const (
	MarkdownTitleLevel   = 3
	MarkdownHeadingLevel = 4
)

// Heading renders text as a markdown ATX heading. Level is clamped to [0, 6];
// level 0 returns the bare text.
func Heading(text string, level int) string {
	if level < 0 {
		level = 0
	}
	if level > 6 {
		level = 6
	}
	if level == 0 {
		return text
	}

	return strings.Repeat("#", level) + " " + text
}

// CodeBlock wraps text in a fenced code block.
func CodeBlock(text string) string {
	return "```\n" + strings.TrimRight(text, "\n") + "\n```\n"
}

// Indent prefixes every non-blank line of text with n spaces, indenting body
// text far enough to render as an (indented) code block.
func Indent(text string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = pad + line
		}
	}

	return strings.Join(lines, "\n")
}
