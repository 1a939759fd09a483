package util

import (
	"os"
	"strings"
)

// Dedent removes the longest common leading whitespace from all non-blank
// lines of text and trims surrounding blank lines. Convenient for indented
// multi-line string literals.
func Dedent(text string) string {
	lines := strings.Split(text, "\n")

	margin := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			margin = indent
			first = false
			continue
		}
		for !strings.HasPrefix(indent, margin) {
			margin = margin[:len(margin)-1]
		}
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
		} else {
			lines[i] = strings.TrimPrefix(line, margin)
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// HideUser replaces the home directory prefix of path with "~"; complements
// ExpandUser.
func HideUser(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" || !strings.HasPrefix(path, home) {
		return path
	}

	return "~" + path[len(home):]
}

// ExpandUser replaces a leading "~" in path with the home directory.
func ExpandUser(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}

	return home + path[1:]
}
