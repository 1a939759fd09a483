package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainStyler(t *testing.T) {
	s := Plain()
	assert.Equal(t, "General Options:", s.Title("general options:"))
	assert.Equal(t, "Usage: ", s.Usage("Usage: "))
	assert.Equal(t, "-h, --help", s.Invocation("-h, --help"))
	assert.Equal(t, "use config `FILE`", s.Text("use config `FILE`"))
}

func TestColorStyler(t *testing.T) {
	s := Color()

	title := s.Title("general options:")
	assert.Contains(t, title, "General Options:")
	assert.Contains(t, title, "\x1b[")

	text := s.Text("use config `FILE` now")
	assert.Contains(t, text, "`FILE`")
	assert.Contains(t, text, "\x1b[")
	assert.True(t, strings.HasPrefix(text, "use config "), "text outside spans stays plain")

	assert.NotContains(t, s.Text("no spans here"), "\x1b[")
}

func TestAuto(t *testing.T) {
	// a buffer is not a terminal
	s := Auto(&bytes.Buffer{})
	assert.Equal(t, "x", s.Text("x"))
	assert.NotContains(t, s.Title("title"), "\x1b[")
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Specify One Of:", TitleCase("specify one of:"))
	assert.Equal(t, "Options:", TitleCase("options:"))
	assert.Equal(t, "", TitleCase(""))
}
