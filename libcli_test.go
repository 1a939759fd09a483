package libcli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russellane/libcli/format"
)

func newTestCLI(opts ...Option) (*CLI, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	all := append([]Option{
		WithProg("hello"),
		WithDescription("greet the world"),
		WithStyler(format.Plain()),
	}, opts...)
	all = append(all, WithStdout(stdout), WithStderr(stderr))

	return New(all...), stdout, stderr
}

func TestHelp(t *testing.T) {
	for _, arg := range []string{"-h", "--help"} {
		t.Run(arg, func(t *testing.T) {
			c, stdout, _ := newTestCLI()
			err := c.Run([]string{arg})
			assert.Equal(t, 0, ExitCode(err))
			out := stdout.String()
			assert.Contains(t, out, "Usage: hello")
			assert.Contains(t, out, "Greet the world.")
			assert.Contains(t, out, "General Options:")
			assert.Contains(t, out, "-h, --help")
			assert.Contains(t, out, "Show this help message and exit.")
			assert.Contains(t, out, "-v, --verbose")
			assert.Contains(t, out, "--completion [SHELL]")
		})
	}
}

func TestHelpHidesInternalOptions(t *testing.T) {
	c, stdout, _ := newTestCLI()
	err := c.Run([]string{"--help"})
	assert.Equal(t, 0, ExitCode(err))
	assert.NotContains(t, stdout.String(), "--md-help")
	assert.NotContains(t, stdout.String(), "-X")
}

func TestVersion(t *testing.T) {
	for _, arg := range []string{"-V", "--version"} {
		t.Run(arg, func(t *testing.T) {
			c, stdout, _ := newTestCLI(WithVersion("1.2.3"))
			err := c.Run([]string{arg})
			assert.Equal(t, 0, ExitCode(err))
			assert.Equal(t, "1.2.3\n", stdout.String())
		})
	}
}

func TestVerboseCounting(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want int
	}{
		{"none", nil, 0},
		{"single", []string{"-v"}, 1},
		{"collapsed", []string{"-vv"}, 2},
		{"repeated", []string{"-v", "-v", "-v"}, 3},
		{"long", []string{"--verbose", "--verbose"}, 2},
		{"mixed", []string{"-v", "--verbose"}, 2},
		{"assigned short", []string{"-v=3"}, 3},
		{"assigned long", []string{"--verbose=2"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestCLI()
			opts, err := c.Parse(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts.Verbose)
			assert.Equal(t, tt.want, c.Verbose())
		})
	}
}

// Verbosity must be known before the config file loads, so the early
// scan has to accept every spelling the full parse does.
func TestPreloadVerbosity(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want int
	}{
		{"collapsed", []string{"-vv"}, 2},
		{"assigned short", []string{"-v=3"}, 3},
		{"assigned long", []string{"--verbose=2"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestCLI()
			require.NoError(t, c.Preload(tt.argv))
			assert.Equal(t, tt.want, c.Verbose())
		})
	}
}

func TestUnknownOption(t *testing.T) {
	c, _, stderr := newTestCLI()
	err := c.Run([]string{"--bogus"})
	assert.Equal(t, 2, ExitCode(err))
	assert.Contains(t, stderr.String(), "hello: error:")
	assert.Contains(t, stderr.String(), "Usage: hello")
}

func TestUnrecognizedArguments(t *testing.T) {
	c, _, stderr := newTestCLI()
	err := c.Run([]string{"bogus"})
	assert.Equal(t, 2, ExitCode(err))
	assert.ErrorIs(t, err, ErrUnrecognizedArgs)
	assert.Contains(t, stderr.String(), "bogus")
}

func TestDeclaredPositionalAccepted(t *testing.T) {
	c, stdout, _ := newTestCLI()
	c.AddPositional("name", "the person to greet")

	opts, err := c.Parse([]string{"alice"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, opts.Args)

	c, stdout, _ = newTestCLI()
	c.AddPositional("name", "the person to greet")
	err = c.Run([]string{"--help"})
	assert.Equal(t, 0, ExitCode(err))
	assert.Contains(t, stdout.String(), "Positional Arguments:")
	assert.Contains(t, stdout.String(), "The person to greet.")
}

func TestPrintURL(t *testing.T) {
	c, stdout, _ := newTestCLI(WithURL("https://github.com/russellane/hello"))
	err := c.Run([]string{"--print-url"})
	assert.Equal(t, 0, ExitCode(err))
	assert.Equal(t, "https://github.com/russellane/hello\n", stdout.String())
}

func TestCompletion(t *testing.T) {
	t.Run("default shell", func(t *testing.T) {
		c, stdout, _ := newTestCLI()
		err := c.Run([]string{"--completion"})
		assert.Equal(t, 0, ExitCode(err))
		assert.Contains(t, stdout.String(), "complete -F __hello_completion hello")
	})

	t.Run("explicit shell", func(t *testing.T) {
		c, stdout, _ := newTestCLI()
		err := c.Run([]string{"--completion", "zsh"})
		assert.Equal(t, 0, ExitCode(err))
		assert.Contains(t, stdout.String(), "#compdef hello")
	})

	t.Run("unknown shell", func(t *testing.T) {
		c, _, _ := newTestCLI()
		err := c.Run([]string{"--completion", "bogus"})
		assert.Equal(t, 2, ExitCode(err))
		assert.ErrorIs(t, err, ErrUnknownShell)
	})

	t.Run("followed by option", func(t *testing.T) {
		c, stdout, _ := newTestCLI()
		err := c.Run([]string{"--completion", "-v"})
		assert.Equal(t, 0, ExitCode(err))
		assert.Contains(t, stdout.String(), "__hello_completion")
	})
}

func TestDumpState(t *testing.T) {
	c, stdout, _ := newTestCLI(WithVersion("1.2.3"))
	err := c.Run([]string{"-X"})
	assert.Equal(t, 0, ExitCode(err))
	assert.Contains(t, stdout.String(), "Prog")
	assert.Contains(t, stdout.String(), "hello")
	assert.Contains(t, stdout.String(), "1.2.3")
}

func TestMarkdownHelp(t *testing.T) {
	c, stdout, _ := newTestCLI()
	err := c.Run([]string{"--md-help"})
	assert.Equal(t, 0, ExitCode(err))
	out := stdout.String()
	assert.Contains(t, out, "### hello")
	assert.Contains(t, out, "#### Usage")
	assert.Contains(t, out, "#### General Options")
}

func TestEnvOpts(t *testing.T) {
	t.Setenv("HELLO_OPTS", "-vv")
	c, _, _ := newTestCLI()
	opts, err := c.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, opts.Verbose)
}

func TestEnvOptsName(t *testing.T) {
	assert.Equal(t, "HELLO_OPTS", envOptsName("hello"))
	assert.Equal(t, "MY_PROG_OPTS", envOptsName("my-prog"))
	assert.Equal(t, "PDF2JPG_OPTS", envOptsName("pdf2jpg"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 0, ExitCode(exit(0)))
	assert.Equal(t, 2, ExitCode(&ExitStatus{Code: 2, Err: errors.New("boom")}))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
}

func TestOptionGetters(t *testing.T) {
	c, _, _ := newTestCLI()
	c.Flags.String("name", "world", "who to greet")
	c.Flags.Bool("spanish", false, "greet in Spanish")
	c.Flags.Int("count", 1, "how many times")
	c.Flags.Float64("rate", 1.5, "greetings per second")

	opts, err := c.Parse([]string{"--name", "bob", "--spanish", "--count", "3"})
	require.NoError(t, err)

	name, err := opts.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "bob", name)

	spanish, err := opts.GetBool("spanish")
	require.NoError(t, err)
	assert.True(t, spanish)

	count, err := opts.GetInt("count")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	rate, err := opts.GetFloat("rate")
	require.NoError(t, err)
	assert.Equal(t, 1.5, rate)

	_, err = opts.Get("nope")
	assert.ErrorIs(t, err, ErrFlagNotFound)
	assert.Equal(t, "fallback", opts.GetOrDefault("nope", "fallback"))
}

func TestTimeVar(t *testing.T) {
	c, _, _ := newTestCLI()
	var since time.Time
	c.TimeVar(&since, "since", time.Time{}, "start of the interval")

	_, err := c.Parse([]string{"--since", "2020-06-01"})
	require.NoError(t, err)
	assert.Equal(t, 2020, since.Year())
	assert.Equal(t, time.June, since.Month())
}

func TestListVar(t *testing.T) {
	c, _, _ := newTestCLI()
	var names []string
	c.ListVar(&names, "names", nil, "who to greet")

	_, err := c.Parse([]string{"--names", "alice,bob|carol dave"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, names)
}

func TestUsageLineWidth(t *testing.T) {
	c, _, _ := newTestCLI(WithConfigFile("/etc/hello.toml"))
	c.Flags.String("name", "world", "who to greet")
	c.Flags.Bool("spanish", false, "greet in Spanish")

	for _, line := range strings.Split(c.FormatHelp(), "\n") {
		assert.LessOrEqual(t, len(line), helpWidth, "line too wide: %q", line)
	}
}

func TestDistName(t *testing.T) {
	c, _, _ := newTestCLI()
	assert.Equal(t, "hello", c.DistName())

	c, _, _ = newTestCLI(WithConfigName("greetings"))
	assert.Equal(t, "greetings", c.DistName())

	c, _, _ = newTestCLI(WithConfigName("greetings"), WithDistName("hello-dist"))
	assert.Equal(t, "hello-dist", c.DistName())
}

func TestLogging(t *testing.T) {
	t.Run("info", func(t *testing.T) {
		c, stdout, _ := newTestCLI()
		_, err := c.Parse([]string{"-v"})
		require.NoError(t, err)
		stdout.Reset()

		c.Error("went %s", "wrong")
		c.Info("informative")
		c.Debug("detailed")

		out := stdout.String()
		assert.Contains(t, out, "ERROR: went wrong")
		assert.Contains(t, out, "INFO: informative")
		assert.NotContains(t, out, "DEBUG:")
	})

	t.Run("debug", func(t *testing.T) {
		c, stdout, _ := newTestCLI()
		_, err := c.Parse([]string{"-vv"})
		require.NoError(t, err)
		stdout.Reset()

		c.Info("informative")
		c.Debug("detailed")

		out := stdout.String()
		assert.Contains(t, out, "INFO: informative")
		assert.Contains(t, out, "DEBUG: detailed")
	})

	t.Run("quiet", func(t *testing.T) {
		c, stdout, _ := newTestCLI()
		_, err := c.Parse(nil)
		require.NoError(t, err)
		stdout.Reset()

		c.Info("informative")
		c.Debug("detailed")
		assert.Empty(t, stdout.String())
	})
}
