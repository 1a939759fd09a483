package libcli

import (
	"errors"
	"fmt"
)

// RunFunc is the callback bound to a Command, invoked when the command is
// selected on the command line.
type RunFunc func(*Options) error

// Positional documents a positional argument for help output. The flag
// package leaves positional arguments to the caller; declaring them here
// gets them rendered in usage and help.
type Positional struct {
	Name string
	Help string
}

// KeyValue denotes key/value option pairs (used in diagnostics output).
type KeyValue struct {
	Key   string
	Value string
}

var (
	ErrCommandNotFound  = errors.New("command not found")
	ErrCommandExists    = errors.New("command already exists")
	ErrFlagNotFound     = errors.New("flag not found")
	ErrUnknownShell     = errors.New("unknown shell")
	ErrUnrecognizedArgs = errors.New("unrecognized arguments")
)

const FmtErrorWithString = "%w: %s"

// ExitStatus is returned by Parse and Run when the process should terminate:
// code 0 after a terminal option (--help, --version, ...), code 2 on a usage
// error. Callers which own main() can pass it to ExitCode; everything stays
// an ordinary error for testing.
type ExitStatus struct {
	Code int
	Err  error
}

func (e *ExitStatus) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitStatus) Unwrap() error {
	return e.Err
}

// ExitCode maps err to a process exit code: nil is 0, an ExitStatus carries
// its own code, any other error is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var status *ExitStatus
	if errors.As(err, &status) {
		return status.Code
	}

	return 1
}

func exit(code int) *ExitStatus {
	return &ExitStatus{Code: code}
}

// Well-known configuration keys, seeded into every Config.
const (
	// KeyConfigFile names the config file; when set, a `--config FILE`
	// option is added. `--print-config` is added regardless.
	KeyConfigFile = "config-file"
	// KeyConfigName selects a section of the config file.
	KeyConfigName = "config-name"
	// KeyDistName is the distribution name used for metadata lookups.
	KeyDistName = "dist-name"
	// KeyVerbose holds the `--verbose` count.
	KeyVerbose = "verbose"
)
