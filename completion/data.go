// Package completion generates shell completion scripts for bash, zsh, fish
// and powershell from a description of a program's flags and commands.
package completion

// Flag describes one completable option.
type Flag struct {
	Long        string // long name without dashes
	Short       string // optional short name without dash
	Description string
	TakesValue  bool
}

// Data describes everything a completion script needs to know about a
// program: its commands (nested commands use space-separated paths), its
// global flags, and per-command flags.
type Data struct {
	Commands            []string
	Flags               []Flag
	CommandFlags        map[string][]Flag
	CommandDescriptions map[string]string
}

// Paths holds completion script install locations for a shell.
type Paths struct {
	Primary  string // main completion path
	Fallback string // alternative path if primary isn't available
	Comment  string // documentation about the path choice
}

// FileInfo holds shell-specific script naming conventions.
type FileInfo struct {
	Prefix    string // some shells require specific prefixes
	Extension string // file extension if required
	Comment   string // documentation about the naming convention
}

func (f Flag) invocation() string {
	if f.Long == "" {
		return "-" + f.Short
	}

	return "--" + f.Long
}
