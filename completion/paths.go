package completion

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

func ensurePermission(path string, perm os.FileMode) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	if runtime.GOOS == "windows" {
		return nil
	}

	actualPerm := info.Mode().Perm()
	if actualPerm != perm {
		if err := os.Chmod(path, perm); err != nil {
			return fmt.Errorf("failed to set permissions on %s from %o to %o: %w",
				path, actualPerm, perm, err)
		}
	}

	return nil
}

func getCompletionPaths(shell string) (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("couldn't get user home directory: %w", err)
	}

	switch runtime.GOOS {
	case "windows":
		return getWindowsCompletionPaths(home, shell)
	case "darwin":
		return getDarwinCompletionPaths(home, shell)
	default:
		return getLinuxCompletionPaths(home, shell)
	}
}

func getLinuxCompletionPaths(home, shell string) (Paths, error) {
	switch shell {
	case "bash":
		return Paths{
			Primary:  filepath.Join(home, ".local", "share", "bash-completion", "completions"),
			Fallback: filepath.Join(home, ".bash_completion.d"),
			Comment:  "XDG-compatible user-local bash completions directory",
		}, nil

	case "zsh":
		return Paths{
			Primary:  filepath.Join(home, ".zsh", "completion"),
			Fallback: filepath.Join(home, ".zfunc"),
			Comment:  "User-local zsh completions directory",
		}, nil

	case "fish":
		return Paths{
			Primary:  filepath.Join(home, ".config", "fish", "completions"),
			Fallback: filepath.Join(home, ".local", "share", "fish", "completions"),
			Comment:  "Fish user completions directory",
		}, nil

	case "powershell":
		return Paths{
			Primary:  filepath.Join(home, ".config", "powershell", "Completions"),
			Fallback: filepath.Join(home, ".local", "share", "powershell", "Completions"),
			Comment:  "PowerShell Core user completions directory",
		}, nil

	default:
		return Paths{}, fmt.Errorf("unsupported shell: %s", shell)
	}
}

func getDarwinCompletionPaths(home, shell string) (Paths, error) {
	switch shell {
	case "bash":
		return Paths{
			Primary:  filepath.Join(home, ".local", "share", "bash-completion", "completions"),
			Fallback: filepath.Join(home, ".bash_completion.d"),
			Comment:  "User-local bash completions, compatible with bash-completion@2",
		}, nil

	case "zsh":
		return Paths{
			Primary:  filepath.Join(home, ".zsh", "completion"),
			Fallback: filepath.Join(home, ".zfunc"),
			Comment:  "User-local zsh completions directory",
		}, nil

	case "fish":
		return Paths{
			Primary:  filepath.Join(home, ".config", "fish", "completions"),
			Fallback: filepath.Join(home, ".local", "share", "fish", "completions"),
			Comment:  "Fish user completions directory",
		}, nil

	case "powershell":
		return Paths{
			Primary:  filepath.Join(home, "Library", "PowerShell", "Completions"),
			Fallback: filepath.Join(home, ".config", "powershell", "Completions"),
			Comment:  "PowerShell Core user completions directory",
		}, nil

	default:
		return Paths{}, fmt.Errorf("unsupported shell: %s", shell)
	}
}

func getWindowsCompletionPaths(home, shell string) (Paths, error) {
	switch shell {
	case "powershell":
		return Paths{
			Primary:  filepath.Join(home, "Documents", "PowerShell", "Completions"),
			Fallback: filepath.Join(home, ".config", "powershell", "Completions"),
			Comment:  "PowerShell user completions directory",
		}, nil

	case "bash":
		return Paths{
			Primary:  filepath.Join(home, ".local", "share", "bash-completion", "completions"),
			Fallback: filepath.Join(home, ".bash_completion.d"),
			Comment:  "Git Bash user completions directory",
		}, nil

	case "zsh":
		return Paths{
			Primary:  filepath.Join(home, ".zsh", "completion"),
			Fallback: filepath.Join(home, ".zfunc"),
			Comment:  "Zsh user completions directory (WSL/Cygwin)",
		}, nil

	case "fish":
		return Paths{
			Primary:  filepath.Join(home, ".config", "fish", "completions"),
			Fallback: filepath.Join(home, ".local", "share", "fish", "completions"),
			Comment:  "Fish user completions directory",
		}, nil

	default:
		return Paths{}, fmt.Errorf("unsupported shell: %s", shell)
	}
}
