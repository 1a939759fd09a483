package completion

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Generator produces a completion script for one shell.
type Generator interface {
	Generate(programName string, data Data) string
}

var generators = map[string]Generator{
	"bash":       &BashGenerator{},
	"zsh":        &ZshGenerator{},
	"fish":       &FishGenerator{},
	"powershell": &PowerShellGenerator{},
}

// GetGenerator returns the generator for shell, defaulting to bash when the
// shell is unknown.
func GetGenerator(shell string) Generator {
	if g, ok := generators[shell]; ok {
		return g
	}

	return generators["bash"]
}

// Supported reports whether shell has a generator.
func Supported(shell string) bool {
	_, ok := generators[shell]

	return ok
}

// Shells returns the supported shell names, sorted.
func Shells() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Manager generates and installs a completion script for a given shell.
type Manager struct {
	Shell       string
	ProgramName string
	Paths       Paths

	generator Generator
	script    string
}

// NewManager creates a manager for shell and programName. The program name's
// directory part is discarded.
func NewManager(shell, programName string) (*Manager, error) {
	paths, err := getCompletionPaths(shell)
	if err != nil {
		return nil, fmt.Errorf("failed to get completion paths: %w", err)
	}

	return &Manager{
		Shell:       shell,
		ProgramName: filepath.Base(programName),
		Paths:       paths,
		generator:   GetGenerator(shell),
	}, nil
}

// Accept generates and stores the completion script from the provided data.
func (m *Manager) Accept(data Data) {
	m.script = m.generator.Generate(m.ProgramName, data)
}

// Save writes the previously generated completion script to the shell's
// conventional completion directory.
func (m *Manager) Save() error {
	if m.script == "" {
		return fmt.Errorf("no completion script generated")
	}

	if err := m.ensurePath(); err != nil {
		return err
	}

	path := m.filePath()
	if err := os.WriteFile(path, []byte(m.script), 0644); err != nil {
		return fmt.Errorf("failed to write completion file: %w", err)
	}

	return ensurePermission(path, 0644)
}

func (m *Manager) ensurePath() error {
	perm := os.FileMode(0755)
	err := os.MkdirAll(m.Paths.Primary, perm)
	if err != nil {
		return fmt.Errorf("failed to create primary completion directory: %w", err)
	}

	err = ensurePermission(m.Paths.Primary, perm)
	if err == nil {
		return nil
	}

	if m.Paths.Fallback != "" {
		err = os.MkdirAll(m.Paths.Fallback, perm)
		if err != nil {
			return fmt.Errorf("failed to create fallback completion directory: %w", err)
		}
		return ensurePermission(m.Paths.Fallback, perm)
	}

	return fmt.Errorf("failed to create completion directories: %w", err)
}

func (m *Manager) fileConventions() FileInfo {
	switch m.Shell {
	case "bash":
		return FileInfo{
			Comment: "Bash completion files are typically just the command name",
		}
	case "zsh":
		return FileInfo{
			Prefix:  "_",
			Comment: "Zsh completion files should start with _ (e.g., _git)",
		}
	case "fish":
		return FileInfo{
			Extension: ".fish",
			Comment:   "Fish completion files must end in .fish",
		}
	case "powershell":
		return FileInfo{
			Extension: ".ps1",
			Comment:   "PowerShell completion files must end in .ps1",
		}
	default:
		return FileInfo{}
	}
}

func (m *Manager) filePath() string {
	conventions := m.fileConventions()
	filename := conventions.Prefix + m.ProgramName + conventions.Extension

	return filepath.Join(m.Paths.Primary, filename)
}
