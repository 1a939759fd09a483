package completion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() Data {
	return Data{
		Commands: []string{"move", "shoot", "shoot crooked"},
		Flags: []Flag{
			{Short: "h", Long: "help", Description: "Show this help message and exit."},
			{Long: "config", Description: "Use config FILE.", TakesValue: true},
		},
		CommandFlags: map[string][]Flag{
			"move": {{Long: "direction", Description: "Direction to move.", TakesValue: true}},
		},
		CommandDescriptions: map[string]string{
			"move":          "Move through the cave.",
			"shoot":         "Shoot an arrow.",
			"shoot crooked": "Shoot a crooked arrow.",
		},
	}
}

func TestShells(t *testing.T) {
	assert.Equal(t, []string{"bash", "fish", "powershell", "zsh"}, Shells())
	for _, shell := range Shells() {
		assert.True(t, Supported(shell))
	}
	assert.False(t, Supported("tcsh"))
}

func TestGetGenerator(t *testing.T) {
	assert.IsType(t, &ZshGenerator{}, GetGenerator("zsh"))
	assert.IsType(t, &BashGenerator{}, GetGenerator("unknown"), "defaults to bash")
}

func TestBashGenerator(t *testing.T) {
	script := (&BashGenerator{}).Generate("wumpus", testData())
	assert.Contains(t, script, "complete -F __wumpus_completion wumpus")
	assert.Contains(t, script, "--config")
	assert.Contains(t, script, "move[Move through the cave.]")
	assert.Contains(t, script, "--direction")
	// nested commands complete under their parent
	assert.Contains(t, script, `"crooked"`)
}

func TestZshGenerator(t *testing.T) {
	script := (&ZshGenerator{}).Generate("wumpus", testData())
	assert.True(t, strings.HasPrefix(script, "#compdef wumpus"))
	assert.Contains(t, script, "--config")
	assert.Contains(t, script, "move")
}

func TestFishGenerator(t *testing.T) {
	script := (&FishGenerator{}).Generate("wumpus", testData())
	assert.Contains(t, script, "complete -c wumpus")
	assert.Contains(t, script, "__fish_use_subcommand")
	assert.Contains(t, script, "'move'")
	assert.NotContains(t, script, "-a 'shoot crooked'",
		"nested commands are not offered at the top level")
}

func TestPowerShellGenerator(t *testing.T) {
	script := (&PowerShellGenerator{}).Generate("wumpus", testData())
	assert.Contains(t, script, "Register-ArgumentCompleter -Native -CommandName wumpus")
	assert.Contains(t, script, "move")
}

func TestGeneratorsEscapeDescriptions(t *testing.T) {
	data := Data{
		Flags: []Flag{{Long: "name", Description: `it's a "test"`, TakesValue: true}},
	}
	for _, shell := range Shells() {
		t.Run(shell, func(t *testing.T) {
			script := GetGenerator(shell).Generate("wumpus", data)
			assert.Contains(t, script, "--name")
		})
	}
}

func TestManagerFileConventions(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "wumpus"},
		{"zsh", "_wumpus"},
		{"fish", "wumpus.fish"},
		{"powershell", "wumpus.ps1"},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			m, err := NewManager(tt.shell, "/usr/local/bin/wumpus")
			require.NoError(t, err)
			assert.Equal(t, "wumpus", m.ProgramName)
			assert.Equal(t, tt.want, filepathBase(m.filePath()))
		})
	}
}

func TestManagerSaveRequiresScript(t *testing.T) {
	m, err := NewManager("bash", "wumpus")
	require.NoError(t, err)
	assert.Error(t, m.Save())

	m.Accept(testData())
	assert.NotEmpty(t, m.script)
}

func filepathBase(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}

	return path
}
