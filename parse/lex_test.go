//go:build !windows

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "a b c", []string{"a", "b", "c"}},
		{"double quotes", `a "b c"`, []string{"a", "b c"}},
		{"single quotes", "a 'b c'", []string{"a", "b c"}},
		{"options", "-v --config 'my file.toml'", []string{"-v", "--config", "my file.toml"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitUnterminated(t *testing.T) {
	_, err := Split(`a "b`)
	assert.Error(t, err)
}
