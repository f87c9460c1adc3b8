package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("CARDWIZ_TEST_DIR", "/data/cardwiz")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "tilde prefix", input: "~/cache/cardwiz.db", expected: filepath.Join(home, "cache/cardwiz.db")},
		{name: "bare tilde", input: "~", expected: home},
		{name: "env var", input: "$CARDWIZ_TEST_DIR/cardwiz.db", expected: "/data/cardwiz/cardwiz.db"},
		{name: "plain path", input: "/var/lib/cardwiz.db", expected: "/var/lib/cardwiz.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPath(tt.input))
		})
	}
}
