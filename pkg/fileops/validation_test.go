package fileops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCWDPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple file", "rules.md", false},
		{"nested", ".cursor/rules/react.mdc", false},
		{"dot prefix", "./AGENTS.md", false},
		{"dots inside a name", "next.js..notes.md", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"absolute", "/etc/passwd", true},
		{"parent traversal", "../outside.md", true},
		{"embedded traversal", ".cursor/../../outside.md", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCWDPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"plain", "react.mdc", "react.mdc", false},
		{"strips directories", "../../etc/passwd", "passwd", false},
		{"keeps dotted slug", "next.js-react.md", "next.js-react.md", false},
		{"replaces colon", "c:rules.md", "c-rules.md", false},
		{"trims whitespace", "  rules.md ", "rules.md", false},
		{"empty", "", "", true},
		{"only dots", "..", "", true},
		{"single dot", ".", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFilename(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "rules"), ExpandPath("~/rules"))
	assert.Equal(t, "/tmp/rules", ExpandPath("/tmp/rules"))
	assert.Equal(t, "rules", ExpandPath("rules"))
}
