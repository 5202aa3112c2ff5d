package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateCWDPath checks that destPath is relative and stays inside the
// current working directory.
func ValidateCWDPath(destPath string) error {
	if strings.TrimSpace(destPath) == "" {
		return fmt.Errorf("destination path cannot be empty")
	}
	if filepath.IsAbs(destPath) {
		return fmt.Errorf("destination path must be relative to current working directory")
	}

	cleanPath := filepath.Clean(destPath)
	for _, part := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if part == ".." {
			return fmt.Errorf("path traversal not allowed in destination path")
		}
	}
	return nil
}

// SanitizeFilename reduces filename to a single safe path component.
//
//	clean, _ := fileops.SanitizeFilename("../../etc/passwd") // "passwd"
func SanitizeFilename(filename string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	clean := filepath.Base(filepath.ToSlash(filename))
	clean = strings.ReplaceAll(clean, "..", "")
	clean = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':':
			return '-'
		case r < 32:
			return -1
		}
		return r
	}, clean)
	clean = strings.TrimSpace(clean)

	if clean == "" || clean == "." || strings.Trim(clean, "-") == "" {
		return "", fmt.Errorf("invalid filename after sanitization: %q", filename)
	}
	return clean, nil
}

// ExpandPath expands a leading "~/" to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
