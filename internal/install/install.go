// Package install writes catalog rule documents into a project directory at
// the location an editor expects them.
package install

import (
	"errors"
	"fmt"
	"path/filepath"

	"createmvp/internal/catalog"
	"createmvp/internal/logging"
	"createmvp/pkg/fileops"
)

var (
	ErrAlreadyExists = errors.New("rule file already exists")
	ErrNotARule      = errors.New("record has no rule document")
)

// Options control a single install.
type Options struct {
	// Root is the project directory; empty means the working directory.
	Root string

	// Force overwrites an existing file.
	Force bool
}

// Installer writes rules to disk.
type Installer struct {
	logger *logging.AppLogger
}

func New(logger *logging.AppLogger) *Installer {
	if logger == nil {
		logger = logging.GetDefault()
	}
	return &Installer{logger: logger}
}

// Path returns the project-relative path a record would be written to.
func Path(r catalog.Record, target Target) (string, error) {
	name, err := fileops.SanitizeFilename(r.ID + ".md")
	if err != nil {
		return "", fmt.Errorf("invalid rule id %q: %w", r.ID, err)
	}
	rel := filepath.FromSlash(target.FullPath(name))
	if err := fileops.ValidateCWDPath(rel); err != nil {
		return "", err
	}
	return filepath.Clean(rel), nil
}

// Install writes r for target and returns the path written. Existing files
// are left alone unless opts.Force is set.
func (i *Installer) Install(r catalog.Record, target Target, opts Options) (string, error) {
	if !r.Kind.IsRules() || r.Body == "" {
		return "", fmt.Errorf("%s: %w", r.ID, ErrNotARule)
	}

	rel, err := Path(r, target)
	if err != nil {
		return "", err
	}
	dest := rel
	if opts.Root != "" {
		dest = filepath.Join(opts.Root, rel)
	}

	if fileops.FileExists(dest) && !opts.Force {
		return dest, fmt.Errorf("%s: %w", dest, ErrAlreadyExists)
	}

	if err := fileops.EnsureDirectoryExists(filepath.Dir(dest)); err != nil {
		return "", err
	}
	content, err := target.Render(r)
	if err != nil {
		return "", err
	}
	if err := fileops.AtomicWrite(dest, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write rule: %w", err)
	}

	i.logger.Info("Rule installed", "id", r.ID, "target", target.ID, "path", dest)
	return dest, nil
}
