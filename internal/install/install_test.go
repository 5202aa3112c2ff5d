package install

import (
	"os"
	"path/filepath"
	"testing"

	"createmvp/internal/catalog"
	"createmvp/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRule() catalog.Record {
	return catalog.Record{
		ID:          "python-fastapi",
		Kind:        catalog.KindCursorRules,
		Name:        "Python FastAPI",
		Description: "FastAPI conventions",
		Body:        "# Python Development\n\n- Use type hints.",
	}
}

func newTestInstaller() *Installer {
	logger, _ := logging.NewTestLogger()
	return New(logger)
}

func TestInstall_WritesCursorRule(t *testing.T) {
	root := t.TempDir()
	target, _ := TargetByID("cursor")

	dest, err := newTestInstaller().Install(testRule(), target, Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".cursor", "rules", "python-fastapi.mdc"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "description: FastAPI conventions\n")
	assert.Contains(t, string(data), "- Use type hints.")
}

func TestInstall_RefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	target, _ := TargetByID("windsurf")
	installer := newTestInstaller()

	dest, err := installer.Install(testRule(), target, Options{Root: root})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dest, []byte("local edits"), 0644))

	_, err = installer.Install(testRule(), target, Options{Root: root})
	require.ErrorIs(t, err, ErrAlreadyExists)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "local edits", string(data))

	_, err = installer.Install(testRule(), target, Options{Root: root, Force: true})
	require.NoError(t, err)
	data, err = os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "trigger: model_decision")
}

func TestInstall_RejectsNonRules(t *testing.T) {
	tool := catalog.Record{ID: "cursor", Kind: catalog.KindTools, Name: "Cursor"}

	_, err := newTestInstaller().Install(tool, Targets[0], Options{Root: t.TempDir()})
	assert.ErrorIs(t, err, ErrNotARule)
}

func TestInstall_DefaultsToWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	dest, err := newTestInstaller().Install(testRule(), Targets[0], Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".cursor", "rules", "python-fastapi.mdc"), dest)
	assert.FileExists(t, filepath.Join(dir, dest))
}

func TestPath_SanitizesID(t *testing.T) {
	r := testRule()
	r.ID = "../../etc/passwd"

	p, err := Path(r, Targets[1])
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".windsurf", "rules", "passwd.md"), p)
}
