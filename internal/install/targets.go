package install

import (
	"fmt"
	"strings"

	"createmvp/internal/catalog"

	"gopkg.in/yaml.v3"
)

type RenameOption int

const (
	// RenameOptionNone keeps the rule's own file name
	RenameOptionNone RenameOption = iota
	// RenameOptionPrefix adds NewName before the file name
	RenameOptionPrefix
	// RenameOptionSuffix replaces the extension with NewName
	RenameOptionSuffix
	// RenameOptionFull ignores the rule name and writes NewName
	RenameOptionFull
)

// Format selects the header written above the rule body.
type Format int

const (
	FormatPlain Format = iota
	FormatCursor
	FormatWindsurf
)

// Target is an editor location a rule can be installed into.
type Target struct {
	// ID is the short name used on the command line
	ID string

	Name        string
	Explanation string

	// RulePath is the directory, relative to the project root, without the file name
	RulePath string

	RenameOption RenameOption

	// NewName is used as prefix, suffix or full name depending on RenameOption
	NewName string

	Format Format
}

var Targets = []Target{
	{
		// https://docs.cursor.com/en/context/rules
		ID:           "cursor",
		Name:         "Cursor project rule",
		Explanation:  "Written to .cursor/rules as an .mdc file the agent can attach on request.",
		RulePath:     ".cursor/rules/",
		RenameOption: RenameOptionSuffix,
		NewName:      ".mdc",
		Format:       FormatCursor,
	},
	{
		// https://docs.windsurf.com/windsurf/cascade/memories#rules
		ID:           "windsurf",
		Name:         "Windsurf workspace rule",
		Explanation:  "Written to .windsurf/rules; Cascade decides when to apply it from the description.",
		RulePath:     ".windsurf/rules/",
		RenameOption: RenameOptionNone,
		Format:       FormatWindsurf,
	},
	{
		// https://code.visualstudio.com/docs/copilot/copilot-customization#_use-instructionsmd-files
		ID:           "copilot",
		Name:         "Github Copilot - Instructions",
		Explanation:  "Written to .github/instructions as a scoped instructions file.",
		RulePath:     ".github/instructions/",
		RenameOption: RenameOptionSuffix,
		NewName:      ".instructions.md",
		Format:       FormatPlain,
	},
	{
		// https://opencode.ai/docs/rules/
		ID:           "agents",
		Name:         "AGENTS.md",
		Explanation:  "General instructions file read by agents such as SST Opencode.",
		RulePath:     "./",
		RenameOption: RenameOptionFull,
		NewName:      "AGENTS.md",
		Format:       FormatPlain,
	},
	{
		ID:           "claude",
		Name:         "CLAUDE.md",
		Explanation:  "Project memory file read by Claude Code.",
		RulePath:     "./",
		RenameOption: RenameOptionFull,
		NewName:      "CLAUDE.md",
		Format:       FormatPlain,
	},
}

// Interface that is compatible with bubble list components
func (t Target) Title() string       { return t.Name }
func (t Target) Description() string { return t.Explanation }
func (t Target) FilterValue() string { return t.ID + " " + t.Name + " " + t.RulePath }

// TargetByID returns the target with the given id.
func TargetByID(id string) (Target, error) {
	for _, t := range Targets {
		if strings.EqualFold(t.ID, id) {
			return t, nil
		}
	}
	ids := make([]string, len(Targets))
	for i, t := range Targets {
		ids[i] = t.ID
	}
	return Target{}, fmt.Errorf("unknown target %q (supported: %s)", id, strings.Join(ids, ", "))
}

// DefaultTarget is where a rule of the given catalog is installed when no
// target is chosen.
func DefaultTarget(kind catalog.Kind) Target {
	if kind == catalog.KindWindsurfRules {
		return Targets[1]
	}
	return Targets[0]
}

// FullPath combines RulePath with the file name derived from currentName.
// The result is relative to the project root.
func (t Target) FullPath(currentName string) string {
	var newName string
	switch t.RenameOption {
	case RenameOptionPrefix:
		newName = t.NewName + currentName
	case RenameOptionSuffix:
		if t.NewName == "" {
			newName = currentName
		} else {
			newName = removeExtension(currentName) + t.NewName
		}
	case RenameOptionFull:
		newName = t.NewName
	default:
		newName = currentName
	}
	return t.RulePath + newName
}

type cursorFrontmatter struct {
	Description string `yaml:"description"`
	Globs       string `yaml:"globs"`
	AlwaysApply bool   `yaml:"alwaysApply"`
}

type windsurfFrontmatter struct {
	Trigger     string `yaml:"trigger"`
	Description string `yaml:"description"`
}

// Render produces the file contents for r in this target's format.
func (t Target) Render(r catalog.Record) (string, error) {
	var header any
	switch t.Format {
	case FormatCursor:
		header = cursorFrontmatter{Description: r.Description}
	case FormatWindsurf:
		header = windsurfFrontmatter{Trigger: "model_decision", Description: r.Description}
	}

	var b strings.Builder
	if header != nil {
		data, err := yaml.Marshal(header)
		if err != nil {
			return "", fmt.Errorf("failed to encode rule frontmatter: %w", err)
		}
		b.WriteString("---\n")
		b.Write(data)
		b.WriteString("---\n\n")
	}
	b.WriteString(strings.TrimSpace(r.Body))
	b.WriteString("\n")
	return b.String(), nil
}

// removeExtension strips the last extension, leaving dotfiles alone.
func removeExtension(filename string) string {
	lastDot := strings.LastIndexAny(filename, "./\\")
	if lastDot <= 0 || filename[lastDot] != '.' {
		return filename
	}
	return filename[:lastDot]
}
