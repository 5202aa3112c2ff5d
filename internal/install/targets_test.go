package install

import (
	"strings"
	"testing"

	"createmvp/internal/catalog"

	"github.com/adrg/frontmatter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetFullPath(t *testing.T) {
	tests := []struct {
		name        string
		target      Target
		currentName string
		expected    string
	}{
		{
			name:        "none option keeps original name",
			target:      Target{RulePath: ".windsurf/rules/", RenameOption: RenameOptionNone},
			currentName: "react-tailwind.md",
			expected:    ".windsurf/rules/react-tailwind.md",
		},
		{
			name:        "prefix option adds prefix",
			target:      Target{RulePath: "./", RenameOption: RenameOptionPrefix, NewName: "team-"},
			currentName: "rules.md",
			expected:    "./team-rules.md",
		},
		{
			name:        "suffix option replaces extension",
			target:      Target{RulePath: ".cursor/rules/", RenameOption: RenameOptionSuffix, NewName: ".mdc"},
			currentName: "python-fastapi.md",
			expected:    ".cursor/rules/python-fastapi.mdc",
		},
		{
			name:        "suffix option keeps dots inside the slug",
			target:      Target{RulePath: ".cursor/rules/", RenameOption: RenameOptionSuffix, NewName: ".mdc"},
			currentName: "next.js-react-typescript.md",
			expected:    ".cursor/rules/next.js-react-typescript.mdc",
		},
		{
			name:        "suffix option with empty suffix",
			target:      Target{RulePath: "./", RenameOption: RenameOptionSuffix},
			currentName: "test.md",
			expected:    "./test.md",
		},
		{
			name:        "full option replaces entire name",
			target:      Target{RulePath: "./", RenameOption: RenameOptionFull, NewName: "AGENTS.md"},
			currentName: "whatever.md",
			expected:    "./AGENTS.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.target.FullPath(tt.currentName))
		})
	}
}

func TestRemoveExtension(t *testing.T) {
	tests := map[string]string{
		"rules.md":         "rules",
		"archive.tar.gz":   "archive.tar",
		"noext":            "noext",
		".hidden":          ".hidden",
		"":                 "",
		"dir.name/file":    "dir.name/file",
		"next.js-react.md": "next.js-react",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, removeExtension(input), "input %q", input)
	}
}

func TestTargetByID(t *testing.T) {
	target, err := TargetByID("Cursor")
	require.NoError(t, err)
	assert.Equal(t, ".cursor/rules/", target.RulePath)

	_, err = TargetByID("emacs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "windsurf")
}

func TestDefaultTarget(t *testing.T) {
	assert.Equal(t, "cursor", DefaultTarget(catalog.KindCursorRules).ID)
	assert.Equal(t, "windsurf", DefaultTarget(catalog.KindWindsurfRules).ID)
}

func TestTargetRender(t *testing.T) {
	r := catalog.Record{
		ID:          "go-backend",
		Kind:        catalog.KindCursorRules,
		Description: "Go services",
		Body:        "\n# Go Rules\n\n- Wrap errors.\n",
	}

	cursor, _ := TargetByID("cursor")
	out, err := cursor.Render(r)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "---\ndescription: Go services\nglobs: \"\"\nalwaysApply: false\n---\n\n"), out)
	assert.True(t, strings.HasSuffix(out, "# Go Rules\n\n- Wrap errors.\n"), out)

	windsurf, _ := TargetByID("windsurf")
	out, err = windsurf.Render(r)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "---\ntrigger: model_decision\ndescription: Go services\n---\n\n"), out)

	agents, _ := TargetByID("agents")
	out, err = agents.Render(r)
	require.NoError(t, err)
	assert.Equal(t, "# Go Rules\n\n- Wrap errors.\n", out)
}

func TestTargetRender_FrontmatterRoundTrip(t *testing.T) {
	descriptions := []string{
		`Say "hello"`,
		"bell\x07char",
		"cr\rinside",
		"multi\nline: with colon",
		"- looks like a list",
		"# looks like a comment",
		`back\slash`,
		"",
	}

	for _, desc := range descriptions {
		r := catalog.Record{ID: "rule", Kind: catalog.KindCursorRules, Description: desc, Body: "# Body\n\ntext"}

		cursor, _ := TargetByID("cursor")
		out, err := cursor.Render(r)
		require.NoError(t, err)

		var cfm cursorFrontmatter
		rest, err := frontmatter.Parse(strings.NewReader(out), &cfm)
		require.NoError(t, err, "cursor description %q", desc)
		assert.Equal(t, desc, cfm.Description)
		assert.False(t, cfm.AlwaysApply)
		assert.Equal(t, "# Body\n\ntext", strings.TrimSpace(string(rest)))

		windsurf, _ := TargetByID("windsurf")
		out, err = windsurf.Render(r)
		require.NoError(t, err)

		var wfm windsurfFrontmatter
		_, err = frontmatter.Parse(strings.NewReader(out), &wfm)
		require.NoError(t, err, "windsurf description %q", desc)
		assert.Equal(t, desc, wfm.Description)
		assert.Equal(t, "model_decision", wfm.Trigger)
	}
}

func TestTargetsListItem(t *testing.T) {
	for _, target := range Targets {
		assert.NotEmpty(t, target.ID)
		assert.Equal(t, target.Name, target.Title())
		assert.Contains(t, target.FilterValue(), target.ID)
	}
}
