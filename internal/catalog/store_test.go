package catalog

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"createmvp/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func featuredNames(c *Catalog) []string {
	var out []string
	for _, r := range c.Records() {
		if r.Featured {
			out = append(out, r.Name)
		}
	}
	return out
}

func TestDefault_BundledCatalogs(t *testing.T) {
	store, err := Default()
	require.NoError(t, err)

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, store, again)

	tools := store.Catalog(KindTools)
	assert.Equal(t, 9, tools.Len())
	assert.Equal(t, []string{"Cursor", "Windsurf"}, featuredNames(tools))

	cursor := store.Catalog(KindCursorRules)
	assert.Equal(t, 6, cursor.Len())
	assert.Len(t, featuredNames(cursor), 3)
	assert.Equal(t, []string{"All", "Backend", "Flutter", "General", "Next.js", "Python", "Vue.js"}, cursor.Categories())

	windsurf := store.Catalog(KindWindsurfRules)
	assert.Equal(t, []string{"All", "Django", "General", "React", "Supabase", "SwiftUI"}, windsurf.Categories())

	servers := store.Catalog(KindMCPServers)
	assert.ElementsMatch(t, []string{"Filesystem", "GitHub", "Postgres"}, featuredNames(servers))
	assert.True(t, servers.Alphabetical())

	for _, kind := range Kinds() {
		assert.Empty(t, store.Catalog(kind).DuplicateIDs(), "bundled %s ids must be unique", kind)
	}
}

func TestDefault_RuleRecordShape(t *testing.T) {
	store, err := Default()
	require.NoError(t, err)

	r, ok := store.Catalog(KindCursorRules).Lookup("python-fastapi")
	require.True(t, ok)
	assert.Equal(t, "Python FastAPI", r.Name)
	assert.Equal(t, "Python", r.Category)
	assert.Contains(t, r.Tags, "Python")
	assert.Contains(t, r.Tags, "FastAPI")
	assert.NotContains(t, r.Body, "---", "frontmatter must be stripped from the body")
	assert.True(t, r.Featured)

	_, ok = store.Find("github")
	assert.True(t, ok)
	_, ok = store.Find("missing")
	assert.False(t, ok)
}

func TestCatalogApply_MCPAlphabetical(t *testing.T) {
	store, err := Default()
	require.NoError(t, err)

	page := store.Catalog(KindMCPServers).Apply(AllCategories, "", 5)
	assert.Equal(t, []string{"Filesystem", "GitHub", "Postgres", "Brave Search", "Docker"}, names(page.Records))
	assert.True(t, page.HasMore)
}

func baseFS() fstest.MapFS {
	return fstest.MapFS{
		"tools.yaml":       {Data: []byte("- name: Same\n- name: same\n- name: Other\n  featured: true\n")},
		"mcp-servers.yaml": {Data: []byte("[]\n")},
		"cursor-rules/01-a.md": {Data: []byte("---\nname: Alpha\ndescription: first\n---\n# Alpha Rules\nbody")},
		"windsurf-rules":       {Mode: fs.ModeDir | 0755},
	}
}

func TestLoad_ReportsDuplicates(t *testing.T) {
	logger, buf := logging.NewTestLogger()

	store, err := Load(logger, baseFS())
	require.NoError(t, err)

	tools := store.Catalog(KindTools)
	assert.Equal(t, 3, tools.Len(), "duplicates are kept")
	assert.Equal(t, []string{"same"}, tools.DuplicateIDs())
	assert.Contains(t, buf.String(), "Duplicate catalog ids")

	r, ok := tools.Lookup("same")
	require.True(t, ok)
	assert.Equal(t, "Same", r.Name, "lookup returns the first record")
	assert.Equal(t, 0, store.Catalog(KindWindsurfRules).Len())
}

func TestLoad_Overlay(t *testing.T) {
	logger, buf := logging.NewTestLogger()
	overlay := fstest.MapFS{
		"cursor-rules/03-react-native.md": {Data: []byte("# React Native Rules\nUse Expo.")},
		"cursor-rules/bad.md":             {Data: []byte("---\nname: [unclosed\n---\nbody")},
		"cursor-rules/notes.txt":          {Data: []byte("ignored")},
	}

	store, err := Load(logger, baseFS(), overlay)
	require.NoError(t, err)

	rules := store.Catalog(KindCursorRules)
	require.Equal(t, 2, rules.Len())

	extra := rules.Records()[1]
	assert.Equal(t, "react native", extra.Name)
	assert.Equal(t, "react-native", extra.ID)
	assert.Equal(t, "React Native", extra.Category)
	assert.Equal(t, []string{"React", "React Native", "Expo"}, extra.Tags)
	assert.True(t, extra.Featured, "second record of the catalog is within the featured window")

	assert.Contains(t, buf.String(), "Skipping rule file")
}

func TestLoad_MissingBaseData(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	fsys := baseFS()
	delete(fsys, "tools.yaml")

	_, err := Load(logger, fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tools")
}

func TestLoad_InvalidYAML(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	fsys := baseFS()
	fsys["mcp-servers.yaml"] = &fstest.MapFile{Data: []byte("name: [")}

	_, err := Load(logger, fsys)
	assert.Error(t, err)
}

func TestOpen_RulesDir(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "windsurf-rules"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "windsurf-rules", "team.md"),
		[]byte("---\nname: Team Conventions\ncategory: Team\n---\nReview every PR."), 0644))

	store, err := Open(logger, dir)
	require.NoError(t, err)

	r, ok := store.Catalog(KindWindsurfRules).Lookup("team-conventions")
	require.True(t, ok)
	assert.Equal(t, "Team", r.Category)
	assert.False(t, r.Featured)

	_, err = Open(logger, filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestStore_UnknownKind(t *testing.T) {
	store, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 0, store.Catalog(Kind("nope")).Len())
}

func TestNameFromFile(t *testing.T) {
	assert.Equal(t, "react native", nameFromFile("cursor-rules/03-react-native.md"))
	assert.Equal(t, "clean code", nameFromFile("clean_code.mdc"))
}
