package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"testing/fstest"

	"createmvp/internal/catalog"
	"createmvp/internal/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	fsys := fstest.MapFS{
		"tools.yaml": {Data: []byte(`- name: Bolt
  description: Prompt to full stack app
  category: App Builders
- name: Cursor
  description: AI code editor
  category: Code Editors
  featured: true
- name: Lovable
  description: App builder with Supabase
  category: App Builders
`)},
		"mcp-servers.yaml": {Data: []byte("[]\n")},
		"cursor-rules/01-fastapi.md": {Data: []byte("---\nname: Python FastAPI\ndescription: Building APIs with FastAPI\n---\n# Python Development\n\nUse async endpoints.\n")},
		"cursor-rules/02-fastapi.md": {Data: []byte("---\nname: Python FastAPI\ndescription: A second take\n---\n# Python Rules\n\nPrefer Pydantic v2.\n")},
		"cursor-rules/03-notes.md":   {Data: []byte("---\nname: Scratch Notes\n---\n# Notes\n\nNo description here.\n")},
		"windsurf-rules/01-docs.md":  {Data: []byte("---\nname: Docs Writing\ndescription: Writing clear docs\n---\n# Documentation Guidelines\n\nKeep it short.\n")},
	}
	store, err := catalog.Load(logger, fsys)
	require.NoError(t, err)
	return store
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	return NewServer(testStore(t), logger, "test")
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestNewServer(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	store := testStore(t)

	s := NewServer(store, logger, "1.2.3")

	require.NotNil(t, s.mcpServer)
	assert.Same(t, store, s.store)
	assert.Same(t, logger, s.logger)
	assert.Equal(t, "1.2.3", s.version)
}

func TestNewServer_NilLogger(t *testing.T) {
	s := NewServer(testStore(t), nil, "test")
	assert.NotNil(t, s.logger)
}

func TestRuleTools(t *testing.T) {
	s := newTestServer(t)

	tools := s.RuleTools()
	require.Len(t, tools, 3, "the rule without a description is skipped")

	assert.Equal(t, "cursor_python_fastapi", tools[0].Name)
	assert.Equal(t, "Building APIs with FastAPI (category: Python)", tools[0].Description)
	assert.Equal(t, "cursor_python_fastapi_1", tools[1].Name, "duplicate ids get a numeric suffix")
	assert.Equal(t, "windsurf_docs_writing", tools[2].Name)
	assert.Equal(t, "Writing clear docs (category: Documentation)", tools[2].Description)
}

func TestRuleHandler_ReturnsBody(t *testing.T) {
	s := newTestServer(t)
	tool := s.RuleTools()[1]

	result, err := s.ruleHandler(tool)(context.Background(), callRequest(tool.Name, nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "# Python Rules\n\nPrefer Pydantic v2.", resultText(t, result))
}

func TestHandleListCategories(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleListCategories(context.Background(), callRequest(toolListCategories, map[string]any{"catalog": "tools"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var categories []string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &categories))
	assert.Equal(t, []string{"All", "App Builders", "Code Editors"}, categories)
}

func TestHandleListCategories_InvalidCatalog(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing", map[string]any{}},
		{"unknown", map[string]any{"catalog": "plugins"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleListCategories(context.Background(), callRequest(toolListCategories, tt.args))
			require.NoError(t, err, "argument errors are reported in the result")
			assert.True(t, result.IsError)
		})
	}
}

func TestHandleSearchCatalog(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		args    map[string]any
		wantIDs []string
		total   int
		hasMore bool
	}{
		{
			name:    "featured first",
			args:    map[string]any{"catalog": "tools"},
			wantIDs: []string{"cursor", "bolt", "lovable"},
			total:   3,
		},
		{
			name:    "category filter",
			args:    map[string]any{"catalog": "tools", "category": "App Builders"},
			wantIDs: []string{"bolt", "lovable"},
			total:   2,
		},
		{
			name:    "query matches description",
			args:    map[string]any{"catalog": "tools", "query": "SUPABASE"},
			wantIDs: []string{"lovable"},
			total:   1,
		},
		{
			name:    "limit",
			args:    map[string]any{"catalog": "tools", "limit": 1},
			wantIDs: []string{"cursor"},
			total:   3,
			hasMore: true,
		},
		{
			name:    "query matches rule body",
			args:    map[string]any{"catalog": "cursor", "query": "pydantic"},
			wantIDs: []string{"python-fastapi"},
			total:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleSearchCatalog(context.Background(), callRequest(toolSearchCatalog, tt.args))
			require.NoError(t, err)
			require.False(t, result.IsError, resultText(t, result))

			var got searchResult
			require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &got))

			ids := make([]string, len(got.Records))
			for i, r := range got.Records {
				ids[i] = r.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, tt.hasMore, got.HasMore)
		})
	}
}

func TestHandleSearchCatalog_OmitsBody(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleSearchCatalog(context.Background(), callRequest(toolSearchCatalog, map[string]any{"catalog": "cursor-rules"}))
	require.NoError(t, err)
	assert.NotContains(t, resultText(t, result), "async endpoints")
}

func TestHandleGetRecord(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetRecord(context.Background(), callRequest(toolGetRecord, map[string]any{"id": "docs-writing"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "# Docs Writing")
	assert.Contains(t, text, "Keep it short.")
}

func TestHandleGetRecord_ScopedToCatalog(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetRecord(context.Background(), callRequest(toolGetRecord, map[string]any{"id": "cursor", "catalog": "cursor-rules"}))
	require.NoError(t, err)
	assert.True(t, result.IsError, "tool ids are not found in the rules catalog")

	result, err = s.handleGetRecord(context.Background(), callRequest(toolGetRecord, map[string]any{"id": "cursor", "catalog": "tools"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestHandleGetRecord_NotFoundSuggests(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetRecord(context.Background(), callRequest(toolGetRecord, map[string]any{"id": "fastapi"}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), `no record with id "fastapi"; did you mean python-fastapi`)
}

func TestHandleGetRecord_MissingID(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetRecord(context.Background(), callRequest(toolGetRecord, map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_BundledCatalog(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	store, err := catalog.Load(logger, catalog.Bundled())
	require.NoError(t, err)

	s := NewServer(store, logger, "test")

	want := store.Catalog(catalog.KindCursorRules).Len() + store.Catalog(catalog.KindWindsurfRules).Len()
	assert.Len(t, s.RuleTools(), want, "every bundled rule has a description")
}
