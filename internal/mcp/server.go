package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"createmvp/internal/catalog"
	"createmvp/internal/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName = "createmvp"

	toolListCategories = "list_categories"
	toolSearchCatalog  = "search_catalog"
	toolGetRecord      = "get_catalog_record"

	defaultSearchLimit = 20
	maxSuggestions     = 3
)

// Server represents an MCP server instance using mcp-go
type Server struct {
	store     *catalog.Store
	logger    *logging.AppLogger
	version   string
	mcpServer *server.MCPServer
	rules     *ruleToolRegistry
}

// NewServer builds the MCP server and registers every tool. Nothing is read
// from stdin until Start is called.
func NewServer(store *catalog.Store, logger *logging.AppLogger, version string) *Server {
	if logger == nil {
		logger = logging.GetDefault()
	}
	s := &Server{
		store:   store,
		logger:  logger,
		version: version,
		rules:   newRuleToolRegistry(),
	}
	s.mcpServer = server.NewMCPServer(serverName, version, server.WithToolCapabilities(false))
	s.registerCatalogTools()
	s.registerRuleTools()
	return s
}

// Start serves JSON-RPC over stdio until EOF or termination.
func (s *Server) Start() error {
	s.logger.Info("Starting MCP server", "version", s.version, "ruleTools", len(s.rules.order))
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// RuleTools returns the registered rule tools in registration order.
func (s *Server) RuleTools() []*RuleTool {
	out := make([]*RuleTool, 0, len(s.rules.order))
	for _, name := range s.rules.order {
		out = append(out, s.rules.tools[name])
	}
	return out
}

func (s *Server) registerCatalogTools() {
	kinds := make([]string, 0, len(catalog.Kinds()))
	for _, k := range catalog.Kinds() {
		kinds = append(kinds, string(k))
	}

	s.mcpServer.AddTool(mcp.NewTool(toolListCategories,
		mcp.WithDescription("List the categories of a CreateMVP catalog. The first entry is always \"All\"."),
		mcp.WithString("catalog", mcp.Required(), mcp.Enum(kinds...), mcp.Description("Catalog to inspect")),
	), s.handleListCategories)

	s.mcpServer.AddTool(mcp.NewTool(toolSearchCatalog,
		mcp.WithDescription("Search a CreateMVP catalog. Featured records come first. Matches name, description, tags and rule text."),
		mcp.WithString("catalog", mcp.Required(), mcp.Enum(kinds...), mcp.Description("Catalog to search")),
		mcp.WithString("query", mcp.Description("Case-insensitive search text")),
		mcp.WithString("category", mcp.Description("Category to filter by; \"All\" or empty disables the filter")),
		mcp.WithNumber("limit", mcp.Description(fmt.Sprintf("Maximum records to return (default %d)", defaultSearchLimit))),
	), s.handleSearchCatalog)

	s.mcpServer.AddTool(mcp.NewTool(toolGetRecord,
		mcp.WithDescription("Get one catalog record as markdown, including the full rule text for rules."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record id as returned by search_catalog")),
		mcp.WithString("catalog", mcp.Enum(kinds...), mcp.Description("Restrict the lookup to one catalog")),
	), s.handleGetRecord)
}

func (s *Server) registerRuleTools() {
	reserved := map[string]bool{toolListCategories: true, toolSearchCatalog: true, toolGetRecord: true}
	skipped := 0
	for _, kind := range catalog.Kinds() {
		if !kind.IsRules() {
			continue
		}
		for _, r := range s.store.Catalog(kind).Records() {
			tool, ok := s.rules.add(r, reserved)
			if !ok {
				s.logger.Debug("Skipping rule without description", "id", r.ID)
				skipped++
				continue
			}
			s.mcpServer.AddTool(mcp.NewTool(tool.Name, mcp.WithDescription(tool.Description)), s.ruleHandler(tool))
		}
	}
	s.logger.Debug("Rule tools registered", "tools", len(s.rules.order), "skipped", skipped)
}

func (s *Server) ruleHandler(tool *RuleTool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.logger.Debug("Rule tool called", "tool", tool.Name, "id", tool.Record.ID)
		return mcp.NewToolResultText(strings.TrimSpace(tool.Record.Body)), nil
	}
}

func (s *Server) handleListCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, errResult := requireKind(req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(s.store.Catalog(kind).Categories())
}

// searchRecord is a record without its body, as returned by search_catalog.
type searchRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
	URL         string   `json:"url,omitempty"`
}

type searchResult struct {
	Total   int            `json:"total"`
	HasMore bool           `json:"hasMore"`
	Records []searchRecord `json:"records"`
}

func (s *Server) handleSearchCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, errResult := requireKind(req)
	if errResult != nil {
		return errResult, nil
	}
	limit := req.GetInt("limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	page := s.store.Catalog(kind).Apply(req.GetString("category", ""), req.GetString("query", ""), limit)
	out := searchResult{Total: page.Total, HasMore: page.HasMore, Records: make([]searchRecord, 0, len(page.Records))}
	for _, r := range page.Records {
		out.Records = append(out.Records, searchRecord{
			ID:          r.ID,
			Name:        r.Name,
			Category:    r.Category,
			Description: r.Description,
			Tags:        r.Tags,
			Featured:    r.Featured,
			URL:         r.URL,
		})
	}
	return jsonResult(out)
}

func (s *Server) handleGetRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var (
		r          catalog.Record
		found      bool
		candidates []catalog.Record
	)
	if name := req.GetString("catalog", ""); name != "" {
		kind, err := catalog.ParseKind(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		c := s.store.Catalog(kind)
		r, found = c.Lookup(id)
		candidates = c.Records()
	} else {
		r, found = s.store.Find(id)
		for _, kind := range catalog.Kinds() {
			candidates = append(candidates, s.store.Catalog(kind).Records()...)
		}
	}

	if !found {
		msg := fmt.Sprintf("no record with id %q", id)
		if suggestions := catalog.Suggest(candidates, id, maxSuggestions); len(suggestions) > 0 {
			msg += "; did you mean " + strings.Join(suggestions, ", ") + "?"
		}
		return mcp.NewToolResultError(msg), nil
	}
	return mcp.NewToolResultText(catalog.Markdown(r)), nil
}

func requireKind(req mcp.CallToolRequest) (catalog.Kind, *mcp.CallToolResult) {
	name, err := req.RequireString("catalog")
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	kind, err := catalog.ParseKind(name)
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	return kind, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
