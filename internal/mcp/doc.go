// Package mcp serves the CreateMVP catalog over the Model Context Protocol
// using the mcp-go library (github.com/mark3labs/mcp-go).
//
// # Tools
//
// Three catalog tools are always registered:
//   - list_categories: the category list of one catalog, "All" first
//   - search_catalog: the filter, search and sort pipeline used by the TUI
//   - get_catalog_record: one record rendered as markdown
//
// In addition every rule that has a description is exposed as its own tool
// that returns the rule body, so an assistant can pull in a rule by name.
// Tool names are derived from the rule id and made unique with a numeric
// suffix.
//
// # Usage
//
// The server is started as a subprocess by an assistant with MCP support:
//
//	createmvp mcp
//
// It reads JSON-RPC requests from stdin and writes responses to stdout until
// it receives EOF or is terminated. Logs must never go to stdout while the
// server runs.
package mcp
