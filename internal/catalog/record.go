package catalog

import (
	"fmt"
	"strings"
)

// Kind identifies one of the bundled catalogs.
type Kind string

const (
	KindTools         Kind = "tools"
	KindCursorRules   Kind = "cursor-rules"
	KindWindsurfRules Kind = "windsurf-rules"
	KindMCPServers    Kind = "mcp-servers"
)

const (
	// DefaultCategory is used when a record has no category and none can be derived.
	DefaultCategory = "General"

	// AllCategories is the sentinel category that disables category filtering.
	AllCategories = "All"
)

// Kinds returns every catalog kind in menu order.
func Kinds() []Kind {
	return []Kind{KindTools, KindCursorRules, KindWindsurfRules, KindMCPServers}
}

// ParseKind accepts the kind name or a short alias ("cursor", "windsurf", "mcp").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tools", "tool":
		return KindTools, nil
	case "cursor-rules", "cursor":
		return KindCursorRules, nil
	case "windsurf-rules", "windsurf":
		return KindWindsurfRules, nil
	case "mcp-servers", "mcp":
		return KindMCPServers, nil
	}
	return "", fmt.Errorf("unknown catalog %q (supported: tools, cursor-rules, windsurf-rules, mcp-servers)", s)
}

// Title is the human readable catalog name.
func (k Kind) Title() string {
	switch k {
	case KindTools:
		return "AI Tools"
	case KindCursorRules:
		return "Cursor Rules"
	case KindWindsurfRules:
		return "Windsurf Rules"
	case KindMCPServers:
		return "MCP Servers"
	}
	return string(k)
}

// IsRules reports whether records of this kind are rule documents.
func (k Kind) IsRules() bool {
	return k == KindCursorRules || k == KindWindsurfRules
}

// RawRecord is a catalog entry as it appears in the bundled data, before
// normalization. Only Name is expected to be set; everything else may be empty.
type RawRecord struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Category    string   `yaml:"category,omitempty" json:"category,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Featured    bool     `yaml:"featured,omitempty" json:"featured,omitempty"`
	URL         string   `yaml:"url,omitempty" json:"url,omitempty"`
	Body        string   `yaml:"body,omitempty" json:"body,omitempty"`
}

// Record is a normalized, display-ready catalog entry. Records are built once
// at load time and never modified afterwards.
type Record struct {
	ID          string   `json:"id" yaml:"id"`
	Kind        Kind     `json:"kind" yaml:"kind"`
	Name        string   `json:"name" yaml:"name"`
	Category    string   `json:"category" yaml:"category"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
	Body        string   `json:"body,omitempty" yaml:"body,omitempty"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	Featured    bool     `json:"featured" yaml:"featured"`
}

// Raw converts a normalized record back into raw form. Normalizing the result
// again yields the same record.
func (r Record) Raw() RawRecord {
	return RawRecord{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Tags:        append([]string(nil), r.Tags...),
		Featured:    r.Featured,
		URL:         r.URL,
		Body:        r.Body,
	}
}

// Page is one window of a filtered, sorted record sequence.
type Page struct {
	Records []Record
	Total   int
	HasMore bool
}
