package mcp

import (
	"fmt"
	"regexp"
	"strings"

	"createmvp/internal/catalog"
)

const (
	maxToolNameLength = 64
	fallbackToolName  = "rule"
)

var nonIdentifier = regexp.MustCompile(`[^a-z0-9_]+`)

// RuleTool is a rule record registered as an MCP tool.
type RuleTool struct {
	Name        string
	Description string
	Record      catalog.Record
}

// ruleToolRegistry assigns unique tool names to rule records.
type ruleToolRegistry struct {
	tools map[string]*RuleTool
	order []string
}

func newRuleToolRegistry() *ruleToolRegistry {
	return &ruleToolRegistry{tools: make(map[string]*RuleTool)}
}

// add registers r unless it has no description or body. reserved names are
// treated as taken.
func (reg *ruleToolRegistry) add(r catalog.Record, reserved map[string]bool) (*RuleTool, bool) {
	if strings.TrimSpace(r.Description) == "" || strings.TrimSpace(r.Body) == "" {
		return nil, false
	}
	tool := &RuleTool{
		Name:        reg.uniqueName(toolBaseName(r), reserved),
		Description: toolDescription(r),
		Record:      r,
	}
	reg.tools[tool.Name] = tool
	reg.order = append(reg.order, tool.Name)
	return tool, true
}

func (reg *ruleToolRegistry) uniqueName(base string, reserved map[string]bool) string {
	name := base
	for counter := 1; ; counter++ {
		if _, exists := reg.tools[name]; !exists && !reserved[name] {
			return name
		}
		suffix := fmt.Sprintf("_%d", counter)
		trimmed := base
		if len(trimmed)+len(suffix) > maxToolNameLength {
			trimmed = strings.TrimRight(trimmed[:maxToolNameLength-len(suffix)], "_")
		}
		name = trimmed + suffix
	}
}

// toolBaseName prefixes the sanitized record id with the editor the rule
// belongs to, e.g. "cursor_python_fastapi".
func toolBaseName(r catalog.Record) string {
	prefix := "cursor"
	if r.Kind == catalog.KindWindsurfRules {
		prefix = "windsurf"
	}

	id := nonIdentifier.ReplaceAllString(strings.ToLower(r.ID), "_")
	id = strings.Trim(id, "_")
	if id == "" {
		id = fallbackToolName
	}

	name := prefix + "_" + id
	if len(name) > maxToolNameLength {
		name = strings.TrimRight(name[:maxToolNameLength], "_")
	}
	return name
}

// toolDescription formats "{description} (category: {category})".
func toolDescription(r catalog.Record) string {
	description := strings.TrimSpace(r.Description)
	if r.Category != "" {
		description = fmt.Sprintf("%s (category: %s)", description, r.Category)
	}
	return description
}
