package catalog

import (
	"fmt"
	"strings"
)

// Markdown renders a record as a markdown document for the detail view and
// the CLI. Rule records include their full body.
func Markdown(r Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Name)
	if r.Featured {
		b.WriteString("**Featured** · ")
	}
	fmt.Fprintf(&b, "_%s_ · %s\n\n", r.Category, r.Kind.Title())

	if r.Description != "" {
		b.WriteString(r.Description)
		b.WriteString("\n\n")
	}
	if len(r.Tags) > 0 {
		tags := make([]string, len(r.Tags))
		for i, tag := range r.Tags {
			tags[i] = "`" + tag + "`"
		}
		fmt.Fprintf(&b, "Tags: %s\n\n", strings.Join(tags, " "))
	}
	if r.URL != "" {
		fmt.Fprintf(&b, "<%s>\n\n", r.URL)
	}
	if body := strings.TrimSpace(r.Body); body != "" {
		b.WriteString("---\n\n")
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}
