package catalog

import (
	"regexp"
	"strings"
)

// featuredRuleCount is how many leading records of a rule catalog are featured.
const featuredRuleCount = 3

// featuredServers are MCP servers always promoted to the front.
var featuredServers = map[string]struct{}{
	"github":     {},
	"filesystem": {},
	"postgres":   {},
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug derives a record id from its display name: lower case, with every run
// of whitespace replaced by a single hyphen.
func Slug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// Normalize turns raw records into display-ready records for the given
// catalog. It is deterministic, keeps input order and never de-duplicates:
// two raw records with the same name produce two records with the same id.
func Normalize(kind Kind, raws []RawRecord) []Record {
	records := make([]Record, 0, len(raws))
	for i, raw := range raws {
		records = append(records, normalizeOne(kind, i, raw))
	}
	return records
}

func normalizeOne(kind Kind, index int, raw RawRecord) Record {
	name := strings.TrimSpace(raw.Name)
	description := strings.TrimSpace(raw.Description)

	var headings Headings
	if kind.IsRules() {
		headings = ParseHeadings(raw.Body)
	}

	return Record{
		ID:          Slug(name),
		Kind:        kind,
		Name:        name,
		Category:    deriveCategory(kind, raw, headings),
		Description: description,
		Tags:        deriveTags(raw, description, headings),
		Body:        raw.Body,
		URL:         strings.TrimSpace(raw.URL),
		Featured:    isFeatured(kind, index, raw),
	}
}

func deriveCategory(kind Kind, raw RawRecord, headings Headings) string {
	if category := strings.TrimSpace(raw.Category); category != "" {
		return category
	}
	if kind.IsRules() && headings.HasCategory {
		return headings.Category
	}
	return DefaultCategory
}

// deriveTags merges explicit tags with vocabulary hits from the body (or the
// description when there is no body). Heading-like lines are only used when
// the vocabulary scan finds nothing.
func deriveTags(raw RawRecord, description string, headings Headings) []string {
	tags := newTagSet()
	tags.add(raw.Tags...)

	text := raw.Body
	if strings.TrimSpace(text) == "" {
		text = description
	}
	scanned := ScanTags(text)
	tags.add(scanned...)

	if len(scanned) == 0 {
		tags.add(headings.Tags...)
	}
	return tags.list()
}

func isFeatured(kind Kind, index int, raw RawRecord) bool {
	if raw.Featured {
		return true
	}
	switch kind {
	case KindCursorRules, KindWindsurfRules:
		return index < featuredRuleCount
	case KindMCPServers:
		_, ok := featuredServers[Slug(strings.TrimSpace(raw.Name))]
		return ok
	}
	return false
}
