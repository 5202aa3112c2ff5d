package catalog

import (
	"regexp"
	"strings"
)

// maxHeadingLen bounds how long a colon-terminated line may be and still count
// as a heading.
const maxHeadingLen = 40

// categorySuffixes are stripped from heading-derived categories, longest first.
var categorySuffixes = []string{
	" Cursor Rules",
	" Windsurf Rules",
	" Best Practices",
	" Guidelines",
	" Development",
	" Rules",
}

// Headings is the typed result of scanning a rule body for structure.
type Headings struct {
	// Category holds the first markdown heading with known suffixes removed.
	// It is empty when HasCategory is false.
	Category    string
	HasCategory bool

	// Tags holds colon-terminated heading lines in first-seen order.
	Tags []string
}

// ParseHeadings extracts the category heading and heading-like tag lines from
// free text. It never fails; an empty body yields an empty result.
func ParseHeadings(body string) Headings {
	var h Headings
	tags := newTagSet()

	inFence := false
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isFence(line) {
			inFence = !inFence
			continue
		}

		// "#" inside a code block is a comment, not a heading
		if !h.HasCategory && !inFence && strings.HasPrefix(line, "#") {
			if category := categoryFromHeading(line); category != "" {
				h.Category = category
				h.HasCategory = true
			}
		}

		if tag, ok := headingTag(line); ok {
			tags.add(tag)
		}
	}

	h.Tags = tags.list()
	return h
}

func isFence(line string) bool {
	return strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~")
}

func categoryFromHeading(line string) string {
	title := strings.TrimSpace(strings.TrimLeft(line, "#"))
	title = strings.TrimSuffix(title, ":")

	for _, suffix := range categorySuffixes {
		n := len(title) - len(suffix)
		if n >= 0 && strings.EqualFold(title[n:], suffix) {
			title = title[:n]
			break
		}
	}
	return strings.TrimSpace(title)
}

// headingTag reports whether line looks like a section label ("Components:")
// and returns it without the colon or markdown heading markers.
func headingTag(line string) (string, bool) {
	if !strings.HasSuffix(line, ":") || len(line) >= maxHeadingLen {
		return "", false
	}
	if isBullet(line) {
		return "", false
	}
	tag := strings.TrimSpace(strings.TrimSuffix(strings.TrimLeft(line, "# "), ":"))
	if tag == "" {
		return "", false
	}
	return tag, true
}

var numberedBullet = regexp.MustCompile(`^\d+[.)]\s`)

func isBullet(line string) bool {
	switch {
	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "),
		strings.HasPrefix(line, "+ "), strings.HasPrefix(line, "•"):
		return true
	}
	return numberedBullet.MatchString(line)
}

// vocabulary is the fixed list of technology and domain terms recognised in
// bodies. Tags are emitted in this spelling.
var vocabulary = []string{
	"React", "Next.js", "Vue", "Nuxt", "Angular", "Svelte", "SvelteKit",
	"TypeScript", "JavaScript", "Node.js", "Python", "Golang", "Rust",
	"Django", "FastAPI", "Flask", "Express", "NestJS", "Laravel", "Rails",
	"Tailwind", "shadcn", "Redux", "Zustand", "GraphQL", "tRPC",
	"Prisma", "Drizzle", "PostgreSQL", "MongoDB", "Supabase", "Firebase", "Redis",
	"Docker", "Kubernetes", "AWS", "Vercel",
	"Flutter", "React Native", "Expo", "Swift", "Kotlin",
	"Testing", "Security", "Accessibility", "Performance", "API", "Database", "AI",
}

var vocabularyPatterns = compileVocabulary(vocabulary)

func compileVocabulary(terms []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		patterns[i] = regexp.MustCompile(`(?i)(^|[^a-z0-9])` + regexp.QuoteMeta(term) + `($|[^a-z0-9])`)
	}
	return patterns
}

// ScanTags returns the vocabulary terms found in text, in vocabulary order.
func ScanTags(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var found []string
	for i, re := range vocabularyPatterns {
		if re.MatchString(text) {
			found = append(found, vocabulary[i])
		}
	}
	return found
}

// tagSet is an insertion-ordered set keyed case-insensitively.
type tagSet struct {
	seen  map[string]struct{}
	items []string
}

func newTagSet() *tagSet {
	return &tagSet{seen: make(map[string]struct{})}
}

func (s *tagSet) add(tags ...string) {
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := s.seen[key]; ok {
			continue
		}
		s.seen[key] = struct{}{}
		s.items = append(s.items, tag)
	}
}

func (s *tagSet) list() []string {
	if len(s.items) == 0 {
		return []string{}
	}
	return s.items
}
