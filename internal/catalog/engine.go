package catalog

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Params drives Apply. The zero value shows nothing; callers normally take
// Visible from a Pager.
type Params struct {
	Category string
	Query    string
	Visible  int

	// Alphabetical adds a collated name tie-break after the featured flag.
	Alphabetical bool
}

// Apply runs the full pipeline: category filter, query filter, sort, paginate.
func Apply(records []Record, p Params) Page {
	filtered := FilterByQuery(FilterByCategory(records, p.Category), p.Query)
	if p.Alphabetical {
		filtered = SortFeaturedFirstByName(filtered)
	} else {
		filtered = SortFeaturedFirst(filtered)
	}
	return Paginate(filtered, p.Visible)
}

// IsAllCategories reports whether category is the "no filter" sentinel.
func IsAllCategories(category string) bool {
	category = strings.TrimSpace(category)
	return category == "" || strings.EqualFold(category, AllCategories)
}

// FilterByCategory keeps records whose category equals category. The "All"
// sentinel (or an empty string) returns records unchanged.
func FilterByCategory(records []Record, category string) []Record {
	if IsAllCategories(category) {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// FilterByQuery keeps records where any of name, description, a tag or the
// body contains query, ignoring case. A blank query returns records unchanged.
func FilterByQuery(records []Record, query string) []Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r Record, lowerQuery string) bool {
	if containsFold(r.Name, lowerQuery) || containsFold(r.Description, lowerQuery) {
		return true
	}
	for _, tag := range r.Tags {
		if containsFold(tag, lowerQuery) {
			return true
		}
	}
	return containsFold(r.Body, lowerQuery)
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

// SortFeaturedFirst returns a copy of records with featured records first.
// Relative order within each group is preserved.
func SortFeaturedFirst(records []Record) []Record {
	out := slices.Clone(records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Featured && !out[j].Featured
	})
	return out
}

// SortFeaturedFirstByName is SortFeaturedFirst with a secondary, locale-aware
// comparison of names (accents and case are significant only as tie-breaks).
func SortFeaturedFirstByName(records []Record) []Record {
	out := slices.Clone(records)
	col := collate.New(language.Und)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Featured != out[j].Featured {
			return out[i].Featured
		}
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// Paginate returns the first visible records along with the total count and
// whether more remain. A negative visible count yields an empty page.
func Paginate(records []Record, visible int) Page {
	if visible < 0 {
		visible = 0
	}
	n := min(visible, len(records))
	return Page{
		Records: records[:n:n],
		Total:   len(records),
		HasMore: len(records) > visible,
	}
}

// Categories returns the sentinel "All" followed by the distinct categories
// of records in collated order.
func Categories(records []Record) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, r := range records {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		categories = append(categories, r.Category)
	}
	collate.New(language.Und).SortStrings(categories)
	return append([]string{AllCategories}, categories...)
}
