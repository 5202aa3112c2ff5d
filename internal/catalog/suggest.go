package catalog

import "github.com/sahilm/fuzzy"

// recordIDs adapts a record slice to fuzzy.Source.
type recordIDs []Record

func (r recordIDs) String(i int) string { return r[i].ID }
func (r recordIDs) Len() int            { return len(r) }

// Suggest returns up to limit distinct record ids that fuzzily match id, best first.
// It is used to answer "did you mean" when a lookup fails.
func Suggest(records []Record, id string, limit int) []string {
	if id == "" || limit <= 0 {
		return nil
	}
	matches := fuzzy.FindFrom(id, recordIDs(records))
	out := make([]string, 0, min(limit, len(matches)))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		if id := records[m.Index].ID; !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
