package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"createmvp/internal/logging"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

//go:embed data
var bundled embed.FS

// maxRuleFileSize caps rule documents read from a local rules directory.
const maxRuleFileSize = 1 << 20

// Bundled returns the catalog data compiled into the binary.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// Catalog is one immutable, normalized catalog. It is safe to share between
// goroutines; callers must not modify the slice returned by Records.
type Catalog struct {
	kind    Kind
	records []Record
	byID    map[string]int
}

func newCatalog(kind Kind, records []Record) *Catalog {
	c := &Catalog{kind: kind, records: records, byID: make(map[string]int, len(records))}
	for i, r := range records {
		if _, ok := c.byID[r.ID]; !ok {
			c.byID[r.ID] = i
		}
	}
	return c
}

func (c *Catalog) Kind() Kind { return c.kind }

// Records returns the normalized records in catalog order.
func (c *Catalog) Records() []Record { return c.records }

func (c *Catalog) Len() int { return len(c.records) }

// Categories returns "All" followed by the catalog's distinct categories.
func (c *Catalog) Categories() []string { return Categories(c.records) }

// Lookup returns the first record with the given id.
func (c *Catalog) Lookup(id string) (Record, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// DuplicateIDs lists ids shared by more than one record, in first-seen order.
func (c *Catalog) DuplicateIDs() []string {
	counts := make(map[string]int, len(c.records))
	var dups []string
	for _, r := range c.records {
		counts[r.ID]++
		if counts[r.ID] == 2 {
			dups = append(dups, r.ID)
		}
	}
	return dups
}

// Alphabetical reports whether the catalog sorts by name after the featured flag.
func (c *Catalog) Alphabetical() bool {
	return c.kind == KindMCPServers
}

// Apply runs the engine pipeline over this catalog.
func (c *Catalog) Apply(category, query string, visible int) Page {
	return Apply(c.records, Params{
		Category:     category,
		Query:        query,
		Visible:      visible,
		Alphabetical: c.Alphabetical(),
	})
}

// Store holds every catalog kind.
type Store struct {
	catalogs map[Kind]*Catalog
}

// Catalog returns the catalog for kind. Unknown kinds yield an empty catalog.
func (s *Store) Catalog(kind Kind) *Catalog {
	if c, ok := s.catalogs[kind]; ok {
		return c
	}
	return newCatalog(kind, nil)
}

// Find looks an id up across every catalog in menu order.
func (s *Store) Find(id string) (Record, bool) {
	for _, kind := range Kinds() {
		if r, ok := s.Catalog(kind).Lookup(id); ok {
			return r, true
		}
	}
	return Record{}, false
}

var (
	defaultStore *Store
	defaultErr   error
	defaultOnce  sync.Once
)

// Default returns the store built from the bundled data. It is loaded once.
func Default() (*Store, error) {
	defaultOnce.Do(func() {
		defaultStore, defaultErr = Load(logging.GetDefault(), Bundled())
	})
	return defaultStore, defaultErr
}

// Open returns the bundled store, extended with rule documents from rulesDir
// when it is set.
func Open(logger *logging.AppLogger, rulesDir string) (*Store, error) {
	if strings.TrimSpace(rulesDir) == "" {
		return Default()
	}
	info, err := os.Stat(rulesDir)
	if err != nil {
		return nil, fmt.Errorf("rules directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("rules directory %s is not a directory", rulesDir)
	}
	return Load(logger, Bundled(), os.DirFS(rulesDir))
}

// Load builds a store from fsys, which must contain tools.yaml,
// mcp-servers.yaml, cursor-rules/ and windsurf-rules/. Each overlay may hold
// any subset of that layout; its records are appended after the base ones and
// unreadable overlay documents are skipped with a warning.
func Load(logger *logging.AppLogger, fsys fs.FS, overlays ...fs.FS) (*Store, error) {
	if logger == nil {
		logger = logging.GetDefault()
	}

	store := &Store{catalogs: make(map[Kind]*Catalog)}
	for _, kind := range Kinds() {
		raws, err := readKind(logger, fsys, kind, false)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", kind, err)
		}
		for _, overlay := range overlays {
			extra, err := readKind(logger, overlay, kind, true)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s overlay: %w", kind, err)
			}
			raws = append(raws, extra...)
		}

		c := newCatalog(kind, Normalize(kind, raws))
		if dups := c.DuplicateIDs(); len(dups) > 0 {
			logger.Warn("Duplicate catalog ids", "catalog", kind, "ids", dups)
		}
		logger.Debug("Catalog loaded", "catalog", kind, "records", c.Len())
		store.catalogs[kind] = c
	}
	return store, nil
}

func readKind(logger *logging.AppLogger, fsys fs.FS, kind Kind, optional bool) ([]RawRecord, error) {
	if kind.IsRules() {
		return readRuleDir(logger, fsys, string(kind), optional)
	}
	return readRecordList(fsys, string(kind)+".yaml", optional)
}

func readRecordList(fsys fs.FS, name string, optional bool) ([]RawRecord, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var raws []RawRecord
	if err := yaml.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return raws, nil
}

// ruleFrontmatter is the header accepted on rule documents.
type ruleFrontmatter struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
	Featured    bool     `yaml:"featured"`
	URL         string   `yaml:"url"`
}

func readRuleDir(logger *logging.AppLogger, fsys fs.FS, dir string, optional bool) ([]RawRecord, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var raws []RawRecord
	for _, entry := range entries {
		if entry.IsDir() || !isRuleFile(entry.Name()) {
			continue
		}
		name := path.Join(dir, entry.Name())
		raw, err := readRuleFile(fsys, name)
		if err != nil {
			if !optional {
				return nil, err
			}
			logger.Warn("Skipping rule file", "path", name, "error", err)
			continue
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

func isRuleFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".mdc":
		return true
	}
	return false
}

func readRuleFile(fsys fs.FS, name string) (RawRecord, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return RawRecord{}, err
	}
	if info.Size() > maxRuleFileSize {
		return RawRecord{}, fmt.Errorf("%s: size %d bytes exceeds limit %d bytes", name, info.Size(), maxRuleFileSize)
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return RawRecord{}, err
	}

	var matter ruleFrontmatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &matter)
	if err != nil {
		return RawRecord{}, fmt.Errorf("%s: invalid frontmatter: %w", name, err)
	}

	if strings.TrimSpace(matter.Name) == "" {
		matter.Name = nameFromFile(name)
	}
	return RawRecord{
		Name:        matter.Name,
		Description: matter.Description,
		Category:    matter.Category,
		Tags:        matter.Tags,
		Featured:    matter.Featured,
		URL:         matter.URL,
		Body:        strings.TrimSpace(string(body)),
	}, nil
}

// nameFromFile turns "03-react-native.md" into "react native".
func nameFromFile(name string) string {
	stem := strings.TrimSuffix(path.Base(name), path.Ext(name))
	stem = strings.TrimLeft(stem, "0123456789")
	stem = strings.Trim(stem, "-_ ")
	return strings.NewReplacer("-", " ", "_", " ").Replace(stem)
}
