package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"createmvp/internal/catalog"
	"createmvp/internal/logging"
	"createmvp/internal/tui/components"

	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"
)

const (
	suggestionLimit  = 3
	descriptionWidth = 60
	showRenderWidth  = 80
)

var (
	listCategory string
	listSearch   string
	listLimit    int
	listAll      bool
	listJSON     bool

	showKind string
	showRaw  bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Query the AI tools, rules and MCP server catalogs",
}

var catalogListCmd = &cobra.Command{
	Use:   "list [tools|cursor|windsurf|mcp]",
	Short: "List catalog records, featured first",
	Long: `List the records of one catalog after applying the category and search
filters. The catalog defaults to tools. Output is limited to one page
(page_size from the config) unless --all or --limit is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogList,
}

var catalogCategoriesCmd = &cobra.Command{
	Use:   "categories [tools|cursor|windsurf|mcp]",
	Short: "List the categories of a catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogCategories,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one record, including the full rule document",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

func init() {
	catalogListCmd.Flags().StringVarP(&listCategory, "category", "c", catalog.AllCategories, "Only records in this category")
	catalogListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Case-insensitive match on name, description and tags")
	catalogListCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Maximum number of records (default: page_size)")
	catalogListCmd.Flags().BoolVar(&listAll, "all", false, "List every matching record")
	catalogListCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	catalogShowCmd.Flags().StringVarP(&showKind, "kind", "k", "", "Only look in this catalog")
	catalogShowCmd.Flags().BoolVar(&showRaw, "raw", false, "Print markdown without terminal styling")

	catalogCmd.AddCommand(catalogListCmd, catalogCategoriesCmd, catalogShowCmd)
}

func kindArg(args []string) (catalog.Kind, error) {
	if len(args) == 0 {
		return catalog.KindTools, nil
	}
	return catalog.ParseKind(args[0])
}

type listOutput struct {
	Catalog  catalog.Kind     `json:"catalog"`
	Category string           `json:"category"`
	Query    string           `json:"query,omitempty"`
	Total    int              `json:"total"`
	HasMore  bool             `json:"hasMore"`
	Records  []catalog.Record `json:"records"`
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	kind, err := kindArg(args)
	if err != nil {
		return err
	}
	cfg, store, err := openStore(logging.NewAppLogger())
	if err != nil {
		return err
	}

	limit := cfg.PageSize
	if listLimit > 0 {
		limit = listLimit
	}
	c := store.Catalog(kind)
	if listAll {
		limit = c.Len()
	}
	page := c.Apply(listCategory, listSearch, limit)

	out := cmd.OutOrStdout()
	if listJSON {
		records := make([]catalog.Record, len(page.Records))
		for i, r := range page.Records {
			r.Body = ""
			records[i] = r
		}
		return printJSON(out, listOutput{
			Catalog:  kind,
			Category: listCategory,
			Query:    listSearch,
			Total:    page.Total,
			HasMore:  page.HasMore,
			Records:  records,
		})
	}

	if page.Total == 0 {
		fmt.Fprintf(out, "No %s match.\n", kind.Title())
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tDESCRIPTION")
	for _, r := range page.Records {
		name := r.Name
		if r.Featured {
			name += " ★"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, name, r.Category, truncate.StringWithTail(r.Description, descriptionWidth, "…"))
	}
	w.Flush()

	if page.HasMore {
		fmt.Fprintf(out, "\nShowing %d of %d. Use --all to list everything.\n", len(page.Records), page.Total)
	}
	return nil
}

func runCatalogCategories(cmd *cobra.Command, args []string) error {
	kind, err := kindArg(args)
	if err != nil {
		return err
	}
	_, store, err := openStore(logging.NewAppLogger())
	if err != nil {
		return err
	}
	for _, category := range store.Catalog(kind).Categories() {
		fmt.Fprintln(cmd.OutOrStdout(), category)
	}
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	_, store, err := openStore(logging.NewAppLogger())
	if err != nil {
		return err
	}
	r, err := findRecord(store, args[0], showKind)
	if err != nil {
		return err
	}

	doc := catalog.Markdown(r)
	if showRaw {
		_, err := io.WriteString(cmd.OutOrStdout(), doc)
		return err
	}
	rendered, err := components.NewMarkdownRenderer("").Render(string(r.Kind)+"/"+r.ID, doc, showRenderWidth)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), rendered)
	return err
}

// findRecord looks id up in one catalog, or in all of them when kindName is
// empty. A miss suggests close ids.
func findRecord(store *catalog.Store, id, kindName string) (catalog.Record, error) {
	var candidates []catalog.Record
	if kindName != "" {
		kind, err := catalog.ParseKind(kindName)
		if err != nil {
			return catalog.Record{}, err
		}
		c := store.Catalog(kind)
		if r, ok := c.Lookup(id); ok {
			return r, nil
		}
		candidates = c.Records()
	} else {
		if r, ok := store.Find(id); ok {
			return r, nil
		}
		for _, kind := range catalog.Kinds() {
			candidates = append(candidates, store.Catalog(kind).Records()...)
		}
	}

	msg := fmt.Sprintf("no record with id %q", id)
	if suggestions := catalog.Suggest(candidates, id, suggestionLimit); len(suggestions) > 0 {
		msg += "; did you mean " + strings.Join(suggestions, ", ") + "?"
	}
	return catalog.Record{}, errors.New(msg)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
