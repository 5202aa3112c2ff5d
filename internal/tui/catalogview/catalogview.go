// Package catalogview is the catalog browser: a filtered, searchable, paged
// list of records with a detail dialog.
package catalogview

import (
	"errors"
	"fmt"
	"strings"

	"createmvp/internal/catalog"
	"createmvp/internal/install"
	"createmvp/internal/logging"
	"createmvp/internal/tui/components"
	"createmvp/internal/tui/helpers"
	"createmvp/internal/tui/styles"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

type viewMode int

const (
	modeCompact viewMode = iota
	modeExpanded
)

func (m viewMode) String() string {
	if m == modeExpanded {
		return "expanded"
	}
	return "compact"
}

type (
	detailRenderedMsg struct {
		id      string
		content string
		err     error
	}

	installResultMsg struct {
		id   string
		path string
		err  error
	}

	copyResultMsg struct {
		id  string
		err error
	}
)

// Model browses one catalog.
type Model struct {
	logger  *logging.AppLogger
	catalog *catalog.Catalog
	pager   *catalog.Pager

	categories  []string
	categoryIdx int
	search      textinput.Model

	mode        viewMode
	showFilters bool
	showSearch  bool
	cursor      int
	page        catalog.Page

	detailOpen bool
	detail     catalog.Record
	viewport   viewport.Model
	renderer   *components.MarkdownRenderer

	installer  *install.Installer
	projectDir string
	copyText   func(string) error

	layout components.LayoutModel
	keys   KeyMap
	help   help.Model
}

// New creates a browser for kind over the store in ctx.
func New(ctx helpers.UIContext, kind catalog.Kind) *Model {
	logger := ctx.Logger
	if logger == nil {
		logger = logging.GetDefault()
	}

	layout := components.NewLayout(components.LayoutConfig{
		MarginX:  2,
		MarginY:  1,
		MaxWidth: 100,
	})
	if ctx.HasValidDimensions() {
		layout, _ = layout.Update(tea.WindowSizeMsg{Width: ctx.Width, Height: ctx.Height})
	}

	search := textinput.New()
	search.Placeholder = "Search name, description, tags or rule text"
	search.Prompt = "🔍 "
	search.CharLimit = 100
	search.Width = layout.InputWidth()

	var c *catalog.Catalog
	if ctx.Store != nil {
		c = ctx.Store.Catalog(kind)
	} else {
		c = (&catalog.Store{}).Catalog(kind)
	}

	installer := ctx.Installer
	if installer == nil {
		installer = install.New(logger)
	}

	m := &Model{
		logger:     logger,
		catalog:    c,
		pager:      catalog.NewPager(ctx.PageSizes()),
		categories: c.Categories(),
		search:     search,
		viewport:   viewport.New(layout.ContentWidth(), max(layout.ContentHeight()-4, 5)),
		installer:  installer,
		projectDir: ctx.ProjectDir,
		copyText:   clipboard.WriteAll,
		layout:     layout,
		keys:       DefaultKeyMap(),
		help:       help.New(),
	}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	if m.renderer == nil {
		m.renderer = components.NewMarkdownRenderer("")
		m.logger.Debug("Glamour style selected", "style", m.renderer.Style())
	}
	return nil
}

// Category is the selected category, "All" when unfiltered.
func (m *Model) Category() string { return m.categories[m.categoryIdx] }

func (m *Model) Query() string { return m.search.Value() }

// Page is the currently displayed window of records.
func (m *Model) Page() catalog.Page { return m.page }

func (m *Model) refresh() {
	m.page = m.catalog.Apply(m.Category(), m.Query(), m.pager.Visible())
	if m.cursor >= len(m.page.Records) {
		m.cursor = max(len(m.page.Records)-1, 0)
	}
}

// resetAndRefresh is called whenever the category or query changes.
func (m *Model) resetAndRefresh() {
	m.pager.Reset()
	m.cursor = 0
	m.refresh()
}

func (m *Model) selected() (catalog.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.page.Records) {
		return catalog.Record{}, false
	}
	return m.page.Records[m.cursor], true
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout, _ = m.layout.Update(msg)
		m.help.Width = m.layout.ContentWidth()
		m.search.Width = m.layout.InputWidth()
		m.viewport.Width = m.layout.ContentWidth()
		m.viewport.Height = max(m.layout.ContentHeight()-4, 5)
		if m.detailOpen {
			return m, m.renderDetail(m.detail)
		}
		return m, nil

	case detailRenderedMsg:
		if !m.detailOpen || msg.id != m.detail.ID {
			m.logger.Debug("Ignoring stale detail render", "id", msg.id)
			return m, nil
		}
		if msg.err != nil {
			m.logger.Error("Failed to render record", "id", msg.id, "error", msg.err)
			m.viewport.SetContent(catalog.Markdown(m.detail))
			return m, nil
		}
		m.viewport.SetContent(msg.content)
		return m, nil

	case installResultMsg:
		switch {
		case errors.Is(msg.err, install.ErrAlreadyExists):
			m.layout = m.layout.SetNotice(components.NoticeWarning,
				fmt.Sprintf("%s already exists. Use `createmvp rules install %s --force` to overwrite it.", msg.path, msg.id))
		case msg.err != nil:
			m.layout = m.layout.ClearNotice().SetError(msg.err)
		default:
			m.layout = m.layout.ClearError().SetNotice(components.NoticeSuccess, "Installed to "+msg.path)
		}
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.logger.Warn("Clipboard copy failed", "error", msg.err)
			m.layout = m.layout.ClearNotice().SetError(fmt.Errorf("copy failed: %w", msg.err))
			return m, nil
		}
		m.layout = m.layout.ClearError().SetNotice(components.NoticeSuccess, "Copied to clipboard")
		return m, nil

	case tea.KeyMsg:
		if m.detailOpen {
			return m.updateDetail(msg)
		}
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.layout = m.layout.ClearNotice().ClearError()

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return helpers.NavigateToMainMenuMsg{} }

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.page.Records)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Open):
		if r, ok := m.selected(); ok {
			return m, m.openDetail(r)
		}

	case key.Matches(msg, m.keys.Search):
		m.showSearch = true
		m.logger.LogUserAction("catalog_search", string(m.catalog.Kind()))
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Filters):
		m.showFilters = !m.showFilters

	case key.Matches(msg, m.keys.PrevCategory):
		if m.showFilters {
			m.selectCategory(m.categoryIdx - 1)
		}

	case key.Matches(msg, m.keys.NextCategory):
		if m.showFilters {
			m.selectCategory(m.categoryIdx + 1)
		}

	case key.Matches(msg, m.keys.ToggleView):
		if m.mode == modeCompact {
			m.mode = modeExpanded
		} else {
			m.mode = modeCompact
		}
		m.logger.LogUserAction("catalog_view_mode", m.mode.String())

	case key.Matches(msg, m.keys.More):
		if m.pager.Toggle(m.page) {
			m.refresh()
		}

	case key.Matches(msg, m.keys.Install):
		if r, ok := m.selected(); ok {
			return m, m.installCmd(r)
		}

	case key.Matches(msg, m.keys.Copy):
		if r, ok := m.selected(); ok {
			return m, m.copyCmd(r)
		}
	}
	return m, nil
}

// selectCategory wraps around the category list.
func (m *Model) selectCategory(i int) {
	n := len(m.categories)
	i = ((i % n) + n) % n
	if i == m.categoryIdx {
		return
	}
	m.categoryIdx = i
	m.logger.LogUserAction("catalog_category", m.Category())
	m.resetAndRefresh()
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.search.Blur()
		if m.search.Value() == "" {
			m.showSearch = false
		}
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.resetAndRefresh()
	}
	return m, cmd
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.detailOpen = false
		m.layout = m.layout.ClearNotice().ClearError()
		return m, nil
	case key.Matches(msg, m.keys.Install):
		return m, m.installCmd(m.detail)
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCmd(m.detail)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) openDetail(r catalog.Record) tea.Cmd {
	m.logger.LogUserAction("catalog_detail", r.ID)
	m.detailOpen = true
	m.detail = r
	m.viewport.GotoTop()
	m.viewport.SetContent("📄 Loading " + r.Name + "...")
	return m.renderDetail(r)
}

func (m *Model) renderDetail(r catalog.Record) tea.Cmd {
	renderer := m.renderer
	width := m.viewport.Width - 2
	return func() tea.Msg {
		if renderer == nil {
			return detailRenderedMsg{id: r.ID, content: catalog.Markdown(r)}
		}
		out, err := renderer.Render(r.ID, catalog.Markdown(r), width)
		return detailRenderedMsg{id: r.ID, content: out, err: err}
	}
}

func (m *Model) installCmd(r catalog.Record) tea.Cmd {
	if !r.Kind.IsRules() {
		m.layout = m.layout.SetNotice(components.NoticeInfo, "Only Cursor and Windsurf rules can be installed.")
		return nil
	}
	installer := m.installer
	opts := install.Options{Root: m.projectDir}
	target := install.DefaultTarget(r.Kind)
	return func() tea.Msg {
		path, err := installer.Install(r, target, opts)
		return installResultMsg{id: r.ID, path: path, err: err}
	}
}

// copyCmd copies the rule text for rules, otherwise the homepage or the
// rendered markdown.
func (m *Model) copyCmd(r catalog.Record) tea.Cmd {
	text := catalog.Markdown(r)
	switch {
	case r.Kind.IsRules() && r.Body != "":
		text = strings.TrimSpace(r.Body)
	case r.URL != "":
		text = r.URL
	}
	copyText := m.copyText
	return func() tea.Msg {
		return copyResultMsg{id: r.ID, err: copyText(text)}
	}
}

func (m *Model) View() string {
	if m.detailOpen {
		return m.viewDetail()
	}

	subtitle := fmt.Sprintf("Showing %d of %d", len(m.page.Records), m.page.Total)
	if !catalog.IsAllCategories(m.Category()) {
		subtitle += " · " + m.Category()
	}
	if q := strings.TrimSpace(m.Query()); q != "" {
		subtitle += fmt.Sprintf(" · matching %q", q)
	}

	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:        "✨ " + m.catalog.Kind().Title(),
		Subtitle:     subtitle,
		HelpText:     m.help.ShortHelpView(m.keys.ShortHelp()),
		Preformatted: true,
	})

	var sections []string
	if m.showFilters {
		sections = append(sections, m.viewFilters())
	}
	if m.showSearch {
		sections = append(sections, styles.InputStyle.Render(m.search.View()))
	}
	sections = append(sections, m.viewRecords())
	if footer := m.viewPagerFooter(); footer != "" {
		sections = append(sections, footer)
	}

	return m.layout.Render(strings.Join(sections, "\n\n"))
}

func (m *Model) viewFilters() string {
	chips := make([]string, len(m.categories))
	for i, c := range m.categories {
		if i == m.categoryIdx {
			chips[i] = styles.ActiveChipStyle.Render(c)
		} else {
			chips[i] = styles.ChipStyle.Render(c)
		}
	}
	row := wordwrap.String(strings.Join(chips, " "), m.layout.ContentWidth())
	return styles.MutedTextStyle.Render("Category (←/→)") + "\n" + row
}

func (m *Model) viewRecords() string {
	if len(m.page.Records) == 0 {
		return styles.MutedTextStyle.Render("No results match your filters.")
	}

	width := m.layout.ContentWidth()
	rows := make([]string, len(m.page.Records))
	for i, r := range m.page.Records {
		rows[i] = m.viewRecord(r, i == m.cursor, width)
	}

	sep := "\n"
	if m.mode == modeExpanded {
		sep = "\n\n"
	}
	return strings.Join(rows, sep)
}

func (m *Model) viewRecord(r catalog.Record, selected bool, width int) string {
	marker := "  "
	nameStyle := styles.RecordNameStyle
	if selected {
		marker = "▸ "
		nameStyle = styles.SelectedRecordStyle
	}
	star := "  "
	if r.Featured {
		star = styles.FeaturedStyle.Render("★ ")
	}

	head := marker + star + nameStyle.Render(r.Name) + styles.MutedTextStyle.Render(" · ") + styles.CategoryStyle.Render(r.Category)
	if m.mode == modeCompact {
		if r.Description != "" {
			head += styles.MutedTextStyle.Render(" · " + r.Description)
		}
		return truncate.StringWithTail(head, uint(max(width, 10)), "…")
	}

	lines := []string{head}
	if r.Description != "" {
		lines = append(lines, indent.String(wordwrap.String(r.Description, max(width-4, 10)), 4))
	}
	if len(r.Tags) > 0 {
		tags := make([]string, len(r.Tags))
		for i, t := range r.Tags {
			tags[i] = "#" + t
		}
		lines = append(lines, indent.String(styles.TagStyle.Render(wordwrap.String(strings.Join(tags, " "), max(width-4, 10))), 4))
	}
	if r.URL != "" {
		lines = append(lines, indent.String(styles.MutedTextStyle.Render(r.URL), 4))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewPagerFooter() string {
	switch {
	case m.page.HasMore:
		return styles.MutedTextStyle.Render(fmt.Sprintf("m: show more (%d more)", m.page.Total-len(m.page.Records)))
	case m.pager.CanLess(m.page):
		return styles.MutedTextStyle.Render("m: show less")
	}
	return ""
}

func (m *Model) viewDetail() string {
	r := m.detail
	subtitle := r.Category + " · " + r.Kind.Title()
	if r.Featured {
		subtitle = "★ Featured · " + subtitle
	}
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:        r.Name,
		Subtitle:     subtitle,
		HelpText:     m.help.ShortHelpView(m.keys.detailHelp(r.Kind.IsRules())),
		Preformatted: true,
	})
	return m.layout.Render(m.viewport.View())
}
