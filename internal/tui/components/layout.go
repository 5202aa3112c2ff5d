package components

import (
	"strings"

	"createmvp/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const (
	defaultMarginX  = 2
	defaultMarginY  = 1
	defaultMaxWidth = 100

	minContentWidth = 40
	minInputWidth   = 30
	maxInputWidth   = 80

	// title, subtitle, help and the blank lines between sections
	reservedRows = 6
)

type LayoutConfig struct {
	Title    string
	Subtitle string
	HelpText string
	MarginX  int
	MarginY  int
	MaxWidth int

	// Preformatted content is rendered as is, without word wrapping.
	Preformatted bool
}

func (c LayoutConfig) withDefaults(base LayoutConfig) LayoutConfig {
	if c.MarginX == 0 {
		c.MarginX = base.MarginX
	}
	if c.MarginY == 0 {
		c.MarginY = base.MarginY
	}
	if c.MaxWidth == 0 {
		c.MaxWidth = base.MaxWidth
	}
	return c
}

// NoticeKind selects how a notice is styled.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeWarning
)

func (k NoticeKind) style() lipgloss.Style {
	switch k {
	case NoticeSuccess:
		return styles.SuccessStyle
	case NoticeWarning:
		return styles.WarningStyle
	}
	return styles.MutedTextStyle
}

type notice struct {
	kind NoticeKind
	text string
}

// LayoutModel frames a screen: title, subtitle, content, notice, error and
// help, separated by blank lines and indented by the margins. It is a value
// type; setters return the updated copy.
type LayoutModel struct {
	config LayoutConfig
	width  int
	height int
	err    error
	notice *notice
}

func NewLayout(config LayoutConfig) LayoutModel {
	return LayoutModel{config: config.withDefaults(LayoutConfig{
		MarginX:  defaultMarginX,
		MarginY:  defaultMarginY,
		MaxWidth: defaultMaxWidth,
	})}
}

func (m LayoutModel) Update(msg tea.Msg) (LayoutModel, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
	}
	return m, nil
}

// SetConfig replaces the configuration; zero margins and width keep the
// current values.
func (m LayoutModel) SetConfig(config LayoutConfig) LayoutModel {
	m.config = config.withDefaults(m.config)
	return m
}

func (m LayoutModel) GetConfig() LayoutConfig { return m.config }

// SetError shows err until cleared. A nil error is ignored.
func (m LayoutModel) SetError(err error) LayoutModel {
	if err != nil {
		m.err = err
	}
	return m
}

func (m LayoutModel) ClearError() LayoutModel {
	m.err = nil
	return m
}

func (m LayoutModel) GetError() error { return m.err }

// SetNotice shows a one-line status message under the content until cleared
// or replaced.
func (m LayoutModel) SetNotice(kind NoticeKind, text string) LayoutModel {
	m.notice = &notice{kind: kind, text: text}
	return m
}

func (m LayoutModel) ClearNotice() LayoutModel {
	m.notice = nil
	return m
}

// Notice returns the current notice text, or "" when none is shown.
func (m LayoutModel) Notice() string {
	if m.notice == nil {
		return ""
	}
	return m.notice.text
}

// Render frames content with the configured sections.
func (m LayoutModel) Render(content string) string {
	width := m.ContentWidth()
	var sections []string
	add := func(style lipgloss.Style, text string) {
		if text != "" {
			sections = append(sections, style.Render(wrapText(text, width)))
		}
	}

	add(styles.TitleStyle, m.config.Title)
	add(styles.SubtitleStyle, m.config.Subtitle)
	if m.config.Preformatted {
		if content != "" {
			sections = append(sections, content)
		}
	} else {
		add(styles.NormalTextStyle, content)
	}
	if m.notice != nil {
		add(m.notice.kind.style(), m.notice.text)
	}
	if m.err != nil {
		add(styles.ErrorStyle, "Error: "+m.err.Error())
	}
	add(styles.HelpStyle, m.config.HelpText)

	return m.indent(strings.Join(sections, "\n\n"))
}

// wrapText word-wraps every line to width, trimming surrounding spaces.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			line = wordwrap.String(line, width)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func (m LayoutModel) indent(content string) string {
	pad := strings.Repeat(" ", m.config.MarginX)
	vertical := strings.Repeat("\n", m.config.MarginY)
	return vertical + pad + strings.ReplaceAll(content, "\n", "\n"+pad) + vertical
}

// ContentWidth is the usable width between the margins, clamped to
// [minContentWidth, MaxWidth].
func (m LayoutModel) ContentWidth() int {
	available := m.width - 2*m.config.MarginX
	return max(minContentWidth, min(available, m.config.MaxWidth))
}

func (m LayoutModel) ContentHeight() int {
	return m.height - 2*m.config.MarginY - reservedRows
}

// InputWidth sizes text inputs to the content width.
func (m LayoutModel) InputWidth() int {
	return max(minInputWidth, min(m.ContentWidth()-8, maxInputWidth))
}
