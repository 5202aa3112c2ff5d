// Package chatview is the chat screen: transcript, model picker and input.
package chatview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"createmvp/internal/chat"
	"createmvp/internal/config"
	"createmvp/internal/logging"
	"createmvp/internal/tui/components"
	"createmvp/internal/tui/helpers"
	"createmvp/internal/tui/styles"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
)

const inputHeight = 3

type (
	historyLoadedMsg struct {
		err error
	}

	credentialsLoadedMsg struct {
		err error
	}

	completionMsg struct {
		reply chat.Message
		err   error
	}
)

// Model is the chat screen.
type Model struct {
	logger  *logging.AppLogger
	session *chat.Session
	client  chat.Client
	apiURL  string

	model       chat.Model
	input       textarea.Model
	spinner     spinner.Model
	transcript  viewport.Model
	renderer    *components.MarkdownRenderer
	needsConfig bool

	layout components.LayoutModel
	keys   KeyMap
	help   help.Model
}

// New creates the chat screen for the session and client in ctx. A nil
// session starts a fresh one.
func New(ctx helpers.UIContext) *Model {
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

	cfg := config.DefaultConfig()
	if ctx.Config != nil {
		cfg = *ctx.Config
	}

	session := ctx.Session
	if session == nil {
		session = chat.NewSession(logger, cfg.PreserveContext)
	}

	model, ok := chat.LookupModel(cfg.DefaultModel)
	if !ok {
		model, _ = chat.LookupModel(chat.DefaultModelID)
	}

	input := textarea.New()
	input.Placeholder = "Describe the MVP you want to build..."
	input.ShowLineNumbers = false
	input.CharLimit = 4000
	input.SetHeight(inputHeight)
	input.SetWidth(layout.InputWidth())
	input.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	input.Focus()

	s := spinner.New()
	s.Style = styles.SpinnerStyle
	s.Spinner = spinner.Dot

	m := &Model{
		logger:     logger,
		session:    session,
		client:     ctx.Client,
		apiURL:     cfg.APIURL,
		model:      model,
		input:      input,
		spinner:    s,
		transcript: viewport.New(layout.ContentWidth(), transcriptHeight(layout)),
		layout:     layout,
		keys:       DefaultKeyMap(),
		help:       help.New(),
	}
	m.refreshTranscript()
	return m
}

func transcriptHeight(layout components.LayoutModel) int {
	return max(layout.ContentHeight()-inputHeight-6, 5)
}

func (m *Model) Init() tea.Cmd {
	if m.renderer == nil {
		m.renderer = components.NewMarkdownRenderer("")
	}
	cmds := []tea.Cmd{textarea.Blink}
	if m.client != nil {
		cmds = append(cmds, m.loadHistory(), m.loadCredentials())
	}
	if m.session.State() == chat.StateAwaitingResponse {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// SelectedModel is the model new messages are sent to.
func (m *Model) SelectedModel() chat.Model { return m.model }

func (m *Model) loadHistory() tea.Cmd {
	session, client := m.session, m.client
	return func() tea.Msg {
		return historyLoadedMsg{err: session.LoadHistory(context.Background(), client)}
	}
}

func (m *Model) loadCredentials() tea.Cmd {
	session, client := m.session, m.client
	return func() tea.Msg {
		return credentialsLoadedMsg{err: session.RefreshCredentials(context.Background(), client)}
	}
}

func (m *Model) complete(req chat.Request) tea.Cmd {
	session, client := m.session, m.client
	return func() tea.Msg {
		reply, err := session.Complete(context.Background(), client, req)
		return completionMsg{reply: reply, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout, _ = m.layout.Update(msg)
		m.help.Width = m.layout.ContentWidth()
		m.input.SetWidth(m.layout.InputWidth())
		m.transcript.Width = m.layout.ContentWidth()
		m.transcript.Height = transcriptHeight(m.layout)
		m.refreshTranscript()
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("Failed to load chat history", "error", msg.err)
			m.layout = m.layout.SetNotice(components.NoticeWarning, "Chat history is unavailable: "+msg.err.Error())
		}
		m.refreshTranscript()
		return m, nil

	case credentialsLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("Failed to load API keys", "error", msg.err)
			m.layout = m.layout.SetError(msg.err)
			return m, nil
		}
		m.needsConfig = !m.session.HasCredential(m.model.ID)
		if !m.needsConfig {
			m.layout = m.layout.ClearNotice()
		}
		return m, nil

	case completionMsg:
		if msg.err != nil {
			m.layout = m.layout.SetError(msg.err)
		}
		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		if m.session.State() != chat.StateAwaitingResponse {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshTranscript()
		return m, cmd

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return helpers.NavigateToMainMenuMsg{} }

	case key.Matches(msg, m.keys.Send):
		return m, m.submit()

	case key.Matches(msg, m.keys.NextModel):
		m.model = chat.NextModel(m.model.ID)
		m.needsConfig = false
		m.layout = m.layout.ClearNotice()
		m.logger.LogUserAction("chat_model", m.model.ID)
		return m, nil

	case key.Matches(msg, m.keys.PreserveContext):
		m.session.SetPreserveContext(!m.session.PreserveContext())
		m.logger.LogUserAction("chat_preserve_context", fmt.Sprintf("%t", m.session.PreserveContext()))
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.client == nil {
			return m, nil
		}
		m.layout = m.layout.SetNotice(components.NoticeInfo, "Refreshing API keys...")
		return m, m.loadCredentials()

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands the input to the session. Rejected submissions leave the
// input untouched.
func (m *Model) submit() tea.Cmd {
	content := strings.TrimSpace(m.input.Value())

	var req chat.Request
	err := errNoClient
	if m.client != nil {
		req, err = m.session.Submit(content, m.model.ID)
	}

	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return nil
	case errors.Is(err, chat.ErrRequestInFlight):
		m.layout = m.layout.SetNotice(components.NoticeInfo, "Waiting for the current reply...")
		return nil
	case errors.Is(err, chat.ErrCredentialRequired), errors.Is(err, errNoClient):
		m.needsConfig = true
		m.layout = m.layout.SetNotice(components.NoticeWarning, m.configurationPrompt())
		return nil
	case err != nil:
		m.layout = m.layout.SetError(err)
		return nil
	}

	m.logger.LogUserAction("chat_send", m.model.ID)
	m.needsConfig = false
	m.input.Reset()
	m.layout = m.layout.ClearNotice().ClearError()
	m.refreshTranscript()
	return tea.Batch(m.spinner.Tick, m.complete(req))
}

var errNoClient = errors.New("chat API not configured")

func (m *Model) configurationPrompt() string {
	if m.client == nil {
		return "Configuration needed: run `createmvp login` to connect to the CreateMVP API."
	}
	settings := strings.TrimRight(m.apiURL, "/") + "/settings"
	return fmt.Sprintf("Configuration needed: add an API key for %s at %s, then press ctrl+r.", m.model.Provider, settings)
}

func (m *Model) refreshTranscript() {
	width := max(m.transcript.Width-2, 20)
	messages := m.session.Messages()

	if len(messages) == 0 {
		m.transcript.SetContent(styles.MutedTextStyle.Render("No messages yet. Describe your idea to start planning."))
		return
	}

	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		blocks = append(blocks, m.renderMessage(msg, width))
	}
	m.transcript.SetContent(strings.Join(blocks, "\n\n"))
	m.transcript.GotoBottom()
}

func (m *Model) renderMessage(msg chat.Message, width int) string {
	header := styles.UserMessageStyle.Render("You")
	if msg.Role == chat.RoleAssistant {
		label := msg.Model
		if model, ok := chat.LookupModel(msg.Model); ok {
			label = model.Label
		}
		header = styles.AssistantMessageStyle.Render(label)
	}
	if ts := formatTimestamp(msg.Timestamp); ts != "" {
		header += styles.MutedTextStyle.Render(" · " + ts)
	}

	if msg.IsPending() {
		return header + "\n" + m.spinner.View() + " Thinking..."
	}

	body := wordwrap.String(msg.Content, width)
	if msg.Role == chat.RoleAssistant && m.renderer != nil {
		if out, err := m.renderer.Render(msg.Content, msg.Content, width); err == nil {
			body = strings.Trim(out, "\n")
		}
	}
	return header + "\n" + body
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("Jan 2 15:04")
}

func (m *Model) View() string {
	preserve := "off"
	if m.session.PreserveContext() {
		preserve = "on"
	}
	subtitle := fmt.Sprintf("Model: %s (%s) · Preserve context: %s", m.model.Label, m.model.Provider, preserve)
	if m.needsConfig {
		subtitle += " · configuration needed"
	}

	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:        "💬 Plan your MVP",
		Subtitle:     subtitle,
		HelpText:     m.help.ShortHelpView(m.keys.ShortHelp()),
		Preformatted: true,
	})

	content := m.transcript.View() + "\n\n" + styles.InputStyle.Render(m.input.View())
	return m.layout.Render(content)
}
