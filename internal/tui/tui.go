// Package tui provides the terminal user interface for CreateMVP.
//
// The TUI is built with Bubble Tea and Lip Gloss. A main menu leads to one
// catalog browser per catalog (AI tools, Cursor rules, Windsurf rules, MCP
// servers) and to the chat screen used to plan an MVP with an AI model.
//
// MainModel owns navigation. Feature screens are fresh models created on
// every visit; they return to the menu by emitting
// helpers.NavigateToMainMenuMsg. The chat session itself outlives the chat
// screen so a reply that arrives after leaving is kept.
package tui

import (
	"fmt"

	"createmvp/internal/catalog"
	"createmvp/internal/chat"
	"createmvp/internal/logging"
	"createmvp/internal/tui/catalogview"
	"createmvp/internal/tui/chatview"
	"createmvp/internal/tui/components"
	"createmvp/internal/tui/helpers"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// AppState represents the current state of the TUI application.
type AppState int

const (
	// StateMenu represents the main navigation menu
	StateMenu AppState = iota
	StateError
	StateQuitting

	StateCatalog
	StateChat
)

func (s AppState) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateError:
		return "error"
	case StateQuitting:
		return "quitting"
	case StateCatalog:
		return "catalog"
	case StateChat:
		return "chat"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Custom messages for internal state transitions
type (
	NavigateMsg struct {
		State AppState
	}

	ErrorMsg struct {
		Err error
	}
)

// MenuItemModel is implemented by every feature screen.
type MenuItemModel interface {
	tea.Model
}

type item struct {
	title       string
	description string
	state       AppState
	kind        catalog.Kind
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.description }
func (i item) FilterValue() string { return i.title }

// MainModel is the root model for the TUI application. It owns the main
// menu, routes messages to the active screen and handles errors and window
// resizing.
type MainModel struct {
	ctx       helpers.UIContext
	logger    *logging.AppLogger
	state     AppState
	prevState AppState // For returning from error states

	menu        list.Model
	activeModel MenuItemModel
	layout      components.LayoutModel

	windowWidth  int
	windowHeight int

	err error
}

func menuItems(store *catalog.Store) []list.Item {
	count := func(kind catalog.Kind) int {
		if store == nil {
			return 0
		}
		return store.Catalog(kind).Len()
	}

	return []list.Item{
		item{
			title:       "🧰  Browse AI tools",
			description: fmt.Sprintf("%d editors, assistants and app builders for shipping an MVP fast.", count(catalog.KindTools)),
			state:       StateCatalog,
			kind:        catalog.KindTools,
		},
		item{
			title:       "📐  Cursor rules",
			description: fmt.Sprintf("%d curated rule documents. Install one into .cursor/rules with a key press.", count(catalog.KindCursorRules)),
			state:       StateCatalog,
			kind:        catalog.KindCursorRules,
		},
		item{
			title:       "🌊  Windsurf rules",
			description: fmt.Sprintf("%d curated rule documents for Windsurf Cascade.", count(catalog.KindWindsurfRules)),
			state:       StateCatalog,
			kind:        catalog.KindWindsurfRules,
		},
		item{
			title:       "🔌  MCP servers",
			description: fmt.Sprintf("%d Model Context Protocol servers to connect your assistant to real systems.", count(catalog.KindMCPServers)),
			state:       StateCatalog,
			kind:        catalog.KindMCPServers,
		},
		item{
			title:       "💬  Plan with AI",
			description: "Chat with GPT, Claude, Gemini or DeepSeek using the API keys registered on createmvp.com.",
			state:       StateChat,
		},
	}
}

// NewMainModel creates the root model. ctx carries the shared dependencies;
// its dimensions are filled in from window size messages.
func NewMainModel(ctx helpers.UIContext) *MainModel {
	logger := ctx.Logger
	if logger == nil {
		logger = logging.GetDefault()
		ctx.Logger = logger
	}
	if ctx.Session == nil {
		preserve := true
		if ctx.Config != nil {
			preserve = ctx.Config.PreserveContext
		}
		ctx.Session = chat.NewSession(logger, preserve)
	}

	menuList := list.New(menuItems(ctx.Store), list.NewDefaultDelegate(), 0, 0)
	menuList.Title = "" // We'll use the layout for titles
	menuList.SetShowTitle(false)
	menuList.SetShowStatusBar(false)
	menuList.SetFilteringEnabled(true)
	menuList.SetShowHelp(false) // We'll use the layout for help

	layout := components.NewLayout(components.LayoutConfig{
		MarginX:  2,
		MarginY:  1,
		MaxWidth: 100,
	})

	return &MainModel{
		ctx:       ctx,
		logger:    logger,
		state:     StateMenu,
		prevState: StateMenu,
		menu:      menuList,
		layout:    layout,
	}
}

func (m *MainModel) Init() tea.Cmd {
	m.logger.Info("MainModel initialized")
	return nil
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg.(type) {
	case tea.KeyMsg, tea.WindowSizeMsg:
		m.logger.LogMessage(msg)
	}

	// Update layout first for size changes
	m.layout, _ = m.layout.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height

		if msg.Width > 0 && msg.Height > 0 {
			v := 14 // footer margins
			m.menu.SetSize(msg.Width-4, msg.Height-v)

			if m.activeModel != nil {
				updatedModel, modelCmd := m.activeModel.Update(msg)
				m.activeModel = updatedModel.(MenuItemModel)
				if modelCmd != nil {
					cmds = append(cmds, modelCmd)
				}
			}
		} else {
			m.logger.Warn("Invalid window dimensions received", "width", msg.Width, "height", msg.Height)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.state = StateQuitting
			return m, tea.Quit
		}

		switch m.state {
		case StateMenu:
			switch msg.String() {
			case "q":
				// Handle quit only when not filtering
				if m.menu.FilterState() != list.Filtering {
					m.state = StateQuitting
					return m, tea.Quit
				}
				m.menu, cmd = m.menu.Update(msg)
				if cmd != nil {
					cmds = append(cmds, cmd)
				}
			case "enter":
				if m.menu.FilterState() != list.Filtering {
					if selectedItem, ok := m.menu.SelectedItem().(item); ok {
						m.logger.LogUserAction("menu_selection", selectedItem.title)
						return m.handleMenuSelection(selectedItem)
					}
				}
				m.menu, cmd = m.menu.Update(msg)
				if cmd != nil {
					cmds = append(cmds, cmd)
				}
			default:
				m.menu, cmd = m.menu.Update(msg)
				if cmd != nil {
					cmds = append(cmds, cmd)
				}
			}

		case StateError:
			if msg.String() == "esc" {
				m.logger.LogStateTransition("MainModel", StateError.String(), m.prevState.String())
				m.state = m.prevState
				m.err = nil
				m.layout = m.layout.ClearError()
				return m, nil
			}

		case StateCatalog, StateChat:
			// Feature screens handle their own navigation
			if m.activeModel != nil {
				updatedModel, modelCmd := m.activeModel.Update(msg)
				m.activeModel = updatedModel.(MenuItemModel)
				if modelCmd != nil {
					cmds = append(cmds, modelCmd)
				}
			}
		}

	case list.FilterMatchesMsg:
		if m.state == StateMenu {
			m.menu, cmd = m.menu.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}

	case NavigateMsg:
		m.logger.LogStateTransition("MainModel", m.state.String(), msg.State.String())
		m.prevState = m.state
		m.state = msg.State
		m.err = nil
		m.layout = m.layout.ClearError()
		return m, nil

	case ErrorMsg:
		m.logger.Error("Application error occurred", "error", msg.Err)
		m.err = msg.Err
		m.prevState = m.state
		m.state = StateError
		m.layout = m.layout.SetError(msg.Err)
		return m, nil

	case helpers.NavigateToMainMenuMsg:
		m.logger.LogStateTransition("MainModel", m.state.String(), StateMenu.String())
		return m.returnToMenu(), nil

	default:
		// Async results (renders, chat replies, spinner ticks) belong to the active screen
		if m.activeModel != nil {
			updatedModel, modelCmd := m.activeModel.Update(msg)
			if menuModel, ok := updatedModel.(MenuItemModel); ok {
				m.activeModel = menuModel
				if modelCmd != nil {
					cmds = append(cmds, modelCmd)
				}
			} else {
				m.logger.Error("Active model returned invalid type, returning to menu")
				return m.returnToMenu(), nil
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *MainModel) handleMenuSelection(selectedItem item) (tea.Model, tea.Cmd) {
	model := m.newScreen(selectedItem)
	if model == nil {
		return m, func() tea.Msg {
			return ErrorMsg{Err: fmt.Errorf("cannot open %q before the terminal size is known", selectedItem.title)}
		}
	}

	m.activeModel = model

	var cmds []tea.Cmd
	if initCmd := model.Init(); initCmd != nil {
		cmds = append(cmds, initCmd)
	}

	// Send window size if layout has dimensions
	if m.layout.ContentWidth() > 0 && m.layout.ContentHeight() > 0 {
		windowMsg := tea.WindowSizeMsg{Width: m.layout.ContentWidth(), Height: m.layout.ContentHeight()}
		updatedModel, windowCmd := model.Update(windowMsg)
		m.activeModel = updatedModel.(MenuItemModel)
		if windowCmd != nil {
			cmds = append(cmds, windowCmd)
		}
	}

	cmds = append(cmds, NavigateTo(selectedItem.state))
	return m, tea.Batch(cmds...)
}

// GetUIContext returns the shared context with the current dimensions
func (m *MainModel) GetUIContext() helpers.UIContext {
	ctx := m.ctx
	ctx.Width = m.windowWidth
	ctx.Height = m.windowHeight
	return ctx
}

// newScreen always creates a fresh model so settings changes are picked up
func (m *MainModel) newScreen(selected item) MenuItemModel {
	if !m.hasValidDimensions() {
		m.logger.Warn("Cannot initialize model without valid window dimensions", "state", selected.state)
		return nil
	}

	ctx := m.GetUIContext()

	switch selected.state {
	case StateCatalog:
		m.logger.Debug("Creating catalog browser", "kind", selected.kind)
		return catalogview.New(ctx, selected.kind)

	case StateChat:
		m.logger.Debug("Creating chat screen")
		return chatview.New(ctx)

	default:
		m.logger.Warn("Unknown state requested for model initialization", "state", selected.state)
		return nil
	}
}

func (m *MainModel) View() string {
	if m.state == StateQuitting {
		m.layout = m.layout.SetConfig(components.LayoutConfig{
			Title: "👋 Goodbye!",
		})
		return m.layout.Render("Good luck with your MVP!")
	}

	switch m.state {
	case StateMenu:
		return m.viewMenu()
	case StateError:
		return m.viewError()
	default:
		if m.activeModel != nil {
			return m.activeModel.View()
		}
		return m.viewMenu()
	}
}

func (m *MainModel) viewMenu() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    "🚀 CreateMVP",
		Subtitle: "Plan your MVP with AI and pick the tools, rules and MCP servers to build it",
		HelpText: "↑/↓ to navigate • Enter to select • / to filter • q to quit • Ctrl+C to force quit",
	})

	return m.layout.Render(m.menu.View())
}

func (m *MainModel) hasValidDimensions() bool {
	return m.windowWidth > 0 && m.windowHeight > 0
}

// returnToMenu safely returns to the main menu and cleans up state
func (m *MainModel) returnToMenu() tea.Model {
	m.state = StateMenu
	m.activeModel = nil
	m.err = nil
	m.layout = m.layout.ClearError()
	return m
}

func (m *MainModel) viewError() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    "❌ Error",
		Subtitle: "Something went wrong",
		HelpText: "Press Esc to return • Ctrl+C to quit",
	})

	errorContent := ""
	if m.err != nil {
		errorContent = m.err.Error()
	}

	return m.layout.Render(errorContent)
}

// NavigateTo returns a command that switches the main model to state.
func NavigateTo(state AppState) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{State: state}
	}
}
