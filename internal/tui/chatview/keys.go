package chatview

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Send            key.Binding
	NextModel       key.Binding
	PreserveContext key.Binding
	Refresh         key.Binding
	ScrollUp        key.Binding
	ScrollDown      key.Binding
	Back            key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send:            key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		NextModel:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next model")),
		PreserveContext: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "preserve context")),
		Refresh:         key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh API keys")),
		ScrollUp:        key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown:      key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Back:            key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.NextModel, k.PreserveContext, k.Refresh, k.Back}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.NextModel, k.PreserveContext},
		{k.Refresh, k.ScrollUp, k.ScrollDown, k.Back},
	}
}
