package catalogview

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Open         key.Binding
	Search       key.Binding
	Filters      key.Binding
	PrevCategory key.Binding
	NextCategory key.Binding
	ToggleView   key.Binding
	More         key.Binding
	Install      key.Binding
	Copy         key.Binding
	Back         key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filters:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filters")),
		PrevCategory: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev category")),
		NextCategory: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next category")),
		ToggleView:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "compact/expanded")),
		More:         key.NewBinding(key.WithKeys("m", " "), key.WithHelp("m", "show more/less")),
		Install:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "install rule")),
		Copy:         key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Back:         key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("q/esc", "back")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Search, k.Filters, k.ToggleView, k.More, k.Back}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back},
		{k.Search, k.Filters, k.PrevCategory, k.NextCategory},
		{k.ToggleView, k.More, k.Install, k.Copy},
	}
}

// detailKeys are the bindings shown while the detail dialog is open.
func (k KeyMap) detailHelp(installable bool) []key.Binding {
	bindings := []key.Binding{k.Up, k.Down, k.Copy}
	if installable {
		bindings = append(bindings, k.Install)
	}
	return append(bindings, k.Back)
}
