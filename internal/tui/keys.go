package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Prev      key.Binding
	Next      key.Binding
	Today     key.Binding
	Layer     key.Binding
	Clear     key.Binding
	Submit    key.Binding
	Fields    key.Binding
	Open      key.Binding
	Cancel    key.Binding
	Quit      key.Binding
	FieldDone key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:      key.NewBinding(key.WithKeys("[", "k", "left"), key.WithHelp("[", "prev month")),
		Next:      key.NewBinding(key.WithKeys("]", "j", "right"), key.WithHelp("]", "next month")),
		Today:     key.NewBinding(key.WithKeys("."), key.WithHelp(".", "today")),
		Layer:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "layer")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Submit:    key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("enter", "submit")),
		Fields:    key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "type a date")),
		Open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		FieldDone: key.NewBinding(key.WithKeys("enter", "tab", "shift+tab"), key.WithHelp("enter", "save")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Today, k.Layer, k.Fields, k.Clear, k.Submit, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Today, k.Layer},
		{k.Fields, k.FieldDone, k.Cancel},
		{k.Clear, k.Submit, k.Open, k.Quit},
	}
}

func (k keyMap) fieldHelp() []key.Binding {
	return []key.Binding{k.FieldDone, k.Cancel}
}
