package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"haru/internal/config"
)

type keyMap struct {
	Quit        key.Binding
	Add         key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Toggle      key.Binding
	Delete      key.Binding
	Edit        key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
	Filter      key.Binding
	ListTab     key.Binding
	CalendarTab key.Binding
	SwitchTab   key.Binding
	PrevMonth   key.Binding
	NextMonth   key.Binding
	Today       key.Binding
	NextChip    key.Binding

	tab tab
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys(k.Quit, "ctrl+c"), key.WithHelp(k.Quit, "quit")),
		Add:         key.NewBinding(key.WithKeys(k.Add), key.WithHelp(k.Add, "add")),
		Up:          key.NewBinding(key.WithKeys(k.Up, "up"), key.WithHelp("↑/"+k.Up, "up")),
		Down:        key.NewBinding(key.WithKeys(k.Down, "down"), key.WithHelp("↓/"+k.Down, "down")),
		Left:        key.NewBinding(key.WithKeys(k.Left, "left"), key.WithHelp("←/"+k.Left, "prev day")),
		Right:       key.NewBinding(key.WithKeys(k.Right, "right"), key.WithHelp("→/"+k.Right, "next day")),
		Toggle:      key.NewBinding(key.WithKeys(k.Toggle), key.WithHelp(keyLabel(k.Toggle), "toggle")),
		Delete:      key.NewBinding(key.WithKeys(k.Delete), key.WithHelp(k.Delete, "delete")),
		Edit:        key.NewBinding(key.WithKeys(k.Edit), key.WithHelp(k.Edit, "edit")),
		Confirm:     key.NewBinding(key.WithKeys(k.Confirm), key.WithHelp(k.Confirm, "select")),
		Cancel:      key.NewBinding(key.WithKeys(k.Cancel), key.WithHelp(k.Cancel, "close")),
		Filter:      key.NewBinding(key.WithKeys(k.Filter), key.WithHelp(k.Filter, "filter")),
		ListTab:     key.NewBinding(key.WithKeys(k.ListTab), key.WithHelp(k.ListTab, "list")),
		CalendarTab: key.NewBinding(key.WithKeys(k.CalendarTab), key.WithHelp(k.CalendarTab, "calendar")),
		SwitchTab:   key.NewBinding(key.WithKeys(k.SwitchTab), key.WithHelp(k.SwitchTab, "switch view")),
		PrevMonth:   key.NewBinding(key.WithKeys(k.PrevMonth), key.WithHelp(k.PrevMonth, "prev month")),
		NextMonth:   key.NewBinding(key.WithKeys(k.NextMonth), key.WithHelp(k.NextMonth, "next month")),
		Today:       key.NewBinding(key.WithKeys(k.Today), key.WithHelp(k.Today, "today")),
		NextChip:    key.NewBinding(key.WithKeys(k.NextChip), key.WithHelp(k.NextChip, "next task")),
	}
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

// ShortHelp shows the bindings of the active tab.
func (k keyMap) ShortHelp() []key.Binding {
	if k.tab == tabCalendar {
		return []key.Binding{k.Left, k.Right, k.PrevMonth, k.NextMonth, k.Today, k.NextChip, k.Confirm, k.Add, k.SwitchTab, k.Quit}
	}
	return []key.Binding{k.Up, k.Down, k.Add, k.Toggle, k.Edit, k.Delete, k.Filter, k.SwitchTab, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
