package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"haru/internal/task"
)

const (
	fieldTitle = iota
	fieldDate
)

// addForm collects a title and a YYYY-MM-DD date for a new task.
type addForm struct {
	title textinput.Model
	date  textinput.Model
	focus int
}

type formResult int

const (
	formPending formResult = iota
	formSubmitted
	formCancelled
)

func newAddForm() addForm {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 256
	title.Width = 40

	date := textinput.New()
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = len(task.DateLayout)
	date.Width = len(task.DateLayout) + 1

	return addForm{title: title, date: date}
}

// open focuses the title field and sets the date field to date.
func (f *addForm) open(date string) tea.Cmd {
	f.date.SetValue(date)
	f.focus = fieldTitle
	f.date.Blur()
	return f.title.Focus()
}

func (f *addForm) blur() {
	f.title.Blur()
	f.date.Blur()
}

func (f *addForm) clearTitle() {
	f.title.SetValue("")
}

// values returns the trimmed title and date.
func (f *addForm) values() (string, string) {
	return strings.TrimSpace(f.title.Value()), strings.TrimSpace(f.date.Value())
}

func (f *addForm) update(msg tea.KeyMsg, keys keyMap) (formResult, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc || keyMatches(msg, keys.Cancel):
		return formCancelled, nil
	case msg.Type == tea.KeyEnter || keyMatches(msg, keys.Confirm):
		return formSubmitted, nil
	case msg.String() == "tab" || msg.String() == "shift+tab":
		return formPending, f.switchFocus()
	case msg.String() == "ctrl+u" && f.focus == fieldTitle:
		f.clearTitle()
		return formPending, nil
	}
	var cmd tea.Cmd
	if f.focus == fieldTitle {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.date, cmd = f.date.Update(msg)
	}
	return formPending, cmd
}

func (f *addForm) switchFocus() tea.Cmd {
	if f.focus == fieldTitle {
		f.focus = fieldDate
		f.title.Blur()
		return f.date.Focus()
	}
	f.focus = fieldTitle
	f.date.Blur()
	return f.title.Focus()
}

func (f addForm) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New task"))
	b.WriteString("\n")
	b.WriteString("Title: ")
	b.WriteString(f.title.View())
	b.WriteString("\n")
	b.WriteString("Date:  ")
	b.WriteString(f.date.View())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("enter: add • tab: next field • ctrl+u: clear title • esc: cancel"))
	return b.String()
}
