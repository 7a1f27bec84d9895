package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type dialogKind int

const (
	dialogPrompt dialogKind = iota
	dialogMessage
)

// dialog is a modal shown over the active view. Prompt dialogs collect one
// line of text; message dialogs only show text.
type dialog struct {
	kind   dialogKind
	title  string
	body   string
	input  textinput.Model
	taskID string
}

// dialogResult is what a closed dialog reports back.
type dialogResult struct {
	Confirmed bool
	Value     string
	TaskID    string
	Kind      dialogKind
}

func newPromptDialog(title, value, taskID string) *dialog {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return &dialog{kind: dialogPrompt, title: title, input: ti, taskID: taskID}
}

func newMessageDialog(title, body string) *dialog {
	return &dialog{kind: dialogMessage, title: title, body: body}
}

// update returns a non-nil result once the dialog is confirmed or cancelled.
func (d *dialog) update(msg tea.KeyMsg, keys keyMap) (*dialogResult, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc || keyMatches(msg, keys.Cancel):
		return &dialogResult{Kind: d.kind, TaskID: d.taskID}, nil
	case msg.Type == tea.KeyEnter || keyMatches(msg, keys.Confirm):
		res := &dialogResult{Confirmed: true, Kind: d.kind, TaskID: d.taskID}
		if d.kind == dialogPrompt {
			res.Value = d.input.Value()
		}
		return res, nil
	}
	if d.kind != dialogPrompt {
		return nil, nil
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return nil, cmd
}

func (d *dialog) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.title))
	b.WriteString("\n\n")
	switch d.kind {
	case dialogPrompt:
		b.WriteString(d.input.View())
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("enter: save • esc: cancel"))
	case dialogMessage:
		b.WriteString(d.body)
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("enter/esc: close"))
	}
	return dialogStyle.Render(b.String())
}
