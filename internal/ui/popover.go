package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"haru/internal/task"
)

type popoverAction int

const (
	popoverNone popoverAction = iota
	popoverToggle
	popoverEdit
	popoverDelete
)

var popoverActions = []popoverAction{popoverToggle, popoverEdit, popoverDelete}

// popover is the action menu attached to a calendar chip. At most one is open.
type popover struct {
	open   bool
	armed  bool
	taskID string
	done   bool
	date   string
	cursor int
	// gen tells arm messages of an earlier opening apart from the current one.
	gen int
}

type popoverArmMsg struct{ gen int }

// openFor closes any open popover and opens one for t. Outside keys are only
// treated as dismissals once the returned command has armed it, so the key
// that opened the popover cannot close it again.
func (p *popover) openFor(t task.Task) tea.Cmd {
	p.close()
	p.open = true
	p.taskID = t.ID
	p.done = t.Done
	p.date = t.Date
	p.cursor = 0
	gen := p.gen
	return func() tea.Msg { return popoverArmMsg{gen: gen} }
}

func (p *popover) arm(msg popoverArmMsg) {
	if p.open && msg.gen == p.gen {
		p.armed = true
	}
}

func (p *popover) close() {
	p.open = false
	p.armed = false
	p.taskID = ""
	p.cursor = 0
	p.gen++
}

// handle maps a key to a menu action. handled is false for keys the popover
// does not own.
func (p *popover) handle(msg tea.KeyMsg, keys keyMap) (action popoverAction, handled bool) {
	switch {
	case msg.Type == tea.KeyEsc || keyMatches(msg, keys.Cancel):
		if !p.armed {
			return popoverNone, false
		}
		p.close()
		return popoverNone, true
	case keyMatches(msg, keys.Up):
		p.cursor = (p.cursor + len(popoverActions) - 1) % len(popoverActions)
		return popoverNone, true
	case keyMatches(msg, keys.Down):
		p.cursor = (p.cursor + 1) % len(popoverActions)
		return popoverNone, true
	case keyMatches(msg, keys.Confirm):
		return popoverActions[p.cursor], true
	case keyMatches(msg, keys.Toggle):
		return popoverToggle, true
	case keyMatches(msg, keys.Edit):
		return popoverEdit, true
	case keyMatches(msg, keys.Delete):
		return popoverDelete, true
	}
	return popoverNone, false
}

func (p popover) label(a popoverAction) string {
	switch a {
	case popoverToggle:
		if p.done {
			return "Mark as open"
		}
		return "Mark as done"
	case popoverEdit:
		return "Edit title"
	case popoverDelete:
		return "Delete"
	}
	return ""
}

func (p popover) view() string {
	lines := make([]string, 0, len(popoverActions))
	for i, a := range popoverActions {
		line := "  " + p.label(a)
		if i == p.cursor {
			line = "> " + p.label(a)
		}
		if a == popoverDelete {
			line = popoverDangerStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return popoverStyle.Render(strings.Join(lines, "\n"))
}
