package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"haru/internal/task"
)

func (m Model) listRows() []task.Task {
	return task.ListView(m.repo.List(), m.filter)
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.listRows()
	// The calendar can change the filtered rows behind the list's back.
	m.cursor = clampCursor(m.cursor, len(rows))
	switch {
	case keyMatches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(rows))
	case keyMatches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(rows))
	case keyMatches(msg, m.keys.Filter):
		m.filter = m.filter.Next()
		m.cursor = clampCursor(m.cursor, len(m.listRows()))
		m.status = fmt.Sprintf("Showing %s tasks", m.filter)
	case keyMatches(msg, m.keys.Toggle):
		if len(rows) == 0 {
			return m, nil
		}
		m.toggleTask(rows[m.cursor].ID)
		m.cursor = clampCursor(m.cursor, len(m.listRows()))
	case keyMatches(msg, m.keys.Edit):
		if len(rows) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		m.editTask(rows[m.cursor].ID)
	case keyMatches(msg, m.keys.Delete):
		if len(rows) == 0 {
			return m, nil
		}
		return m.deleteTask(rows[m.cursor].ID, "Task deleted")
	}
	return m, nil
}

func (m Model) renderListView() string {
	return renderList(m.listRows(), m.filter, m.cursor)
}

// renderList draws the filtered rows with the cursor row highlighted.
func renderList(rows []task.Task, filter task.Status, cursor int) string {
	var b strings.Builder
	b.WriteString(renderFilter(filter))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(countLabel(len(rows))))
	b.WriteString("\n\n")

	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("No tasks yet. Press 'a' to add one."))
		return b.String()
	}
	for i, t := range rows {
		prefix := "  "
		if i == cursor {
			prefix = "> "
		}
		checkbox := "[ ]"
		if t.Done {
			checkbox = "[x]"
		}
		line := fmt.Sprintf("%s%s %s  %s", prefix, checkbox, t.Title, mutedStyle.Render(task.DisplayDate(t.Date)))
		switch {
		case i == cursor:
			line = selectedRowStyle.Render(line)
		case t.Done:
			line = doneRowStyle.Render(line)
		}
		b.WriteString(line)
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderFilter(filter task.Status) string {
	parts := make([]string, 0, 3)
	for _, s := range []task.Status{task.StatusAll, task.StatusOpen, task.StatusDone} {
		if s == filter {
			parts = append(parts, tabActiveStyle.Render(string(s)))
		} else {
			parts = append(parts, tabInactiveStyle.Render(string(s)))
		}
	}
	return "Filter:" + strings.Join(parts, "")
}

func countLabel(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}
