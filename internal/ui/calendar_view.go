package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"haru/internal/calendar"
	"haru/internal/task"
)

const (
	cellWidth  = 16
	cellHeight = 2 + calendar.MaxChips
)

var dayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func (m Model) grid() calendar.Grid {
	return calendar.Layout(m.month, m.repo.List(), task.FormatDate(m.now()))
}

func (m Model) selectedDay() calendar.Day {
	g := m.grid()
	return g.Days[clampCursor(m.day-1, len(g.Days))]
}

// slots is the number of selectable entries in a day: its chips plus the
// overflow control when present.
func slots(d calendar.Day) int {
	n := len(d.Chips)
	if d.Overflow > 0 {
		n++
	}
	return n
}

func (m Model) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Left):
		m.moveDay(-1)
	case keyMatches(msg, m.keys.Right):
		m.moveDay(1)
	case keyMatches(msg, m.keys.Up):
		m.moveDay(-7)
	case keyMatches(msg, m.keys.Down):
		m.moveDay(7)
	case keyMatches(msg, m.keys.PrevMonth):
		m.setMonth(m.month.Prev())
	case keyMatches(msg, m.keys.NextMonth):
		m.setMonth(m.month.Next())
	case keyMatches(msg, m.keys.Today):
		today := m.now()
		m.month = calendar.MonthOf(today)
		m.day = today.Day()
		m.slot = 0
	case keyMatches(msg, m.keys.NextChip):
		if n := slots(m.selectedDay()); n > 0 {
			m.slot = (m.slot + 1) % n
		}
	case keyMatches(msg, m.keys.Confirm):
		return m.activateSlot()
	}
	return m, nil
}

// activateSlot opens the popover for the selected chip, or the overview
// dialog when the overflow control is selected.
func (m Model) activateSlot() (tea.Model, tea.Cmd) {
	d := m.selectedDay()
	switch {
	case m.slot < len(d.Chips):
		return m, m.pop.openFor(d.Chips[m.slot])
	case d.Overflow > 0:
		title := fmt.Sprintf("%s • %d tasks", task.DisplayDate(d.Date), len(d.All))
		m.dialog = newMessageDialog(title, calendar.Overview(d))
	}
	return m, nil
}

func (m *Model) moveDay(delta int) {
	d := m.month.First().AddDate(0, 0, m.day-1+delta)
	m.month = calendar.MonthOf(d)
	m.day = d.Day()
	m.slot = 0
}

func (m *Model) setMonth(month calendar.Month) {
	m.month = month
	m.day = clampCursor(m.day-1, month.DaysIn()) + 1
	m.slot = 0
}

func (m Model) renderCalendarView() string {
	var pop *popover
	if m.pop.open {
		pop = &m.pop
	}
	return renderCalendar(m.grid(), m.day, m.slot, pop)
}

// renderCalendar draws the month grid. The popover, when given, is drawn
// under the week holding its task, indented to the task's column.
func renderCalendar(g calendar.Grid, selDay, selSlot int, pop *popover) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(g.Month.Title()))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render("[ prev • ] next • t today"))
	b.WriteString("\n\n")

	header := make([]string, 0, len(dayNames))
	for _, n := range dayNames {
		header = append(header, dayNameStyle.Width(cellWidth).Render(n))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for _, week := range g.Weeks() {
		cells := make([]string, 0, len(week))
		popCol := -1
		for col, d := range week {
			cells = append(cells, renderCell(d, selDay, selSlot))
			if pop != nil && d != nil && d.Date == pop.date {
				popCol = col
			}
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		if popCol >= 0 {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().MarginLeft(popCol * cellWidth).Render(pop.view()))
		}
	}
	return b.String()
}

func renderCell(d *calendar.Day, selDay, selSlot int) string {
	cell := lipgloss.NewStyle().Width(cellWidth).Height(cellHeight)
	if d == nil {
		return cell.Render("")
	}
	selected := d.Day == selDay

	label := strconv.Itoa(d.Day)
	if d.Today {
		label = todayStyle.Render(label + " today")
	}
	if selected {
		label = "> " + label
	} else {
		label = "  " + label
	}

	lines := []string{label}
	for i, t := range d.Chips {
		lines = append(lines, renderChip(t, selected && selSlot == i))
	}
	if d.Overflow > 0 {
		more := fmt.Sprintf("  +%d more", d.Overflow)
		if selected && selSlot == len(d.Chips) {
			more = chipCurStyle.Render(more)
		} else {
			more = chipMoreStyle.Render(more)
		}
		lines = append(lines, more)
	}
	return cell.Render(strings.Join(lines, "\n"))
}

func renderChip(t task.Task, current bool) string {
	mark, style := "· ", chipOpenStyle
	if t.Done {
		mark, style = "✓ ", chipDoneStyle
	}
	text := "  " + mark + ansi.Truncate(t.Title, cellWidth-5, "…")
	if current {
		return chipCurStyle.Render(text)
	}
	return style.Render(text)
}

// RenderCalendar draws g without a selection, for non-interactive output.
func RenderCalendar(g calendar.Grid) string {
	return renderCalendar(g, 0, 0, nil)
}
