// Package calendar lays out a month of tasks as a Sunday-first grid.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"haru/internal/task"
)

// MaxChips is how many tasks a day cell shows before collapsing the rest.
const MaxChips = 4

type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth reads YYYY-MM.
func ParseMonth(v string) (Month, error) {
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return Month{}, fmt.Errorf("month must be YYYY-MM: %w", err)
	}
	return MonthOf(t), nil
}

func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.Local)
}

// Add moves n months forward (negative n moves back).
func (m Month) Add(n int) Month {
	return MonthOf(m.First().AddDate(0, n, 0))
}

func (m Month) Prev() Month { return m.Add(-1) }
func (m Month) Next() Month { return m.Add(1) }

// DaysIn returns the number of days in the month.
func (m Month) DaysIn() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// LeadingBlanks is the weekday of day 1, Sunday = 0.
func (m Month) LeadingBlanks() int {
	return int(m.First().Weekday())
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) Title() string {
	return m.First().Format("January 2006")
}

// DateKey returns the YYYY-MM-DD key of a day in the month.
func (m Month) DateKey(day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", m.Year, int(m.Month), day)
}

type Day struct {
	Day   int         `json:"day"`
	Date  string      `json:"date"`
	Today bool        `json:"today"`
	Chips []task.Task `json:"chips"`
	// Overflow counts the tasks not shown as chips.
	Overflow int `json:"overflow"`
	// All holds every task of the day in chip order.
	All []task.Task `json:"all"`
}

type Grid struct {
	Month   Month `json:"-"`
	Leading int   `json:"leading"`
	Days    []Day `json:"days"`
}

// CellCount is leading blanks plus days in the month.
func (g Grid) CellCount() int {
	return g.Leading + len(g.Days)
}

// Layout builds the grid for m. today is the date key marked as the current day.
func Layout(m Month, tasks []task.Task, today string) Grid {
	g := Grid{
		Month:   m,
		Leading: m.LeadingBlanks(),
		Days:    make([]Day, 0, m.DaysIn()),
	}
	for d := 1; d <= m.DaysIn(); d++ {
		key := m.DateKey(d)
		all := task.TasksOn(tasks, key)
		chips := all
		overflow := 0
		if len(all) > MaxChips {
			chips = all[:MaxChips]
			overflow = len(all) - MaxChips
		}
		g.Days = append(g.Days, Day{
			Day:      d,
			Date:     key,
			Today:    key == today,
			Chips:    chips,
			Overflow: overflow,
			All:      all,
		})
	}
	return g
}

// Weeks splits the grid into rows of seven cells. Blank cells are nil.
func (g Grid) Weeks() [][]*Day {
	cells := make([]*Day, 0, g.CellCount())
	for i := 0; i < g.Leading; i++ {
		cells = append(cells, nil)
	}
	for i := range g.Days {
		cells = append(cells, &g.Days[i])
	}
	var weeks [][]*Day
	for len(cells) > 0 {
		n := min(7, len(cells))
		week := make([]*Day, 7)
		copy(week, cells[:n])
		weeks = append(weeks, week)
		cells = cells[n:]
	}
	return weeks
}

// Overview renders a day's tasks as plain text, one "[✓] title" or "[ ] title" per line.
func Overview(d Day) string {
	lines := make([]string, 0, len(d.All))
	for _, t := range d.All {
		mark := "[ ]"
		if t.Done {
			mark = "[✓]"
		}
		lines = append(lines, mark+" "+t.Title)
	}
	return strings.Join(lines, "\n")
}
