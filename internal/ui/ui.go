package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"haru/internal/calendar"
	"haru/internal/config"
	"haru/internal/task"
)

type tab int

const (
	tabList tab = iota
	tabCalendar
)

func parseTab(v string) tab {
	if strings.EqualFold(strings.TrimSpace(v), "calendar") {
		return tabCalendar
	}
	return tabList
}

func (t tab) String() string {
	if t == tabCalendar {
		return "calendar"
	}
	return "list"
}

type Model struct {
	repo   *task.Repository
	cfg    config.Config
	keys   keyMap
	help   help.Model
	logger *log.Logger
	now    func() time.Time

	tab    tab
	cursor int
	filter task.Status

	month calendar.Month
	day   int
	slot  int

	adding bool
	form   addForm
	dialog *dialog
	pop    popover
	ann    announcer
	status string
}

type Option func(*Model)

// WithClock sets the clock used for "today" and the add form's default date.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

func New(repo *task.Repository, cfg config.Config, logger *log.Logger, opts ...Option) Model {
	filter, err := task.ParseStatus(cfg.DefaultFilter)
	if err != nil {
		filter = task.StatusAll
	}
	m := Model{
		repo:   repo,
		cfg:    cfg,
		keys:   newKeyMap(cfg.Keys),
		help:   help.New(),
		logger: logger,
		now:    time.Now,
		tab:    parseTab(cfg.DefaultTab),
		filter: filter,
		form:   newAddForm(),
		ann:    announcer{delay: cfg.AnnounceDuration()},
		status: "Press 'a' to add, space to toggle, tab to switch views.",
	}
	for _, opt := range opts {
		opt(&m)
	}
	today := m.now()
	m.month = calendar.MonthOf(today)
	m.day = today.Day()
	m.keys.tab = m.tab
	return m
}

func Run(repo *task.Repository, cfg config.Config, logger *log.Logger) error {
	applyColorProfile()
	program := tea.NewProgram(New(repo, cfg, logger), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case popoverArmMsg:
		m.pop.arm(msg)
	case clearAnnouncementMsg:
		m.ann.clear(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.form.title.Width = max(20, msg.Width-20)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.dialog != nil {
		return m.updateDialog(msg)
	}
	if m.adding {
		return m.updateAddForm(msg)
	}
	if m.pop.open {
		action, handled := m.pop.handle(msg, m.keys)
		if handled {
			if action == popoverNone {
				return m, nil
			}
			return m.runPopoverAction(action)
		}
		if m.pop.armed {
			// Any other key is an activation outside the popover: close it and
			// let the key do its usual job.
			m.pop.close()
		}
	}

	switch {
	case keyMatches(msg, m.keys.Quit):
		return m, tea.Quit
	case keyMatches(msg, m.keys.ListTab):
		m.activate(tabList)
		return m, nil
	case keyMatches(msg, m.keys.CalendarTab):
		m.activate(tabCalendar)
		return m, nil
	case keyMatches(msg, m.keys.SwitchTab):
		if m.tab == tabList {
			m.activate(tabCalendar)
		} else {
			m.activate(tabList)
		}
		return m, nil
	case keyMatches(msg, m.keys.Add):
		return m.startAdd()
	}

	if m.tab == tabCalendar {
		return m.updateCalendar(msg)
	}
	return m.updateList(msg)
}

// activate switches the visible view. It never touches task data.
func (m *Model) activate(t tab) {
	if m.tab == t {
		return
	}
	m.pop.close()
	m.tab = t
	m.keys.tab = t
}

func (m Model) startAdd() (tea.Model, tea.Cmd) {
	date := task.FormatDate(m.now())
	if m.tab == tabCalendar {
		date = m.month.DateKey(m.day)
	}
	m.pop.close()
	m.adding = true
	m.status = "Add mode: type a title and press Enter"
	return m, m.form.open(date)
}

func (m Model) updateAddForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res, cmd := m.form.update(msg, m.keys)
	switch res {
	case formCancelled:
		m.adding = false
		m.form.blur()
		m.form.clearTitle()
		m.status = "Cancelled"
		return m, nil
	case formSubmitted:
		title, date := m.form.values()
		if title == "" {
			m.status = "Title cannot be empty"
			return m, nil
		}
		if _, err := task.ParseDate(date); err != nil {
			m.status = "Date must be YYYY-MM-DD"
			return m, nil
		}
		t, err := m.repo.Create(m.ctx(), title, date)
		if err != nil {
			m.fail("save", err)
			return m, nil
		}
		m.logger.Debug("task added", "id", t.ID, "date", t.Date)
		m.form.clearTitle()
		m.form.blur()
		m.adding = false
		m.status = "Added task"
		m.selectTask(t)
		return m, m.ann.announce("Task added")
	}
	return m, cmd
}

func (m Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res, cmd := m.dialog.update(msg, m.keys)
	if res == nil {
		return m, cmd
	}
	m.dialog = nil
	if res.Kind != dialogPrompt {
		return m, nil
	}
	if !res.Confirmed {
		m.status = "Edit cancelled"
		return m, nil
	}
	title := strings.TrimSpace(res.Value)
	if title == "" {
		m.status = "Title unchanged"
		return m, nil
	}
	if err := m.repo.Update(m.ctx(), res.TaskID, task.Patch{Title: &title}); err != nil {
		m.fail("save", err)
		return m, nil
	}
	m.status = "Updated task"
	return m, nil
}

func (m Model) runPopoverAction(action popoverAction) (tea.Model, tea.Cmd) {
	id := m.pop.taskID
	m.pop.close()
	switch action {
	case popoverToggle:
		m.toggleTask(id)
		return m, nil
	case popoverEdit:
		m.editTask(id)
		return m, nil
	case popoverDelete:
		return m.deleteTask(id, "Task deleted from calendar")
	}
	return m, nil
}

func (m *Model) toggleTask(id string) {
	if err := m.repo.Toggle(m.ctx(), id); err != nil {
		m.fail("toggle", err)
		return
	}
	m.cursor = clampCursor(m.cursor, len(m.listRows()))
	m.status = "Toggled task"
}

func (m *Model) editTask(id string) {
	t, ok := m.repo.Get(id)
	if !ok {
		return
	}
	m.dialog = newPromptDialog("Edit task", t.Title, t.ID)
	m.status = "Edit title: Enter to save, Esc to cancel"
}

func (m Model) deleteTask(id, announcement string) (tea.Model, tea.Cmd) {
	if err := m.repo.Delete(m.ctx(), id); err != nil {
		m.fail("delete", err)
		return m, nil
	}
	m.logger.Debug("task deleted", "id", id)
	m.status = "Deleted task"
	m.cursor = clampCursor(m.cursor, len(m.listRows()))
	m.slot = 0
	return m, m.ann.announce(announcement)
}

// selectTask moves both views onto t.
func (m *Model) selectTask(t task.Task) {
	rows := m.listRows()
	for i, r := range rows {
		if r.ID == t.ID {
			m.cursor = i
			break
		}
	}
	if d, err := task.ParseDate(t.Date); err == nil {
		m.month = calendar.MonthOf(d)
		m.day = d.Day()
		m.slot = 0
	}
}

func (m *Model) fail(op string, err error) {
	m.logger.Error(op+" failed", "err", err)
	m.status = fmt.Sprintf("%s failed: %v", op, err)
}

func (m Model) ctx() context.Context {
	return context.Background()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("haru"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.tab == tabCalendar {
		b.WriteString(m.renderCalendarView())
	} else {
		b.WriteString(m.renderListView())
	}

	if m.adding {
		b.WriteString("\n\n")
		b.WriteString(m.form.view())
	}
	if m.dialog != nil {
		b.WriteString("\n\n")
		b.WriteString(m.dialog.view())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	if m.ann.text != "" {
		b.WriteString("  ")
		b.WriteString(announceStyle.Render(m.ann.text))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderTabs() string {
	list, cal := tabInactiveStyle, tabInactiveStyle
	if m.tab == tabList {
		list = tabActiveStyle
	} else {
		cal = tabActiveStyle
	}
	return list.Render("List") + cal.Render("Calendar")
}

func keyMatches(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
