package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// openPopover switches to the calendar and opens the popover for the first
// chip of the selected day, returning the arm command.
func openPopover(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	m, _ = press(t, m, "2")
	m, cmd := press(t, m, "enter")
	if !m.pop.open {
		t.Fatalf("expected popover open")
	}
	if cmd == nil {
		t.Fatalf("expected arm command")
	}
	return m, cmd
}

func TestPopover_OutsideKeysIgnoredUntilArmed(t *testing.T) {
	m := newTestModel(t, seedTask("rent", "Pay rent", "2024-03-05", false, 1))
	m, arm := openPopover(t, m)
	if m.pop.armed {
		t.Fatalf("popover must not be armed before the opening key finished")
	}

	m, _ = press(t, m, "esc")
	if !m.pop.open {
		t.Fatalf("esc before arming must not close the popover")
	}

	m = send(t, m, arm())
	if !m.pop.armed {
		t.Fatalf("expected popover armed")
	}
	m, _ = press(t, m, "esc")
	if m.pop.open || m.pop.armed {
		t.Fatalf("esc should close an armed popover")
	}
}

func TestPopover_OutsideActivationClosesAndPassesThrough(t *testing.T) {
	m := newTestModel(t, seedTask("rent", "Pay rent", "2024-03-05", false, 1))
	m, arm := openPopover(t, m)
	m = send(t, m, arm())

	m, _ = press(t, m, "l")
	if m.pop.open {
		t.Fatalf("outside key should close the popover")
	}
	if m.day != 6 {
		t.Fatalf("outside key should still move the day, got %d", m.day)
	}
}

func TestPopover_ReopenClosesPrevious(t *testing.T) {
	m := newTestModel(t,
		seedTask("a", "First", "2024-03-05", false, 1),
		seedTask("b", "Second", "2024-03-05", false, 2),
	)
	m, staleArm := openPopover(t, m)
	if m.pop.taskID != "a" {
		t.Fatalf("expected popover for first chip, got %q", m.pop.taskID)
	}

	// Opening for another chip replaces the first popover.
	day := m.selectedDay()
	freshArm := m.pop.openFor(day.Chips[1])
	if m.pop.taskID != "b" || m.pop.armed {
		t.Fatalf("expected unarmed popover for second chip, got %+v", m.pop)
	}
	m = send(t, m, staleArm())
	if m.pop.armed {
		t.Fatalf("arm message from the closed popover must be ignored")
	}
	m = send(t, m, freshArm())
	if !m.pop.armed {
		t.Fatalf("expected current popover armed")
	}
}

func TestPopover_ToggleAction(t *testing.T) {
	m := newTestModel(t, seedTask("rent", "Pay rent", "2024-03-05", false, 1))
	m, arm := openPopover(t, m)
	m = send(t, m, arm())
	if !strings.Contains(m.View(), "Mark as done") {
		t.Fatalf("expected toggle label in popover:\n%s", m.View())
	}

	m, _ = press(t, m, " ")
	if m.pop.open {
		t.Fatalf("action should close the popover")
	}
	if got, _ := m.repo.Get("rent"); !got.Done {
		t.Fatalf("expected task toggled done")
	}
	if !strings.Contains(m.View(), "✓ Pay rent") {
		t.Fatalf("expected done chip after toggle")
	}

	m, _ = press(t, m, "enter")
	if !strings.Contains(m.View(), "Mark as open") {
		t.Fatalf("expected reversed toggle label:\n%s", m.View())
	}
}

func TestPopover_MenuNavigationEdit(t *testing.T) {
	m := newTestModel(t, seedTask("rent", "Pay rent", "2024-03-05", false, 1))
	m, _ = openPopover(t, m)
	m, _ = press(t, m, "down", "enter")
	if m.pop.open {
		t.Fatalf("expected popover closed after choosing edit")
	}
	if m.dialog == nil || m.dialog.taskID != "rent" {
		t.Fatalf("expected edit prompt for rent")
	}
	m, _ = press(t, m, "ctrl+u")
	m = typeText(t, m, "Pay April rent")
	m, _ = press(t, m, "enter")
	if got, _ := m.repo.Get("rent"); got.Title != "Pay April rent" {
		t.Fatalf("expected edited title, got %q", got.Title)
	}
}

func TestPopover_DeleteAction(t *testing.T) {
	m := newTestModel(t, seedTask("rent", "Pay rent", "2024-03-05", false, 1))
	m, _ = openPopover(t, m)
	m, cmd := press(t, m, "d")
	if cmd == nil || m.ann.text != "Task deleted from calendar" {
		t.Fatalf("expected delete announcement, got %q", m.ann.text)
	}
	if len(m.repo.List()) != 0 {
		t.Fatalf("expected task deleted")
	}
	if m.pop.open {
		t.Fatalf("expected popover closed")
	}
	m, _ = press(t, m, "1")
	if strings.Contains(m.View(), "Pay rent") {
		t.Fatalf("list still shows deleted task")
	}
}

func TestPopover_ClosedBySwitchingTabs(t *testing.T) {
	m := newTestModel(t, seedTask("rent", "Pay rent", "2024-03-05", false, 1))
	m, _ = openPopover(t, m)
	m, _ = press(t, m, "1")
	if m.pop.open {
		t.Fatalf("expected popover closed when leaving the calendar")
	}
}

func TestPopover_ToggleShrinkingFilteredListKeepsCursorInRange(t *testing.T) {
	m := newTestModel(t,
		seedTask("rent", "Pay rent", "2024-03-05", false, 1),
		seedTask("dentist", "Dentist", "2024-03-06", false, 2),
	)
	m, _ = press(t, m, "f", "j")
	if m.filter != "open" || m.cursor != 1 {
		t.Fatalf("expected open filter with cursor on second row, got %q/%d", m.filter, m.cursor)
	}

	m, arm := openPopover(t, m)
	m = send(t, m, arm())
	m, _ = press(t, m, " ")
	if got, _ := m.repo.Get("rent"); !got.Done {
		t.Fatalf("expected popover toggle to mark Pay rent done")
	}

	m, _ = press(t, m, "1", " ")
	if got, _ := m.repo.Get("dentist"); !got.Done {
		t.Fatalf("expected list toggle to hit the remaining open task")
	}
	if m.cursor != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", m.cursor)
	}
}
