package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted    = ac("240", "243")
	colorAccent   = ac("#d6336c", "#f783ac") // pastel pink
	colorOpen     = ac("#1c7ed6", "#a5d8ff")
	colorDone     = ac("#2b8a3e", "#b2f2bb")
	colorDanger   = ac("#c92a2a", "#ffa8a8")
	colorSelected = ac("#e9e9e9", "#262626")
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorAccent).Padding(0, 1)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	mutedStyle       = lipgloss.NewStyle().Foreground(colorMuted)
	doneRowStyle     = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
	selectedRowStyle = lipgloss.NewStyle().Background(colorSelected).Bold(true)
	announceStyle    = lipgloss.NewStyle().Foreground(colorAccent).Italic(true)

	dayNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorMuted)
	todayStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	chipOpenStyle = lipgloss.NewStyle().Foreground(colorOpen)
	chipDoneStyle = lipgloss.NewStyle().Foreground(colorDone).Strikethrough(true)
	chipMoreStyle = lipgloss.NewStyle().Foreground(colorOpen).Italic(true)
	chipCurStyle  = lipgloss.NewStyle().Reverse(true)

	popoverStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
	popoverDangerStyle = lipgloss.NewStyle().Foreground(colorDanger)
	dialogStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorOpen).
				Padding(0, 1)
)

// applyColorProfile honors NO_COLOR and otherwise trusts termenv's detection.
func applyColorProfile() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
}
