package components

import (
	"strings"

	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar shows besides the key hints.
type Status struct {
	// Editing describes an in-flight edit, e.g. "editing expense 1a2b3c4d".
	Editing string
	Message string
	IsError bool
	// Right is shown flush right, typically the currency and theme.
	Right string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	editStyle := lipgloss.NewStyle().Foreground(t.Background).Background(t.Yellow).Bold(true)
	msgStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	if s.IsError {
		msgStyle = msgStyle.Foreground(t.Red)
	}

	left := base.Render(" [?]help  [q]uit ")
	if s.Editing != "" {
		left += editStyle.Render(" "+s.Editing+" ") + base.Render(" ")
	}
	if s.Message != "" {
		left += msgStyle.Render(s.Message)
	}

	right := base.Render(s.Right + " ")

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + base.Render(strings.Repeat(" ", padding)) + right
}
