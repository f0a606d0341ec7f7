package components

import (
	"strings"

	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tab indexes.
const (
	TabExpenses = iota
	TabIncome
	TabSummary
)

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Expenses", Key: '1'},
	{Name: "Income", Key: '2'},
	{Name: "Summary", Key: '3'},
}

func tabLabel(tab Tab, active bool) string {
	if active {
		return " " + tab.Name + " "
	}
	return " " + tab.Name + "[" + string(tab.Key) + "] "
}

// TabVisualWidth returns the rendered width of a tab, matching RenderTabBar.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(tabLabel(tab, active))
}

// RenderTabBar renders the tab bar with the given active index, followed by
// a right-aligned title.
func RenderTabBar(activeIdx int, width int, title string) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	sepStyle := lipgloss.NewStyle().Background(t.Surface)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	var parts []string
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tabLabel(tab, true)))
			continue
		}
		parts = append(parts, inactiveStyle.Render(" "+tab.Name)+
			keyStyle.Render("["+string(tab.Key)+"]")+
			inactiveStyle.Render(" "))
	}
	left := strings.Join(parts, sepStyle.Render(" "))

	right := titleStyle.Render(title + " ")
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)

	return left + sepStyle.Render(strings.Repeat(" ", gap)) + right
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
