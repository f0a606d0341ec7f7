package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/money"
	"github.com/theirongolddev/tally/internal/pipeline"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Styles are rebuilt from theme.Active by ApplyTheme.
var (
	titleStyle  lipgloss.Style
	headerStyle lipgloss.Style
	valueStyle  lipgloss.Style
	mutedStyle  lipgloss.Style
	dimStyle    lipgloss.Style
	borderColor lipgloss.Color
)

func init() {
	ApplyTheme(theme.Active)
}

// ApplyTheme recolors CLI output.
func ApplyTheme(t theme.Theme) {
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	valueStyle = lipgloss.NewStyle().Foreground(t.TextPrimary)
	mutedStyle = lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle = lipgloss.NewStyle().Foreground(t.TextDim)
	borderColor = t.Border
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
	// Right marks right-aligned columns. When nil every column but the
	// first is right-aligned.
	Right []bool
}

func (t Table) rightAligned(i int) bool {
	if t.Right == nil {
		return i > 0
	}
	return i < len(t.Right) && t.Right[i]
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderMuted renders a hint line.
func RenderMuted(s string) string {
	return mutedStyle.Render(s)
}

func pad(s string, w int, right bool) string {
	gap := w - lipgloss.Width(s)
	if gap < 0 {
		gap = 0
	}
	if right {
		return " " + strings.Repeat(" ", gap) + s + " "
	}
	return " " + s + strings.Repeat(" ", gap) + " "
}

func rule(b *strings.Builder, widths []int, left, mid, right string) {
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(mid))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
}

// RenderTable renders a bordered table with headers and rows. A row
// holding the single cell "---" renders as a separator.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule(&b, widths, "╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(h, widths[i], t.rightAligned(i))))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		rule(&b, widths, "├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			rule(&b, widths, "├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(pad(cell, widths[i], t.rightAligned(i))))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	rule(&b, widths, "╰", "┴", "╯")
	return b.String()
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = min(max(idx, 0), len(blocks)-1)
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// RenderCategoryBars renders one colored bar per category sum, scaled to
// the largest, followed by its legend. Colors follow the category's fixed
// position so they match the dashboard charts.
func RenderCategoryBars(k model.Kind, sums []model.CategorySum, cur money.Currency, barWidth int) string {
	if len(sums) == 0 {
		return "  " + mutedStyle.Render(EmptyMessage(k)) + "\n"
	}

	total := decimal.Zero
	peak := decimal.Zero
	labelW := 0
	for _, cs := range sums {
		total = total.Add(cs.Sum)
		if cs.Sum.GreaterThan(peak) {
			peak = cs.Sum
		}
		labelW = max(labelW, lipgloss.Width(string(cs.Category)))
	}

	var b strings.Builder
	for _, cs := range sums {
		n := 0
		if peak.IsPositive() {
			n = int(cs.Sum.Div(peak).Mul(decimal.NewFromInt(int64(barWidth))).Round(0).IntPart())
		}
		n = max(n, 1)
		bar := lipgloss.NewStyle().Foreground(theme.CategoryColor(k, cs.Index)).Render(strings.Repeat("█", n))
		fmt.Fprintf(&b, "  %-*s %s%s %s\n",
			labelW, string(cs.Category),
			bar, strings.Repeat(" ", barWidth-n),
			valueStyle.Render(fmt.Sprintf("%s (%s)", cur.Display(cs.Sum), FormatShare(pipeline.Share(cs.Sum, total)))))
	}
	return b.String()
}

// EmptyMessage is shown when a filtered list has no rows.
func EmptyMessage(k model.Kind) string {
	if k == model.Income {
		return "No income matches the current filters"
	}
	return "No expenses match the current filters"
}

// RenderBalance colors a signed balance: green when non-negative, red otherwise.
func RenderBalance(cur money.Currency, d decimal.Decimal) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Active.Balance(d.IsNegative())).
		Render(FormatBalance(cur, d))
}
