package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/money"
	"github.com/theirongolddev/tally/internal/pipeline"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	return style.Render(cli.RenderSparkline(values))
}

// CategoryChart renders one row per category sum: a swatch in the
// category's palette color, a share bar, and the legend text
// "Category: <amount> (<pct>%)". An empty breakdown renders the kind's
// empty-list message.
func CategoryChart(k model.Kind, sums []model.CategorySum, cur money.Currency, width int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	legendStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	if len(sums) == 0 {
		return mutedStyle.Render(cli.EmptyMessage(k))
	}

	total := decimal.Zero
	for _, cs := range sums {
		total = total.Add(cs.Sum)
	}

	legends := make([]string, len(sums))
	legendW := 0
	for i, cs := range sums {
		legends[i] = cli.FormatLegend(cur, string(cs.Category), cs.Sum, pipeline.Share(cs.Sum, total))
		legendW = max(legendW, lipgloss.Width(legends[i]))
	}

	// swatch(2) + gap(1) + legend + gap(2) + bar + " 100%"(5)
	barW := max(width-legendW-10, 6)
	if barW > 40 {
		barW = 40
	}

	var b strings.Builder
	for i, cs := range sums {
		color := theme.CategoryColor(k, cs.Index)
		swatch := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render("■")
		pct := 0.0
		if total.IsPositive() {
			pct = cs.Sum.Div(total).InexactFloat64()
		}
		b.WriteString(swatch)
		b.WriteString(spaceStyle.Render(" "))
		b.WriteString(legendStyle.Render(fmt.Sprintf("%-*s", legendW, legends[i])))
		b.WriteString(spaceStyle.Render("  "))
		b.WriteString(ShareBar(pct, color, barW))
		if i < len(sums)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
