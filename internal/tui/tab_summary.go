package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/tui/components"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderSummaryTab(cw int) string {
	t := theme.Active
	v := a.view
	var b strings.Builder

	// Row 1: totals
	metrics := []components.Metric{
		{
			Label: "Total Expenses",
			Value: cli.FormatAmount(a.cur, v.Totals.Expense),
			Note:  fmt.Sprintf("%d records", len(v.Expenses)),
			Color: t.Red,
		},
		{
			Label: "Total Income",
			Value: cli.FormatAmount(a.cur, v.Totals.Income),
			Note:  fmt.Sprintf("%d records", len(v.Income)),
			Color: t.Green,
		},
		{
			Label: "Balance",
			Value: cli.FormatBalance(a.cur, v.Totals.Balance),
			Note:  a.cur.Code,
			Color: balanceColor(v.Totals.Balance),
		},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: category breakdowns, side by side unless compact
	expenseW, incomeW := cw, cw
	if !a.isCompactLayout() {
		halves := components.LayoutRow(cw, 2)
		expenseW, incomeW = halves[0], halves[1]
	}
	expenseCard := components.ContentCard("Expenses by Category",
		components.CategoryChart(model.Expense, v.ExpenseByCategory, a.cur, components.CardInnerWidth(expenseW)),
		expenseW)
	incomeCard := components.ContentCard("Income by Category",
		components.CategoryChart(model.Income, v.IncomeByCategory, a.cur, components.CardInnerWidth(incomeW)),
		incomeW)

	if a.isCompactLayout() {
		b.WriteString(expenseCard)
		b.WriteString("\n")
		b.WriteString(incomeCard)
	} else {
		b.WriteString(components.CardRow([]string{expenseCard, incomeCard}))
	}
	b.WriteString("\n")

	// Row 3: monthly trend ignoring the month filter
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	var trend strings.Builder
	trend.WriteString(labelStyle.Render(fmt.Sprintf("%-9s", "Expenses")))
	trend.WriteString(components.Sparkline(a.trend[model.Expense], t.Red))
	trend.WriteString("\n")
	trend.WriteString(labelStyle.Render(fmt.Sprintf("%-9s", "Income")))
	trend.WriteString(components.Sparkline(a.trend[model.Income], t.Green))
	b.WriteString(components.ContentCard(fmt.Sprintf("Last %d Months", trendMonths), trend.String(), cw))

	return b.String()
}
