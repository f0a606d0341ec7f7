package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/tui/components"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// renderListTab renders the filtered records of kind k, newest last, with
// the cursor row highlighted.
func (a App) renderListTab(k model.Kind, cw, h int) string {
	t := theme.Active
	rows := a.view.Rows(k)

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	title := fmt.Sprintf("%s · %s", k.Label(), cli.FormatAmount(a.cur, a.kindTotal(k)))

	if len(rows) == 0 {
		body := mutedStyle.Render(cli.EmptyMessage(k)) + "\n\n" +
			mutedStyle.Render("[a] add  [f] filter  [r] reset filter")
		return components.ContentCard(title, body, cw)
	}

	innerW := components.CardInnerWidth(cw)
	dateW := 10
	catW := 14
	amtW := 16
	idW := 8
	if a.isCompactLayout() {
		idW = 0
	}
	descW := max(innerW-dateW-catW-amtW-idW-4, 8)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	editingStyle := lipgloss.NewStyle().Foreground(t.Background).Background(t.Yellow).Bold(true)

	format := func(id, desc, amount, cat, date string) string {
		line := fmt.Sprintf("%-*s %*s %-*s %-*s",
			descW, cli.Truncate(desc, descW),
			amtW, amount,
			catW, cli.Truncate(cat, catW),
			dateW, date)
		if idW > 0 {
			line += fmt.Sprintf(" %-*s", idW, id)
		}
		return line
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(format("ID", "Description", "Amount", "Category", "Date")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")

	// card border (2) + title (1) + header (2) + footer (2)
	visible := max(h-7, 3)
	cursor := a.cursor[k]
	offset := 0
	if cursor >= visible {
		offset = cursor - visible + 1
	}
	end := min(offset+visible, len(rows))

	editID, editing := a.tr.Editor().Targets(k)
	for i := offset; i < end; i++ {
		tx := rows[i]
		line := format(tx.ShortID(), tx.Description, cli.FormatAmount(a.cur, tx.Amount), string(tx.Category), cli.FormatDate(tx.Date))
		line = fmt.Sprintf("%-*s", innerW, line)
		switch {
		case editing && tx.ID == editID:
			b.WriteString(editingStyle.Render(line))
		case i == cursor:
			b.WriteString(selectedStyle.Render(line))
		default:
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d · [a]dd [e]dit [d]elete [x] export", cursor+1, len(rows))))

	return components.ContentCard(title, b.String(), cw)
}

func (a App) kindTotal(k model.Kind) decimal.Decimal {
	if k == model.Income {
		return a.view.Totals.Income
	}
	return a.view.Totals.Expense
}
