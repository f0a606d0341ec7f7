// Package tui provides the interactive Bubble Tea dashboard for tally.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/export"
	"github.com/theirongolddev/tally/internal/ledger"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/money"
	"github.com/theirongolddev/tally/internal/pipeline"
	"github.com/theirongolddev/tally/internal/tracker"
	"github.com/theirongolddev/tally/internal/tui/components"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

type mode int

const (
	modeBrowse mode = iota
	modeEntry
	modeFilter
	modeExport
	modeDelete
)

// trendMonths is how many months the Summary tab's sparklines cover.
const trendMonths = 6

// Options configures an App.
type Options struct {
	Config config.Config
	// SaveConfig persists theme changes; nil keeps them in memory.
	SaveConfig func(config.Config) error
	// ExportDir is where exports are written by default.
	ExportDir string
	Logger    *slog.Logger
	Now       func() time.Time
}

// exportDoneMsg is sent when a background export finishes.
type exportDoneMsg struct {
	path string
	err  error
}

// App is the root Bubble Tea model.
type App struct {
	tr   *tracker.Tracker
	opts Options
	log  *slog.Logger
	now  func() time.Time

	// Pre-computed for the current filter
	view  model.View
	cur   money.Currency
	trend [2][]float64 // by kind, oldest month first

	// UI state
	width     int
	height    int
	activeTab int
	cursor    [2]int // per list tab
	showHelp  bool
	keys      keyMap
	help      help.Model

	// Modal forms
	mode       mode
	form       *huh.Form
	entry      *entryValues
	filterVals *filterValues
	exportVals *exportValues
	deleteVals *deleteValues

	// Status line
	status    string
	statusErr bool
	exporting bool
	spinner   spinner.Model
}

const (
	minTerminalWidth = 60
	compactWidth     = 100
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates a new TUI app model over tr.
func NewApp(tr *tracker.Tracker, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir, _ = os.Getwd()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		tr:      tr,
		opts:    opts,
		log:     opts.Logger,
		now:     opts.Now,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
	}
	a.recompute()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.EnableMouseCellMotion
}

func (a *App) recompute() {
	a.view = a.tr.View()
	a.cur = a.tr.Currency()

	last := a.view.Filter.Month
	if last.IsZero() {
		last = model.MonthOf(a.now().Local())
	}
	trendSpec := a.view.Filter
	trendSpec.Month = model.YearMonth{}
	l := a.tr.Ledger()
	for _, k := range []model.Kind{model.Expense, model.Income} {
		sums := pipeline.Monthly(pipeline.Apply(l.Collection(k), k, trendSpec), last, trendMonths)
		vals := make([]float64, len(sums))
		for i, s := range sums {
			vals[i] = s.InexactFloat64()
		}
		a.trend[k] = vals
	}

	for _, k := range []model.Kind{model.Expense, model.Income} {
		n := len(a.view.Rows(k))
		a.cursor[k] = min(a.cursor[k], n-1)
		a.cursor[k] = max(a.cursor[k], 0)
	}
}

// listKind returns the kind shown by the active tab and whether the tab
// is a list.
func (a App) listKind() (model.Kind, bool) {
	switch a.activeTab {
	case components.TabExpenses:
		return model.Expense, true
	case components.TabIncome:
		return model.Income, true
	}
	return model.Expense, false
}

func (a App) selected() (model.Kind, model.Transaction, bool) {
	k, ok := a.listKind()
	if !ok {
		return k, model.Transaction{}, false
	}
	rows := a.view.Rows(k)
	if len(rows) == 0 {
		return k, model.Transaction{}, false
	}
	return k, rows[a.cursor[k]], true
}

func (a *App) setStatus(msg string, err error) {
	if err != nil {
		a.status = err.Error()
		a.statusErr = true
		a.log.Warn(msg, "err", err)
		return
	}
	a.status = msg
	a.statusErr = false
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width-4, 70))
		}
		return a, nil

	case exportDoneMsg:
		a.exporting = false
		if msg.err != nil {
			a.setStatus("export failed", msg.err)
		} else {
			a.setStatus("Exported to "+msg.path, nil)
		}
		return a, nil

	case spinner.TickMsg:
		if a.exporting {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.MouseMsg:
		if a.mode != modeBrowse || a.showHelp {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.mode != modeBrowse {
			if msg.String() == "esc" {
				return a.cancelForm(), nil
			}
			return a.updateForm(msg)
		}
		return a.updateBrowse(msg)
	}

	if a.mode != modeBrowse && a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Help) {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if r := []rune(msg.String()); len(r) == 1 {
		if idx := components.TabIdxByKey(r[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	k, isList := a.listKind()
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.NextTab):
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	case key.Matches(msg, a.keys.PrevTab):
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)

	case key.Matches(msg, a.keys.Down):
		if isList && a.cursor[k] < len(a.view.Rows(k))-1 {
			a.cursor[k]++
		}
	case key.Matches(msg, a.keys.Up):
		if isList && a.cursor[k] > 0 {
			a.cursor[k]--
		}
	case key.Matches(msg, a.keys.Top):
		if isList {
			a.cursor[k] = 0
		}
	case key.Matches(msg, a.keys.Bottom):
		if isList {
			a.cursor[k] = max(len(a.view.Rows(k))-1, 0)
		}

	case key.Matches(msg, a.keys.Add):
		a.entry = newEntryValues(k)
		return a.openForm(modeEntry, newEntryForm(a.entry))

	case key.Matches(msg, a.keys.Edit):
		k, tx, ok := a.selected()
		if !ok {
			return a, nil
		}
		in, err := a.tr.BeginEdit(k, tx.ID)
		if err != nil {
			a.setStatus("begin edit", err)
			return a, nil
		}
		a.entry = &entryValues{kind: k, editing: true, Description: in.Description, Amount: in.Amount, Category: in.Category}
		return a.openForm(modeEntry, newEntryForm(a.entry))

	case key.Matches(msg, a.keys.Delete):
		k, tx, ok := a.selected()
		if !ok {
			return a, nil
		}
		a.deleteVals = &deleteValues{kind: k, id: tx.ID}
		return a.openForm(modeDelete, newDeleteForm(a.deleteVals, tx, a.cur))

	case key.Matches(msg, a.keys.Filter):
		a.filterVals = filterValuesFrom(a.tr.Filter())
		return a.openForm(modeFilter, newFilterForm(a.filterVals))

	case key.Matches(msg, a.keys.Reset):
		a.tr.ResetFilter()
		a.recompute()
		a.setStatus("Filter reset", nil)

	case key.Matches(msg, a.keys.Currency):
		next := a.cur.Next()
		if err := a.tr.SetCurrency(next.Code); err != nil {
			a.setStatus("set currency", err)
			return a, nil
		}
		a.recompute()
		a.setStatus("Currency: "+next.Code, nil)

	case key.Matches(msg, a.keys.Theme):
		a.toggleTheme()

	case key.Matches(msg, a.keys.Export):
		if a.exporting {
			return a, nil
		}
		a.exportVals = &exportValues{Format: export.CSV}
		return a.openForm(modeExport, newExportForm(a.exportVals, a.opts.ExportDir, a.exportName))
	}
	return a, nil
}

func (a App) exportName(f export.Format) string {
	return export.Filename(a.now(), f)
}

func (a *App) toggleTheme() {
	next := theme.Toggle(theme.Active)
	theme.Active = next
	cli.ApplyTheme(next)
	a.spinner.Style = a.spinner.Style.Foreground(next.Accent).Background(next.Surface)
	a.opts.Config.Appearance.Theme = next.Name
	if a.opts.SaveConfig != nil {
		if err := a.opts.SaveConfig(a.opts.Config); err != nil {
			a.setStatus("saving theme", err)
			return
		}
	}
	a.setStatus("Theme: "+next.Name, nil)
}

func (a App) openForm(m mode, f *huh.Form) (tea.Model, tea.Cmd) {
	a.mode = m
	a.form = f
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.width-4, 70))
	}
	a.status = ""
	return a, a.form.Init()
}

// cancelForm closes the open form without applying it. Cancelling an edit
// form abandons the edit.
func (a App) cancelForm() App {
	if a.mode == modeEntry && a.entry != nil && a.entry.editing {
		a.tr.CancelEdit()
		a.setStatus("Edit cancelled", nil)
	}
	a.mode = modeBrowse
	a.form = nil
	return a
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		return a.submitForm()
	case huh.StateAborted:
		return a.cancelForm(), nil
	}
	return a, cmd
}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	m := a.mode
	a.mode = modeBrowse
	a.form = nil

	switch m {
	case modeEntry:
		return a.submitEntry()

	case modeFilter:
		spec, err := a.filterVals.spec()
		if err != nil {
			a.setStatus("filter", err)
			return a, nil
		}
		a.tr.ApplyFilter(spec)
		a.recompute()
		a.setStatus("Filter: "+spec.Describe(), nil)

	case modeDelete:
		if !a.deleteVals.Confirm {
			return a, nil
		}
		if err := a.tr.Delete(a.deleteVals.kind, a.deleteVals.id); err != nil {
			a.setStatus("delete", err)
			return a, nil
		}
		a.recompute()
		a.setStatus("Deleted", nil)

	case modeExport:
		path := strings.TrimSpace(a.exportVals.Path)
		if path == "" {
			path = filepath.Join(a.opts.ExportDir, a.exportName(a.exportVals.Format))
		}
		a.exporting = true
		a.status = ""
		return a, tea.Batch(a.spinner.Tick, exportCmd(path, a.exportVals.Format, a.view, a.cur, a.now()))
	}
	return a, nil
}

func (a App) submitEntry() (tea.Model, tea.Cmd) {
	v := a.entry
	saved, err := a.tr.Submit(v.kind, v.input())
	switch {
	case errors.Is(err, ledger.ErrValidation):
		// Keep what was typed so it can be corrected.
		m, cmd := a.openForm(modeEntry, newEntryForm(v))
		reopened := m.(App)
		reopened.setStatus("invalid entry", err)
		return reopened, cmd
	case err != nil:
		a.setStatus("save", err)
		a.recompute()
		return a, nil
	}

	verb := "Added"
	if v.editing {
		verb = "Updated"
	}
	a.entry = nil
	a.recompute()
	a.setStatus(fmt.Sprintf("%s %s %q", verb, v.kind, saved.Description), nil)
	return a, nil
}

func exportCmd(path string, f export.Format, v model.View, cur money.Currency, now time.Time) tea.Cmd {
	return func() tea.Msg {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return exportDoneMsg{err: fmt.Errorf("creating export dir: %w", err)}
		}
		out, err := os.Create(path)
		if err != nil {
			return exportDoneMsg{err: fmt.Errorf("creating export file: %w", err)}
		}
		if err := export.Write(out, f, v, cur, now); err != nil {
			_ = out.Close()
			return exportDoneMsg{err: err}
		}
		if err := out.Close(); err != nil {
			return exportDoneMsg{err: fmt.Errorf("closing export file: %w", err)}
		}
		return exportDoneMsg{path: path}
	}
}

// ─── Mouse Support ──────────────────────────────────────────────

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	k, isList := a.listKind()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if isList && a.cursor[k] > 0 {
			a.cursor[k]--
		}
	case tea.MouseButtonWheelDown:
		if isList && a.cursor[k] < len(a.view.Rows(k))-1 {
			a.cursor[k]++
		}
	case tea.MouseButtonLeft:
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow RenderTabBar: tabs separated by one column.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}

// ─── Views ──────────────────────────────────────────────────────

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  tally needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	h := a.help
	h.ShowAll = true
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(t.Cyan).Bold(true)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(t.TextMuted)
	h.Styles.FullSeparator = dimStyle

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(h.View(a.keys))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("1 2 3 jump to tab · press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + filter pill
	filterPillStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	filterAccentStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	filterStr := filterPillStyle.Render(" filter ") +
		filterAccentStyle.Render(a.view.Filter.Describe()) +
		filterPillStyle.Render(" ")

	filterRowStyle := lipgloss.NewStyle().
		Background(t.Surface).
		Width(w)

	header := components.RenderTabBar(a.activeTab, w, "◈ tally") + "\n" +
		filterRowStyle.Render(filterStr)

	// 2. Status bar
	st := components.Status{
		Message: a.status,
		IsError: a.statusErr,
		Right:   a.cur.Code + " · " + t.Name,
	}
	if kind, id, ok := a.tr.Editor().Target(); ok {
		st.Editing = fmt.Sprintf("editing %s %s", kind, model.Transaction{ID: id}.ShortID())
	}
	if a.exporting {
		st.Message = a.spinner.View() + " exporting…"
		st.IsError = false
	}
	statusBar := components.RenderStatusBar(w, st)

	// 3. Content zone height
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	// 4. Tab content, or the open form
	var content string
	switch {
	case a.mode != modeBrowse && a.form != nil:
		content = components.ContentCard("", a.form.View(), min(cw, 74))
	case a.activeTab == components.TabSummary:
		content = a.renderSummaryTab(cw)
	default:
		k, _ := a.listKind()
		content = a.renderListTab(k, cw, contentH)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Center when the terminal is wider than the content
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func balanceColor(d decimal.Decimal) lipgloss.Color {
	return theme.Active.Balance(d.IsNegative())
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
