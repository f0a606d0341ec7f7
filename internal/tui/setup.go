package tui

import (
	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/money"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the first-run wizard answers.
type SetupValues struct {
	Currency     string
	Theme        string
	CurrentMonth bool
	DBPath       string
}

// SetupValuesFrom seeds the wizard with cfg.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	return &SetupValues{
		Currency:     cfg.General.DefaultCurrency,
		Theme:        cfg.Appearance.Theme,
		CurrentMonth: cfg.Filter.CurrentMonthDefault,
		DBPath:       cfg.General.DBPath,
	}
}

// Apply copies the answers into cfg.
func (v *SetupValues) Apply(cfg *config.Config) {
	cfg.General.DefaultCurrency = v.Currency
	cfg.Appearance.Theme = v.Theme
	cfg.Filter.CurrentMonthDefault = v.CurrentMonth
	cfg.General.DBPath = v.DBPath
}

// NewSetupForm builds the first-run wizard. The theme select previews
// each theme as it is highlighted.
func NewSetupForm(v *SetupValues, defaultDB string) *huh.Form {
	currencies := make([]huh.Option[string], 0, len(money.Currencies()))
	for _, c := range money.Currencies() {
		currencies = append(currencies, huh.NewOption(c.Symbol+" "+c.Code, c.Code))
	}
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to tally").
				Description("A few questions, then you're set.\nRun `tally setup` anytime to reconfigure."),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Currency").
				Description("Used until you switch it in the app").
				Options(currencies...).
				Value(&v.Currency),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
			huh.NewConfirm().
				Title("Show only the current month by default?").
				Affirmative("Current month").
				Negative("All months").
				Value(&v.CurrentMonth),
			huh.NewInput().
				Title("Database file").
				Placeholder(defaultDB).
				Value(&v.DBPath),
		),
	)
}
