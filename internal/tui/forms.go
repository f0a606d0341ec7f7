package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/tally/internal/export"
	"github.com/theirongolddev/tally/internal/ledger"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/money"

	"github.com/charmbracelet/huh"
)

// Form values live behind pointers so the huh fields stay bound while the
// App value is copied through Update.

type entryValues struct {
	kind        model.Kind
	editing     bool
	Description string
	Amount      string
	Category    model.Category
}

func newEntryValues(k model.Kind) *entryValues {
	return &entryValues{kind: k, Category: k.DefaultCategory()}
}

func (v *entryValues) input() ledger.Input {
	return ledger.Input{Description: v.Description, Amount: v.Amount, Category: v.Category}
}

func newEntryForm(v *entryValues) *huh.Form {
	title := "Add " + v.kind.String()
	if v.editing {
		title = "Edit " + v.kind.String()
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Value(&v.Description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&v.Amount).
				Validate(func(s string) error {
					if _, err := money.ParseAmount(s); err != nil {
						return errors.New("enter a positive amount")
					}
					return nil
				}),
			huh.NewSelect[model.Category]().
				Title("Category").
				Options(huh.NewOptions(v.kind.Categories()...)...).
				Value(&v.Category),
		).Title(title).Description("enter to confirm, esc to cancel"),
	).WithShowHelp(false)
}

const allOption = "all"

type filterValues struct {
	Type     string
	Category string
	Month    string
}

func filterValuesFrom(f model.FilterSpec) *filterValues {
	v := &filterValues{Type: f.Type.String(), Category: allOption, Month: f.Month.String()}
	if f.Category != "" {
		v.Category = string(f.Category)
	}
	return v
}

func (v *filterValues) spec() (model.FilterSpec, error) {
	var f model.FilterSpec
	tf, err := model.ParseTypeFilter(v.Type)
	if err != nil {
		return f, err
	}
	f.Type = tf
	if v.Category != allOption {
		f.Category = model.Category(v.Category)
	}
	if m := strings.TrimSpace(v.Month); m != "" && m != allOption {
		ym, err := model.ParseYearMonth(m)
		if err != nil {
			return f, err
		}
		f.Month = ym
	}
	return f, nil
}

func newFilterForm(v *filterValues) *huh.Form {
	cats := []huh.Option[string]{huh.NewOption("All categories", allOption)}
	for _, c := range model.AllCategories() {
		cats = append(cats, huh.NewOption(string(c), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("All", model.AllTypes.String()),
					huh.NewOption("Expenses", model.ExpenseOnly.String()),
					huh.NewOption("Income", model.IncomeOnly.String()),
				).
				Value(&v.Type),
			huh.NewSelect[string]().
				Title("Category").
				Options(cats...).
				Value(&v.Category),
			huh.NewInput().
				Title("Month").
				Placeholder("YYYY-MM, empty for all months").
				Value(&v.Month).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" || s == allOption {
						return nil
					}
					_, err := model.ParseYearMonth(s)
					return err
				}),
		).Title("Filter").Description("enter to apply, esc to cancel"),
	).WithShowHelp(false)
}

type exportValues struct {
	Format export.Format
	Path   string
}

func newExportForm(v *exportValues, dir string, name func(export.Format) string) *huh.Form {
	opts := make([]huh.Option[export.Format], 0, len(export.Formats()))
	for _, f := range export.Formats() {
		opts = append(opts, huh.NewOption(strings.ToUpper(string(f)), f))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[export.Format]().
				Title("Format").
				Options(opts...).
				Value(&v.Format),
			huh.NewInput().
				Title("Save to").
				Value(&v.Path).
				PlaceholderFunc(func() string {
					return filepath.Join(dir, name(v.Format))
				}, &v.Format),
		).Title("Export filtered view").Description("empty path uses the placeholder"),
	).WithShowHelp(false)
}

type deleteValues struct {
	kind    model.Kind
	id      string
	Confirm bool
}

func newDeleteForm(v *deleteValues, t model.Transaction, cur money.Currency) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s %q (%s)?", v.kind, t.Description, cur.Display(t.Amount))).
				Affirmative("Delete").
				Negative("Keep").
				Value(&v.Confirm),
		),
	).WithShowHelp(false)
}
