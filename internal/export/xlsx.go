package export

import (
	"fmt"
	"io"

	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/money"

	"github.com/xuri/excelize/v2"
)

// Sheet names in the XLSX workbook.
const (
	SheetExpenses = "Expenses"
	SheetIncome   = "Income"
	SheetSummary  = "Summary"
)

// WriteXLSX writes a workbook with one sheet per kind and a Summary sheet
// holding the totals and per-category sums.
func WriteXLSX(w io.Writer, v model.View, cur money.Currency) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetExpenses); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetIncome); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	summaryIdx, err := f.NewSheet(SheetSummary)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	for k, sheet := range map[model.Kind]string{model.Expense: SheetExpenses, model.Income: SheetIncome} {
		if err := writeRecordSheet(f, sheet, v.Rows(k), cur); err != nil {
			return err
		}
	}
	if err := writeSummarySheet(f, v, cur); err != nil {
		return err
	}

	f.SetActiveSheet(summaryIdx)
	return f.Write(w)
}

func writeRecordSheet(f *excelize.File, sheet string, txs []model.Transaction, cur money.Currency) error {
	header := []any{"Description", fmt.Sprintf("Amount (%s)", cur.Code), "Category", "Date"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	for i, t := range txs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{t.Description, t.Amount.InexactFloat64(), string(t.Category), iso(t.Date)}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 30)
	_ = f.SetColWidth(sheet, "B", "B", 14)
	_ = f.SetColWidth(sheet, "C", "C", 15)
	_ = f.SetColWidth(sheet, "D", "D", 26)
	return nil
}

func writeSummarySheet(f *excelize.File, v model.View, cur money.Currency) error {
	rows := [][]any{
		{"Currency", cur.Code},
		{"Total Expenses", v.Totals.Expense.InexactFloat64()},
		{"Total Income", v.Totals.Income.InexactFloat64()},
		{"Balance", v.Totals.Balance.InexactFloat64()},
		{},
	}
	for _, k := range []model.Kind{model.Expense, model.Income} {
		rows = append(rows, []any{k.Label() + " by category", "Amount"})
		for _, cs := range v.Breakdown(k) {
			rows = append(rows, []any{string(cs.Category), cs.Sum.InexactFloat64()})
		}
		rows = append(rows, []any{})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+1, err)
		}
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 24)
	_ = f.SetColWidth(SheetSummary, "B", "B", 14)
	return nil
}
