// Package source discovers and parses tally export files for import.
package source

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/tally/internal/export"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/money"
	"github.com/theirongolddev/tally/internal/store"

	"github.com/google/uuid"
)

// csvHeader is the first row WriteCSV produces.
var csvHeader = []string{"Type", "Description", "Amount", "Category", "Date"}

// ParseFile reads an export file into a ledger. Malformed records are
// skipped and counted; records repeating an ID keep the last occurrence
// in the earlier position. Records without an ID get a fresh one.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()
	return Parse(f, df.Format)
}

// Parse reads an export of format f from r.
func Parse(r io.Reader, f export.Format) ParseResult {
	var res ParseResult
	switch f {
	case export.JSON:
		res = parseJSON(r)
	case export.CSV:
		res = parseCSV(r)
	default:
		return ParseResult{Err: fmt.Errorf("%w: %s cannot be imported", export.ErrUnknownFormat, f)}
	}
	if res.Err != nil {
		return res
	}
	res.Ledger.Expenses = dedup(res.Ledger.Expenses)
	res.Ledger.Income = dedup(res.Ledger.Income)
	return res
}

func parseJSON(r io.Reader) ParseResult {
	var raw rawExport
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return ParseResult{Err: fmt.Errorf("decoding json export: %w", err)}
	}

	res := ParseResult{Ledger: model.Ledger{
		Expenses: make([]model.Transaction, 0, len(raw.Expenses)),
		Income:   make([]model.Transaction, 0, len(raw.Income)),
	}}
	if c, err := money.Lookup(raw.Currency); err == nil {
		res.Ledger.Currency = c.Code
	}

	for _, k := range []model.Kind{model.Expense, model.Income} {
		recs := raw.Expenses
		if k == model.Income {
			recs = raw.Income
		}
		for _, rr := range recs {
			t, err := store.ParseRecord(k, rr.ID, rr.Desc, rr.Amount.String(), rr.Category, rr.Date)
			if err != nil {
				res.ParseErrors++
				continue
			}
			res.Ledger = res.Ledger.WithCollection(k, append(res.Ledger.Collection(k), t))
		}
	}
	return res
}

func parseCSV(r io.Reader) ParseResult {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return ParseResult{Err: fmt.Errorf("reading csv header: %w", err)}
	}
	if !sameHeader(header) {
		return ParseResult{Err: fmt.Errorf("unexpected csv header %q", strings.Join(header, ","))}
	}

	res := ParseResult{Ledger: model.Ledger{
		Expenses: []model.Transaction{},
		Income:   []model.Transaction{},
	}}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.ParseErrors++
				continue
			}
			return ParseResult{Err: fmt.Errorf("reading csv: %w", err)}
		}
		if len(row) != len(csvHeader) {
			res.ParseErrors++
			continue
		}
		k, ok := model.ParseKind(row[0])
		if !ok {
			res.ParseErrors++
			continue
		}
		// CSV exports carry no IDs.
		t, err := store.ParseRecord(k, "", row[1], row[2], row[3], row[4])
		if err != nil {
			res.ParseErrors++
			continue
		}
		res.Ledger = res.Ledger.WithCollection(k, append(res.Ledger.Collection(k), t))
	}
	return res
}

func sameHeader(h []string) bool {
	if len(h) != len(csvHeader) {
		return false
	}
	for i := range h {
		// Spreadsheet tools like to prepend a BOM.
		if strings.TrimPrefix(strings.TrimSpace(h[i]), "\ufeff") != csvHeader[i] {
			return false
		}
	}
	return true
}

// dedup keeps one record per ID, the last one seen, at the position of
// the first. Missing IDs are filled in.
func dedup(txs []model.Transaction) []model.Transaction {
	pos := make(map[string]int, len(txs))
	out := txs[:0]
	for _, t := range txs {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if i, ok := pos[t.ID]; ok {
			out[i] = t
			continue
		}
		pos[t.ID] = len(out)
		out = append(out, t)
	}
	return out
}
