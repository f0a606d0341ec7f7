package source

import (
	"encoding/json"

	"github.com/theirongolddev/tally/internal/export"
	"github.com/theirongolddev/tally/internal/model"
)

// DiscoveredFile is an importable export file.
type DiscoveredFile struct {
	Path   string
	Format export.Format
}

// ParseResult holds the output of parsing a single export file.
type ParseResult struct {
	Ledger model.Ledger
	// ParseErrors counts records that were skipped as malformed.
	ParseErrors int
	Err         error
}

// rawExport is the JSON export layout; the stored blob shares it minus
// exportedAt.
type rawExport struct {
	Expenses   []rawRecord `json:"expenses"`
	Income     []rawRecord `json:"income"`
	Currency   string      `json:"currency"`
	ExportedAt string      `json:"exportedAt,omitempty"`
}

type rawRecord struct {
	ID       string      `json:"id"`
	Desc     string      `json:"desc"`
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
}
