// Package export serializes a filtered view to CSV, JSON, plain text or
// XLSX.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/money"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Format is an export file format.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	Text Format = "text"
	XLSX Format = "xlsx"
)

// Formats lists the supported formats in menu order.
func Formats() []Format {
	return []Format{CSV, JSON, Text, XLSX}
}

// ParseFormat accepts a format name or its file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "text", "txt":
		return Text, nil
	case "xlsx", "excel":
		return XLSX, nil
	}
	return "", fmt.Errorf("%w %q (want csv, json, text or xlsx)", ErrUnknownFormat, s)
}

// Ext is the file extension without the dot.
func (f Format) Ext() string {
	if f == Text {
		return "txt"
	}
	return string(f)
}

// ContentType is the MIME type used when serving f over HTTP.
func (f Format) ContentType() string {
	switch f {
	case CSV:
		return "text/csv; charset=utf-8"
	case JSON:
		return "application/json"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename is the default download name: expense-tracker-YYYY-MM-DD.<ext>,
// dated in UTC.
func Filename(now time.Time, f Format) string {
	return fmt.Sprintf("expense-tracker-%s.%s", now.UTC().Format("2006-01-02"), f.Ext())
}

// isoMillis is the instant format used for record dates and timestamps.
const isoMillis = "2006-01-02T15:04:05.000Z"

func iso(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// Write serializes v in format f. now stamps the export.
func Write(w io.Writer, f Format, v model.View, cur money.Currency, now time.Time) error {
	var err error
	switch f {
	case CSV:
		err = WriteCSV(w, v)
	case JSON:
		err = WriteJSON(w, v, cur, now)
	case Text:
		err = WriteText(w, v, cur, now)
	case XLSX:
		err = WriteXLSX(w, v, cur)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, string(f))
	}
	if err != nil {
		return fmt.Errorf("writing %s export: %w", f, err)
	}
	return nil
}
