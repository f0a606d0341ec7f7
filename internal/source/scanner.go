package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/theirongolddev/tally/internal/export"
)

// exportPrefix matches the default export file names.
const exportPrefix = "expense-tracker-"

// Discover resolves path to importable files. A file is taken as-is when
// its extension names a readable format; a directory is scanned (not
// recursively) for default-named JSON and CSV exports, oldest name first.
func Discover(path string) ([]DiscoveredFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		f, ok := importFormat(path)
		if !ok {
			return nil, &UnsupportedError{Path: path}
		}
		return []DiscoveredFile{{Path: path, Format: f}}, nil
	}
	return ScanDir(path)
}

// ScanDir lists default-named exports directly inside dir.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []DiscoveredFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), exportPrefix) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if f, ok := importFormat(path); ok {
			files = append(files, DiscoveredFile{Path: path, Format: f})
		}
	}
	// Names embed the export date, so name order is date order.
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func importFormat(path string) (export.Format, bool) {
	f, err := export.ParseFormat(filepath.Ext(path))
	if err != nil || (f != export.JSON && f != export.CSV) {
		return "", false
	}
	return f, true
}

// UnsupportedError reports a file whose format can't be imported.
type UnsupportedError struct {
	Path string
}

func (e *UnsupportedError) Error() string {
	return "cannot import " + e.Path + ": want a .json or .csv export"
}
