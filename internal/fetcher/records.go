// Package fetcher reads the updater's inputs: the existing microsite records
// (JSON or a previous XLSX export) and the authoritative source text.
package fetcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ghl-updater/internal/model"
)

// ReadText returns the contents of path as a string.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: read %s", path)
	}
	return string(data), nil
}

// ReadRecords loads records from path. Files ending in .xlsx are read as a
// spreadsheet from sheet (first sheet if empty); anything else as JSON.
func ReadRecords(path, sheet string) ([]model.Record, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSXRecords(path, sheet)
	}
	return ReadJSONRecords(path)
}

// ReadJSONRecords reads a JSON array of record objects from path.
func ReadJSONRecords(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read %s", path)
	}
	records, err := DecodeRecords(data)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: parse %s", path)
	}
	return records, nil
}

// ReadXLSXRecords reads a sheet whose first row holds field names. Each later
// row becomes one record with string values; blank cells and cells without a
// header are left out, and fully blank rows are skipped.
func ReadXLSXRecords(path, sheet string) ([]model.Record, error) {
	rows, err := ReadSheet(path, sheet)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read %s", path)
	}

	records := []model.Record{}
	if len(rows) == 0 {
		return records, nil
	}

	header := rows[0]
	for i, row := range rows[1:] {
		var rec model.Record
		empty := true
		for j, cell := range row {
			if j >= len(header) || header[j] == "" || cell == "" {
				continue
			}
			rec, err = rec.Set(header[j], cell)
			if err != nil {
				return nil, eris.Wrapf(err, "fetcher: row %d", i+2)
			}
			empty = false
		}
		if !empty {
			records = append(records, rec)
		}
	}
	return records, nil
}
