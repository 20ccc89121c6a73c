package export

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"github.com/tidwall/gjson"

	"github.com/sells-group/ghl-updater/internal/model"
)

// DefaultSheetName is the worksheet name used when none is configured.
const DefaultSheetName = "LocationData"

// XLSXSink writes records to a single worksheet. The first row holds every
// field name in order of first appearance across the records; each record
// fills one row beneath it.
type XLSXSink struct {
	SheetName string
}

// Format implements Sink.
func (XLSXSink) Format() string { return "xlsx" }

// Write implements Sink.
func (s XLSXSink) Write(path string, records []model.Record) error {
	f, err := s.Build(records)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

// Build assembles the workbook in memory.
func (s XLSXSink) Build(records []model.Record) (*xlsx.File, error) {
	name := s.SheetName
	if name == "" {
		name = DefaultSheetName
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(name)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: add sheet %q", name)
	}

	header := Columns(records)
	if len(header) == 0 {
		return f, nil
	}

	hrow := sheet.AddRow()
	for _, col := range header {
		hrow.AddCell().SetString(col)
	}

	for _, rec := range records {
		values := make(map[string]gjson.Result, len(header))
		for _, fld := range rec.Fields() {
			values[fld.Key] = fld.Value
		}

		row := sheet.AddRow()
		for _, col := range header {
			setCell(row.AddCell(), values[col])
		}
	}

	return f, nil
}

// Columns returns the union of field names across records, in order of first
// appearance.
func Columns(records []model.Record) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, fld := range rec.Fields() {
			if !seen[fld.Key] {
				seen[fld.Key] = true
				cols = append(cols, fld.Key)
			}
		}
	}
	return cols
}

func setCell(c *xlsx.Cell, v gjson.Result) {
	switch v.Type {
	case gjson.Null:
		// missing or null: leave blank
	case gjson.True, gjson.False:
		c.SetBool(v.Bool())
	case gjson.Number:
		if strings.ContainsAny(v.Raw, ".eE") {
			c.SetFloat(v.Float())
		} else {
			c.SetInt64(v.Int())
		}
	case gjson.String:
		c.SetString(v.String())
	default:
		c.SetString(v.Raw)
	}
}
