package export

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ghl-updater/internal/model"
)

// JSONSink writes records as a JSON array indented with two spaces. Object
// keys keep the order they had in the input.
type JSONSink struct{}

// Format implements Sink.
func (JSONSink) Format() string { return "json" }

// Write implements Sink.
func (s JSONSink) Write(path string, records []model.Record) error {
	data, err := s.Encode(records)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}

// Encode returns the indented JSON document for records.
func (JSONSink) Encode(records []model.Record) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('[')
	for i, r := range records {
		if i > 0 {
			compact.WriteByte(',')
		}
		compact.WriteString(r.String())
	}
	compact.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, eris.Wrap(err, "export: indent json")
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
