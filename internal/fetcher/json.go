package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"

	"github.com/sells-group/ghl-updater/internal/model"
)

// DecodeRecords parses a JSON array of objects into records, keeping each
// object's key order.
func DecodeRecords(data []byte) ([]model.Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, eris.New("json: malformed records document")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, eris.Errorf("json: expected array of records, got %s", root.Type)
	}

	records := []model.Record{}
	var decodeErr error
	root.ForEach(func(_, v gjson.Result) bool {
		rec, err := model.NewRecord([]byte(v.Raw))
		if err != nil {
			decodeErr = eris.Wrapf(err, "json: record %d", len(records))
			return false
		}
		records = append(records, rec)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return records, nil
}
