package model

import (
	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Field names shared by the records file and the authoritative source.
const (
	FieldMicrositeName = "Microsite Name"
	FieldLocationID    = "GHL Location ID"
	FieldLocationToken = "Location Token"
	FieldUpdated       = "updated"
)

// UpdateKind describes which fields of a record were corrected.
type UpdateKind string

const (
	UpdateNone  UpdateKind = ""
	UpdateID    UpdateKind = "ID"
	UpdateToken UpdateKind = "Token"
	UpdateBoth  UpdateKind = "ID/Token"
)

// KindFor returns the update marker for the given combination of changes.
func KindFor(idChanged, tokenChanged bool) UpdateKind {
	switch {
	case idChanged && tokenChanged:
		return UpdateBoth
	case idChanged:
		return UpdateID
	case tokenChanged:
		return UpdateToken
	default:
		return UpdateNone
	}
}

// Record is a single microsite entry. It wraps the raw JSON object so that
// fields the updater does not know about survive untouched and in their
// original key order. Records are values: Set returns a new Record and never
// modifies the receiver.
type Record struct {
	raw []byte
}

// Field is one key/value pair of a record, in document order.
type Field struct {
	Key   string
	Value gjson.Result
}

// NewRecord parses raw as a JSON object. The bytes are copied. A key that
// appears more than once is collapsed to a single field holding the last
// value, at the position of the first occurrence.
func NewRecord(raw []byte) (Record, error) {
	if !gjson.ValidBytes(raw) {
		return Record{}, eris.New("record: invalid json")
	}
	res := gjson.ParseBytes(raw)
	if !res.IsObject() {
		return Record{}, eris.Errorf("record: expected object, got %s", res.Type)
	}
	return Record{raw: dedupeKeys(pretty.Ugly(raw))}, nil
}

// dedupeKeys rewrites a compact object so every top-level key occurs once.
// It returns obj unchanged when there is nothing to collapse.
func dedupeKeys(obj []byte) []byte {
	var (
		keys   []gjson.Result
		values = make(map[string]string)
		dup    bool
	)
	gjson.ParseBytes(obj).ForEach(func(k, v gjson.Result) bool {
		name := k.String()
		if _, seen := values[name]; seen {
			dup = true
		} else {
			keys = append(keys, k)
		}
		values[name] = v.Raw
		return true
	})
	if !dup {
		return obj
	}

	out := make([]byte, 0, len(obj))
	out = append(out, '{')
	for i, k := range keys {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, k.Raw...)
		out = append(out, ':')
		out = append(out, values[k.String()]...)
	}
	return append(out, '}')
}

// MustRecord is like NewRecord but panics on error. Intended for tests and
// literals.
func MustRecord(raw string) Record {
	r, err := NewRecord([]byte(raw))
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the field value as a string and whether the field exists.
func (r Record) Get(field string) (string, bool) {
	if len(r.raw) == 0 {
		return "", false
	}
	v := gjson.GetBytes(r.raw, gjson.Escape(field))
	return v.String(), v.Exists()
}

func (r Record) str(field string) string {
	v, _ := r.Get(field)
	return v
}

// MicrositeName returns the record's lookup key.
func (r Record) MicrositeName() string { return r.str(FieldMicrositeName) }

// LocationID returns the stored GHL location ID.
func (r Record) LocationID() string { return r.str(FieldLocationID) }

// LocationToken returns the stored location token.
func (r Record) LocationToken() string { return r.str(FieldLocationToken) }

// Updated returns the update marker, or UpdateNone if the record has none.
func (r Record) Updated() UpdateKind { return UpdateKind(r.str(FieldUpdated)) }

// Set returns a copy of r with field set to value. Existing keys keep their
// position; new keys are appended.
func (r Record) Set(field, value string) (Record, error) {
	src := r.raw
	if len(src) == 0 {
		src = []byte("{}")
	}
	out, err := sjson.SetBytes(src, gjson.Escape(field), value)
	if err != nil {
		return Record{}, eris.Wrapf(err, "record: set %q", field)
	}
	return Record{raw: out}, nil
}

// Fields returns the record's key/value pairs in document order.
func (r Record) Fields() []Field {
	if len(r.raw) == 0 {
		return nil
	}
	var fields []Field
	gjson.ParseBytes(r.raw).ForEach(func(k, v gjson.Result) bool {
		fields = append(fields, Field{Key: k.String(), Value: v})
		return true
	})
	return fields
}

// Equal reports whether both records hold the same JSON bytes.
func (r Record) Equal(o Record) bool {
	return string(r.raw) == string(o.raw)
}

// String returns the compact JSON form of the record.
func (r Record) String() string {
	if len(r.raw) == 0 {
		return "{}"
	}
	return string(r.raw)
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	rec, err := NewRecord(data)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}
