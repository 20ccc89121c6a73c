// Package extract builds the authoritative microsite mapping from the source
// that holds current GHL location IDs and tokens.
package extract

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/sells-group/ghl-updater/internal/model"
)

// Entry holds the authoritative values for one microsite.
type Entry struct {
	LocationID    string `json:"locationId" yaml:"locationId"`
	LocationToken string `json:"locationToken" yaml:"locationToken"`
}

// Mapping maps microsite names to their authoritative entry. A later entry for
// the same name replaces the earlier one.
type Mapping struct {
	entries    map[string]Entry
	names      []string
	duplicates int
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{entries: make(map[string]Entry)}
}

// Put stores e under name. Returns true if an earlier entry was replaced.
func (m *Mapping) Put(name string, e Entry) bool {
	if m.entries == nil {
		m.entries = make(map[string]Entry)
	}
	_, replaced := m.entries[name]
	if replaced {
		m.duplicates++
	} else {
		m.names = append(m.names, name)
	}
	m.entries[name] = e
	return replaced
}

// Lookup returns the entry for name.
func (m *Mapping) Lookup(name string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	e, ok := m.entries[name]
	return e, ok
}

// Len returns the number of distinct microsite names.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Names returns microsite names in the order they were first seen.
func (m *Mapping) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Duplicates returns how many entries were replaced by a later one.
func (m *Mapping) Duplicates() int {
	if m == nil {
		return 0
	}
	return m.duplicates
}

// entryPattern matches one record literal in source text. The [^}]+ gaps keep
// a match inside a single object block.
var entryPattern = regexp.MustCompile(
	`'` + regexp.QuoteMeta(model.FieldMicrositeName) + `':\s+'([^']+)'` +
		`[^}]+'` + regexp.QuoteMeta(model.FieldLocationID) + `':\s+'([^']+)'` +
		`[^}]+'` + regexp.QuoteMeta(model.FieldLocationToken) + `':\s+'([^']+)'`,
)

// FromText scans source text for microsite literals of the form
//
//	{ 'Microsite Name': 'Acme', ..., 'GHL Location ID': 'abc', ..., 'Location Token': 'xyz' }
//
// Keys must appear in that order and use single quotes. Text without any
// match yields an empty mapping.
func FromText(text string) *Mapping {
	m := NewMapping()
	for _, match := range entryPattern.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if m.Put(name, Entry{LocationID: match[2], LocationToken: match[3]}) {
			zap.L().Debug("extract: duplicate microsite, keeping later entry",
				zap.String("microsite", name),
			)
		}
	}
	return m
}
