// Package reconcile corrects microsite records against the authoritative
// mapping and classifies what changed.
package reconcile

import (
	"go.uber.org/zap"

	"github.com/sells-group/ghl-updater/internal/extract"
	"github.com/sells-group/ghl-updater/internal/model"
)

// Change is one field overwrite, kept for the audit trail.
type Change struct {
	Microsite string `json:"microsite"`
	Field     string `json:"field"`
	Old       string `json:"old"`
	New       string `json:"new"`
}

// Stats summarises a reconciliation pass.
type Stats struct {
	Total        int `json:"total"`
	Matched      int `json:"matched"`
	Unmatched    int `json:"unmatched"`
	Updated      int `json:"updated"`
	IDChanged    int `json:"id_changed"`
	TokenChanged int `json:"token_changed"`
}

// Result is the outcome of Reconcile.
type Result struct {
	// Records has the same length and order as the input.
	Records []model.Record
	// Changed is the ordered subsequence of Records that were corrected.
	Changed []model.Record
	Changes []Change
	Stats   Stats
}

// Reconcile compares each record's location ID and token with the mapping
// and returns corrected copies. Input records are never modified. Records
// without an authoritative entry, and records that already match, are
// returned as-is.
func Reconcile(records []model.Record, m *extract.Mapping) Result {
	res := Result{
		Records: make([]model.Record, 0, len(records)),
		Stats:   Stats{Total: len(records)},
	}

	for _, rec := range records {
		out, changes := reconcileOne(rec, m, &res.Stats)
		res.Records = append(res.Records, out)
		if len(changes) > 0 {
			res.Changed = append(res.Changed, out)
			res.Changes = append(res.Changes, changes...)
		}
	}

	return res
}

func reconcileOne(rec model.Record, m *extract.Mapping, stats *Stats) (model.Record, []Change) {
	name := rec.MicrositeName()
	entry, ok := m.Lookup(name)
	if !ok {
		stats.Unmatched++
		return rec, nil
	}
	stats.Matched++

	var changes []Change
	out := rec

	oldID, oldTok := rec.LocationID(), rec.LocationToken()
	idChanged := oldID != entry.LocationID
	tokChanged := oldTok != entry.LocationToken

	if idChanged {
		out = set(out, model.FieldLocationID, entry.LocationID)
		changes = append(changes, Change{Microsite: name, Field: model.FieldLocationID, Old: oldID, New: entry.LocationID})
		stats.IDChanged++
		zap.L().Info("reconcile: updating location id",
			zap.String("microsite", name),
			zap.String("old", oldID),
			zap.String("new", entry.LocationID),
		)
	}

	if tokChanged {
		out = set(out, model.FieldLocationToken, entry.LocationToken)
		changes = append(changes, Change{Microsite: name, Field: model.FieldLocationToken, Old: oldTok, New: entry.LocationToken})
		stats.TokenChanged++
		zap.L().Info("reconcile: updating location token",
			zap.String("microsite", name),
			zap.String("old", oldTok),
			zap.String("new", entry.LocationToken),
		)
	}

	if !idChanged && !tokChanged {
		return rec, nil
	}

	kind := model.KindFor(idChanged, tokChanged)
	out = set(out, model.FieldUpdated, string(kind))
	stats.Updated++
	return out, changes
}

// set applies Record.Set, keeping r if the edit fails.
func set(r model.Record, field, value string) model.Record {
	out, err := r.Set(field, value)
	if err != nil {
		zap.L().Error("reconcile: set field", zap.String("field", field), zap.Error(err))
		return r
	}
	return out
}
