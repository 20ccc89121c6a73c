// Package updater runs one reconciliation pass: read the records and the
// authoritative source, correct the records, and write the outputs.
package updater

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ghl-updater/internal/config"
	"github.com/sells-group/ghl-updater/internal/export"
	"github.com/sells-group/ghl-updater/internal/extract"
	"github.com/sells-group/ghl-updater/internal/fetcher"
	"github.com/sells-group/ghl-updater/internal/model"
	"github.com/sells-group/ghl-updater/internal/reconcile"
)

// Options controls a run. Paths are resolved against Paths.Dir.
type Options struct {
	Paths        config.PathsConfig
	SourceFormat extract.Format
	SheetName    string
	XLSX         bool
	DryRun       bool
}

// OptionsFromConfig builds run options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	f, err := extract.ParseFormat(cfg.Source.Format)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Paths:        cfg.Paths,
		SourceFormat: f,
		SheetName:    cfg.Export.SheetName,
		XLSX:         cfg.Export.XLSX,
	}, nil
}

// Report summarises a run.
type Report struct {
	Records      int                `json:"records"`
	Entries      int                `json:"entries"`
	Duplicates   int                `json:"duplicates"`
	Stats        reconcile.Stats    `json:"stats"`
	Changes      []reconcile.Change `json:"changes"`
	Written      []string           `json:"written"`
	ExportErrors []error            `json:"-"`
}

// Updater wires the readers, the reconciler and the output sinks.
type Updater struct {
	opts Options
	json export.Sink
	xlsx export.Sink
}

// New creates an Updater with the JSON and XLSX sinks.
func New(opts Options) *Updater {
	return NewWithSinks(opts, export.JSONSink{}, export.XLSXSink{SheetName: opts.SheetName})
}

// NewWithSinks creates an Updater with caller-supplied sinks. A nil xlsx
// sink disables spreadsheet output.
func NewWithSinks(opts Options, jsonSink, xlsxSink export.Sink) *Updater {
	if !opts.XLSX {
		xlsxSink = nil
	}
	return &Updater{opts: opts, json: jsonSink, xlsx: xlsxSink}
}

// Load reads the authoritative source and builds its mapping.
func (u *Updater) Load(ctx context.Context) (*extract.Mapping, error) {
	path := u.opts.Paths.Resolve(u.opts.Paths.Source)
	text, err := fetcher.ReadText(path)
	if err != nil {
		return nil, eris.Wrap(err, "updater: read source")
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "updater: context cancelled")
	}

	format := extract.FormatFor(path, u.opts.SourceFormat)
	m, err := extract.Parse([]byte(text), format)
	if err != nil {
		return nil, eris.Wrap(err, "updater: parse source")
	}

	zap.L().Info("updater: extracted source entries",
		zap.String("source", path),
		zap.String("format", string(format)),
		zap.Int("entries", m.Len()),
		zap.Int("duplicates", m.Duplicates()),
	)
	return m, nil
}

// Run executes one pass. Input errors abort before anything is written.
// Spreadsheet failures are logged and collected in Report.ExportErrors
// without stopping the run; JSON write failures abort.
func (u *Updater) Run(ctx context.Context) (*Report, error) {
	log := zap.L()
	log.Info("updater: reading files")

	m, err := u.Load(ctx)
	if err != nil {
		return nil, err
	}

	recordsPath := u.opts.Paths.Resolve(u.opts.Paths.Records)
	records, err := fetcher.ReadRecords(recordsPath, "")
	if err != nil {
		return nil, eris.Wrap(err, "updater: read records")
	}
	log.Info("updater: parsed records", zap.String("records", recordsPath), zap.Int("count", len(records)))

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "updater: context cancelled")
	}

	res := reconcile.Reconcile(records, m)
	log.Info("updater: reconciled records",
		zap.Int("total", res.Stats.Total),
		zap.Int("matched", res.Stats.Matched),
		zap.Int("unmatched", res.Stats.Unmatched),
		zap.Int("updated", res.Stats.Updated),
	)

	report := &Report{
		Records:    len(records),
		Entries:    m.Len(),
		Duplicates: m.Duplicates(),
		Stats:      res.Stats,
		Changes:    res.Changes,
	}

	if u.opts.DryRun {
		log.Info("updater: dry run, no files written")
		return report, nil
	}

	p := u.opts.Paths
	if err := u.writeJSON(report, p.Resolve(p.OutputJSON), res.Records); err != nil {
		return report, err
	}
	u.writeXLSX(report, p.Resolve(p.OutputXLSX), res.Records)

	if len(res.Changed) == 0 {
		log.Info("updater: no entries were changed, skipping changed-entries files")
		return report, nil
	}

	if err := u.writeJSON(report, p.Resolve(p.ChangedJSON), res.Changed); err != nil {
		return report, err
	}
	u.writeXLSX(report, p.Resolve(p.ChangedXLSX), res.Changed)

	return report, nil
}

func (u *Updater) writeJSON(report *Report, path string, records []model.Record) error {
	if err := u.json.Write(path, records); err != nil {
		return eris.Wrap(err, "updater: write json")
	}
	report.Written = append(report.Written, path)
	zap.L().Info("updater: wrote json", zap.String("path", path), zap.Int("records", len(records)))
	return nil
}

func (u *Updater) writeXLSX(report *Report, path string, records []model.Record) {
	if u.xlsx == nil {
		return
	}
	if err := u.xlsx.Write(path, records); err != nil {
		zap.L().Error("updater: spreadsheet export failed",
			zap.String("path", path),
			zap.String("hint", exportHint(path)),
			zap.Error(err),
		)
		report.ExportErrors = append(report.ExportErrors, err)
		return
	}
	report.Written = append(report.Written, path)
	zap.L().Info("updater: wrote spreadsheet", zap.String("path", path), zap.Int("records", len(records)))
}

// exportHint suggests a fix for a failed spreadsheet write at path.
func exportHint(path string) string {
	info, err := os.Stat(filepath.Dir(path))
	switch {
	case err != nil:
		return "output directory does not exist; create it or set paths.dir"
	case !info.IsDir():
		return "output directory is not a directory"
	default:
		return "check the file is writable and not open in another program"
	}
}
