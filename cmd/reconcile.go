package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ghl-updater/internal/updater"
)

var (
	reconcileDir    string
	reconcileDryRun bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Correct records against the authoritative source and export them",
	Long: `Reads the records file and the authoritative source, overwrites stale
GHL location IDs and tokens, marks each corrected record with "updated"
(ID, Token or ID/Token), and writes:

  - the full record list (JSON + XLSX)
  - the changed records only (JSON + XLSX), skipped when nothing changed

Spreadsheet failures are reported but do not stop the run.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if reconcileDir != "" {
			cfg.Paths.Dir = reconcileDir
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		opts, err := updater.OptionsFromConfig(cfg)
		if err != nil {
			return eris.Wrap(err, "reconcile: options")
		}
		opts.DryRun = reconcileDryRun

		report, err := updater.New(opts).Run(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "reconcile")
		}

		zap.L().Info("reconcile complete",
			zap.Int("records", report.Records),
			zap.Int("source_entries", report.Entries),
			zap.Int("updated", report.Stats.Updated),
			zap.Int("export_errors", len(report.ExportErrors)),
			zap.Strings("written", report.Written),
		)
		return nil
	},
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileDir, "dir", "", "directory holding inputs and outputs (overrides paths.dir)")
	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "reconcile and report without writing files")
	rootCmd.AddCommand(reconcileCmd)
}
