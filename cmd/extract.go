package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ghl-updater/internal/extract"
	"github.com/sells-group/ghl-updater/internal/updater"
)

var extractDir string

// sourceEntry mirrors the record field names so the output can be fed back
// in as a structured JSON source.
type sourceEntry struct {
	MicrositeName string `json:"Microsite Name"`
	LocationID    string `json:"GHL Location ID"`
	LocationToken string `json:"Location Token"`
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the entries found in the authoritative source as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if extractDir != "" {
			cfg.Paths.Dir = extractDir
		}

		opts, err := updater.OptionsFromConfig(cfg)
		if err != nil {
			return eris.Wrap(err, "extract: options")
		}

		m, err := updater.New(opts).Load(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "extract")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entriesOf(m))
	},
}

func entriesOf(m *extract.Mapping) []sourceEntry {
	out := make([]sourceEntry, 0, m.Len())
	for _, name := range m.Names() {
		e, _ := m.Lookup(name)
		out = append(out, sourceEntry{MicrositeName: name, LocationID: e.LocationID, LocationToken: e.LocationToken})
	}
	return out
}

func init() {
	extractCmd.Flags().StringVar(&extractDir, "dir", "", "directory holding the source file (overrides paths.dir)")
	rootCmd.AddCommand(extractCmd)
}
