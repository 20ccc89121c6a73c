package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ghl-updater/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ghl-updater",
	Short: "Sync microsite GHL location IDs and tokens",
	Long: `ghl-updater keeps the microsite records file in step with the GHL connection
source. Location IDs and tokens found in the source replace the stored ones,
corrected records are marked with an "updated" field, and both the full set and
the changed-only set are written as JSON and XLSX.

Settings come from config.yaml in the working directory and GHL_* environment
variables (GHL_PATHS_DIR, GHL_EXPORT_XLSX, GHL_LOG_LEVEL, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup()
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// setup loads configuration and installs the global logger it describes.
func setup() (*config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return nil, eris.Wrap(err, "load config")
	}
	if err := config.InitLogger(c.Log); err != nil {
		return nil, eris.Wrap(err, "init logger")
	}
	return c, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
