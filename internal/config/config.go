package config

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// maxSheetNameLen is the XLSX limit on worksheet names.
const maxSheetNameLen = 31

// Config holds the full application configuration.
type Config struct {
	Paths  PathsConfig  `yaml:"paths" mapstructure:"paths"`
	Source SourceConfig `yaml:"source" mapstructure:"source"`
	Export ExportConfig `yaml:"export" mapstructure:"export"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// PathsConfig holds input and output file locations. Relative paths are
// resolved against Dir.
type PathsConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	Records     string `yaml:"records" mapstructure:"records"`
	Source      string `yaml:"source" mapstructure:"source"`
	OutputJSON  string `yaml:"output_json" mapstructure:"output_json"`
	OutputXLSX  string `yaml:"output_xlsx" mapstructure:"output_xlsx"`
	ChangedJSON string `yaml:"changed_json" mapstructure:"changed_json"`
	ChangedXLSX string `yaml:"changed_xlsx" mapstructure:"changed_xlsx"`
}

// Resolve joins p with Dir unless p is absolute.
func (c PathsConfig) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// SourceConfig configures how the authoritative source is parsed.
type SourceConfig struct {
	// Format is auto, text, json or yaml. Auto picks by file extension.
	Format string `yaml:"format" mapstructure:"format"`
}

// ExportConfig configures the spreadsheet outputs.
type ExportConfig struct {
	SheetName string `yaml:"sheet_name" mapstructure:"sheet_name"`
	XLSX      bool   `yaml:"xlsx" mapstructure:"xlsx"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GHL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("paths.dir", ".")
	v.SetDefault("paths.records", "old-data.json")
	v.SetDefault("paths.source", "ghl-connection.js")
	v.SetDefault("paths.output_json", "updated-data.json")
	v.SetDefault("paths.output_xlsx", "updated-data.xlsx")
	v.SetDefault("paths.changed_json", "changed-entries.json")
	v.SetDefault("paths.changed_xlsx", "changed-entries.xlsx")
	v.SetDefault("source.format", "auto")
	v.SetDefault("export.sheet_name", "LocationData")
	v.SetDefault("export.xlsx", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that every path is set and the export settings are usable.
func (c *Config) Validate() error {
	var errs []string

	type setting struct{ key, val string }
	required := []setting{
		{"paths.records", c.Paths.Records},
		{"paths.source", c.Paths.Source},
		{"paths.output_json", c.Paths.OutputJSON},
		{"paths.changed_json", c.Paths.ChangedJSON},
	}
	if c.Export.XLSX {
		required = append(required,
			setting{"paths.output_xlsx", c.Paths.OutputXLSX},
			setting{"paths.changed_xlsx", c.Paths.ChangedXLSX},
		)
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			errs = append(errs, r.key+" is required")
		}
	}

	if c.Export.XLSX {
		if c.Export.SheetName == "" {
			errs = append(errs, "export.sheet_name is required")
		} else if len(c.Export.SheetName) > maxSheetNameLen {
			errs = append(errs, "export.sheet_name must be at most 31 characters")
		}
	}

	switch strings.ToLower(c.Source.Format) {
	case "", "auto", "text", "json", "yaml":
	default:
		errs = append(errs, "source.format must be one of auto, text, json, yaml")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
