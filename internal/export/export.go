// Package export writes record lists to the updater's output formats.
package export

import (
	"github.com/sells-group/ghl-updater/internal/model"
)

// Sink serializes a record list to a file.
type Sink interface {
	// Format names the output format, e.g. "json" or "xlsx".
	Format() string
	// Write serializes records to path, replacing any existing file.
	Write(path string, records []model.Record) error
}
