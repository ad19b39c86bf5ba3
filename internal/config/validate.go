package config

import (
	"fmt"
	"slices"
)

var (
	validBackends   = []string{BackendJSON, BackendSQLite}
	validThemes     = []string{"classic", "neon", "mono"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"console", "json"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir must be set")
	}
	if !slices.Contains(validBackends, c.Storage.Backend) {
		return fmt.Errorf("storage.backend must be one of %v, got %q", validBackends, c.Storage.Backend)
	}
	if !slices.Contains(validThemes, c.Display.Theme) {
		return fmt.Errorf("display.theme must be one of %v, got %q", validThemes, c.Display.Theme)
	}
	if !slices.Contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %v, got %q", validLogLevels, c.Logging.Level)
	}
	if !slices.Contains(validLogFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of %v, got %q", validLogFormats, c.Logging.Format)
	}
	return nil
}
