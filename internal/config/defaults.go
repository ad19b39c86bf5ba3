package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultConfigPath = "~/.config/watchlist/config.toml"
	projectConfigName = "watchlist.toml"

	defaultBackend   = BackendJSON
	defaultTheme     = "classic"
	defaultLogLevel  = "warn"
	defaultLogFormat = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Storage: Storage{
			DataDir: defaultDataDir(),
			Backend: defaultBackend,
		},
		Display: Display{
			Theme: defaultTheme,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

func defaultDataDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "watchlist")
	}
	return "~/.local/share/watchlist"
}
