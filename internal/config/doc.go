// Package config loads, normalizes, and validates watchlist configuration.
//
// Settings come from a TOML file (the --config flag, then
// ~/.config/watchlist/config.toml, then ./watchlist.toml), are overridden by
// WATCHLIST_* environment variables, and finally by command-line flags applied
// by the caller. Paths are expanded (including ~) before validation.
package config
