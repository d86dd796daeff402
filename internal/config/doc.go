// Package config loads wayfarer's configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/wayfarer/config.toml (default)
//  3. A .env file in the same directory is loaded into the environment,
//     never replacing variables that are already set
//  4. If the config file doesn't exist, start from defaults
//  5. Environment variables override whatever the file said
//
// # Default Values
//
//   - Config file: ~/.config/wayfarer/config.toml
//   - Data directory: ~/.local/share/wayfarer
//   - Storage backend: file
//   - Log level: info
//   - Log file: <data_dir>/wayfarer.log
//   - Enrichment: enabled, public Nominatim/Open-Meteo/Unsplash endpoints
//
// # TOML Format
//
//	data_dir  = "~/.local/share/wayfarer"
//	storage   = "sqlite"
//	log_level = "debug"
//
//	[enrich]
//	enabled = true
//	user_agent = "wayfarer/0.1 (me@example.com)"
//
// Every field is optional. Tilde expansion is performed on paths.
//
// # Environment
//
//   - WAYFARER_DATA_DIR overrides data_dir
//   - WAYFARER_STORAGE overrides storage
//   - WAYFARER_LOG_LEVEL overrides log_level
//   - UNSPLASH_ACCESS_KEY enables Unsplash image search
//
// The Unsplash key is deliberately absent from the TOML file so it can live
// in .env alongside it.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors ("parse config: ...")
//   - Unknown storage backends or log levels
//
// Missing config files are NOT an error.
package config
