// Package config loads cookhub's TOML configuration.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/cookhub/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. Blank fields use defaults
//  5. COOKHUB_API_URL, when set, overrides api_url
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:5000"
//	state_dir = "~/.local/share/cookhub"
//	log_level = "info"
//	request_timeout = "10s"
//	health_interval = "30s"
//
// Every field is optional. Durations use time.ParseDuration syntax and must be
// positive.
//
// # Derived Paths
//
//   - IdentityPath: <state_dir>/identity.json, the persisted login slot
//   - LogPath: <state_dir>/cookhub.log
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files, invalid
// TOML and invalid durations. A missing file is not an error.
package config
