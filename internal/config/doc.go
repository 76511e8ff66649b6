// Package config loads kennel's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/kennel/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or empty, keep the defaults
//
// # TOML Format
//
//	api_url = "https://api.rescuedogs.example"
//	page_size = 20
//	url_debounce = "500ms"
//	scroll_debounce = "300ms"
//	request_timeout = "10s"
//	metadata_refresh = "1h"
//	log_level = "info"
//	log_json = false
//	log_file = "~/.local/state/kennel/kennel.log"
//	start_path = "/dogs/puppies"
//
// Durations accept day and week units ("1d", "2w3d") in addition to the
// units time.ParseDuration knows. Tilde expansion is applied to log_file.
//
// # Validation
//
// After parsing, the struct is checked with validator tags: api_url must be
// a URL, page_size within 1..100, request_timeout positive, log_level one of
// debug, info, warn or error, and start_path absolute. A file that fails
// validation is an error rather than a silent fallback.
//
// Missing config files are NOT an error. kennel works against the local
// fixture API out of the box.
package config
