// Package config loads, normalizes, and validates livecap's TOML
// configuration.
package config
