// Package config loads, normalizes, and validates streambox configuration
// from TOML. Path fields are expanded (including ~) before use, and every
// loaded config is validated so the rest of the daemon can trust its values.
package config
