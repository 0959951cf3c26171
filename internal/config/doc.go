// Package config loads, normalizes, and validates the cleave configuration.
//
// Configuration comes from a TOML file (default ~/.config/cleave/config.toml
// or ./cleave.toml) with environment variable overrides applied on top.
// Loaded values are expanded and validated before any component sees them;
// components receive the struct explicitly rather than reading globals.
package config
