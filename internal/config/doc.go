// Package config loads and validates the converter configuration.
//
// Configuration comes from a TOML file (default ~/.config/lectern/config.toml)
// with environment overrides for secrets. Loading applies repository defaults
// first, then the file, then normalization and validation, so a missing file
// yields a usable default configuration.
package config
