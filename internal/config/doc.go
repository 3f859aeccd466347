// Package config loads, normalizes, and validates audiosrt configuration.
//
// Configuration is read from TOML (or YAML when the file carries a .yaml/.yml
// extension), layered over built-in defaults, then topped up from environment
// variables. Paths are expanded so callers always see absolute locations.
// CreateSample writes the embedded sample used by `audiosrt config init`.
package config
