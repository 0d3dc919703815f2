// Package config provides configuration management for the exporter.
//
// Configuration is loaded from an optional YAML file, overridden by CLI
// flags, filled in with defaults and validated once at startup. The resulting
// Config value is immutable afterwards and passed explicitly into the
// registry builder and the exposition server; there is no package-level
// configuration state.
//
// Configuration values are applied in the following order (later overrides
// earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file, when --config is given
//  3. CLI flag overrides (--rancher, --image-filter, --listen, --log-level)
//  4. Validation (fails fast if invalid)
package config
