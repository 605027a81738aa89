// Package config loads the knowledge-base configuration.
//
// Configuration lives in <home>/config.yaml. Values are layered as
// defaults, then the YAML file, then OZY_* environment variables; command-line
// flags are applied on top by the CLI. Validate reports problems as
// apperr config errors.
package config
