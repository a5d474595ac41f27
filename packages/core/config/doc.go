// Package config handles configuration loading and management for tickspec.
//
// It provides functionality for:
//   - Loading configuration from .tickspec.yaml or .tickspec.yml files
//   - Validating the file against an embedded JSON schema
//   - Default configuration values
package config
