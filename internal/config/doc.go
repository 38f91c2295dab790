// Package config loads and validates the todo API settings from defaults, an
// optional config.yaml and environment variables.
package config
