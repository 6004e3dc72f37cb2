// Package config loads application settings from defaults, an optional
// config.yaml, a .env file and TEXDRILL_* environment variables, and
// validates the result before any component starts.
package config
