// Package config defines the application configuration structure and loading
// logic. Configuration is read from environment variables (with an optional
// .env file for local development) and validated before use.
package config
