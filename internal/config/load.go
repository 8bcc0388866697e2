package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables read by Load,
// e.g. TASKWELL_SERVER_PORT or TASKWELL_DATABASE_URL.
const envPrefix = "TASKWELL"

// Load reads configuration from environment variables, optionally seeded from
// a .env file in the working directory. Environment variables take precedence
// over .env values. Returns a populated Config struct or an error if loading
// or validation fails.
func Load() (*Config, error) {
	// A missing .env file is not an error; containers and CI set the
	// environment directly.
	_ = godotenv.Load()

	v := viper.New()

	// Defaults. The database URL has no sensible default and must be provided.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.url", "")
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.tasks_table", "tasks")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
