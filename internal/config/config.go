package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`

	// MinConns and MaxConns bound the shared connection pool. Acquisition
	// blocks when MaxConns connections are in use.
	MinConns int `mapstructure:"min_conns" validate:"gte=0"`
	MaxConns int `mapstructure:"max_conns" validate:"required,gt=0,gtefield=MinConns"`

	// TasksTable is the name of the table backing task records.
	TasksTable string `mapstructure:"tasks_table" validate:"required"`
}
