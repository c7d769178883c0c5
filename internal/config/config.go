package config

import "time"

// Storage drivers understood by Config.Storage.Driver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig selects and configures the card and lookup stores.
type StorageConfig struct {
	Driver      string `mapstructure:"driver" validate:"required,oneof=memory sqlite postgres"`
	SQLitePath  string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Driver postgres"`
}

// SchedulerConfig tunes how words enter and move through review.
type SchedulerConfig struct {
	// FrictionThreshold is the lookup count a key must exceed before it is
	// saved for the card to be created under friction.
	FrictionThreshold int `mapstructure:"friction_threshold" validate:"gte=0"`

	// StrictLevels rejects level labels that cannot be recognized instead of
	// filing them under HSK 1.
	StrictLevels bool `mapstructure:"strict_levels"`

	// DigestInterval is how often the due digest runs. Zero disables it.
	DigestInterval time.Duration `mapstructure:"digest_interval" validate:"gte=0"`
}
