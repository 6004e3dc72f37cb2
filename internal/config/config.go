package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Auth        AuthConfig        `mapstructure:"auth" validate:"required"`
	SRS         SRSConfig         `mapstructure:"srs" validate:"required"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency" validate:"required"`
}

// ServerConfig contains HTTP server and logging settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
	LogFormat              string `mapstructure:"log_format" validate:"omitempty,oneof=json text"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains PostgreSQL connection settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
}

// AuthConfig contains token signing and password hashing settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"gt=0,lt=44640"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"gt=0,lt=44640,gtfield=TokenLifetimeMinutes"`
}

// SRSConfig tunes the review scheduler.
type SRSConfig struct {
	InitialEaseFactor float64 `mapstructure:"initial_ease_factor" validate:"gte=1.3,lte=5"`
	MinEaseFactor     float64 `mapstructure:"min_ease_factor" validate:"gte=1.3,ltefield=InitialEaseFactor"`
}

// Idempotency backends.
const (
	IdempotencyMemory = "memory"
	IdempotencyRedis  = "redis"
)

// IdempotencyConfig selects and tunes the replay cache for submissions.
type IdempotencyConfig struct {
	Backend              string `mapstructure:"backend" validate:"required,oneof=memory redis"`
	TTLSeconds           int    `mapstructure:"ttl_seconds" validate:"gt=0"`
	SweepIntervalSeconds int    `mapstructure:"sweep_interval_seconds" validate:"gt=0"`
	RedisURL             string `mapstructure:"redis_url" validate:"required_if=Backend redis"`
}

// TTL returns how long a stored response is replayed.
func (c IdempotencyConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// SweepInterval returns how often expired entries are purged from memory.
func (c IdempotencyConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}
