package config

import "time"

// Runtime environments accepted by ServerConfig.Environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// Environment controls diagnostic verbosity of error responses.
	Environment string `mapstructure:"environment" validate:"required,oneof=development production test"`
}

// IsDevelopment reports whether internal diagnostics may be exposed to clients.
func (c ServerConfig) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// JWTSecret may be left empty; token operations then fail with a
	// misconfiguration error instead of the process refusing to start.
	JWTSecret     string        `mapstructure:"jwt_secret"     validate:"omitempty,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"required,gt=0"`
	BcryptCost    int           `mapstructure:"bcrypt_cost"    validate:"required,gte=4,lte=31"`
}

// RateLimitConfig controls the limiter placed in front of the auth endpoints.
type RateLimitConfig struct {
	// RequestsPerSecond and Burst configure the in-process token bucket.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int     `mapstructure:"burst"               validate:"gt=0"`
	// RedisURL switches to a shared fixed-window limiter when set.
	RedisURL    string        `mapstructure:"redis_url"    validate:"omitempty,url"`
	Window      time.Duration `mapstructure:"window"       validate:"gt=0"`
	MaxRequests int           `mapstructure:"max_requests" validate:"gt=0"`
}
