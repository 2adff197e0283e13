package config

import (
	"fmt"
	"time"
)

// Config holds runtime configuration for the Painnoll assistant bot.
type Config struct {
	AppEnv string

	Bot       BotConfig       `mapstructure:"bot" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Server    ServerConfig    `mapstructure:"server"`
}

// BotConfig configures the Telegram transport and the administrator allow-list.
// WebhookURL is the public HTTPS address Telegram pushes updates to; it is
// required in webhook mode and ignored when polling.
type BotConfig struct {
	Token      string        `mapstructure:"token" validate:"required"`
	Mode       string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Port       string        `mapstructure:"port"`
	WebhookURL string        `mapstructure:"webhook_url" validate:"required_if=Mode webhook,omitempty,url"`
	AdminIDs   []int64       `mapstructure:"admin_ids"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     string `mapstructure:"port" validate:"required"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig configures the Redis connection used for dialog state and caching.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr" validate:"required"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

// SchedulerConfig configures reminder timing. TimezoneOffset shifts the three
// daily slots uniformly for every user; DeferDelay is the "remind me later" delay.
type SchedulerConfig struct {
	TimezoneOffset int           `mapstructure:"timezone_offset" validate:"gte=-23,lte=23"`
	DeferDelay     time.Duration `mapstructure:"defer_delay" validate:"gt=0"`
}

// LoggerConfig configures slog output.
type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
	File   string `mapstructure:"file"`
}

// SentryConfig configures error reporting.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// ServerConfig configures the metrics/health HTTP endpoint.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
		c.SSLMode,
	)
}

// IsAdmin reports whether the identifier belongs to the administrator allow-list.
func (c BotConfig) IsAdmin(id int64) bool {
	for _, adminID := range c.AdminIDs {
		if adminID == id {
			return true
		}
	}
	return false
}
