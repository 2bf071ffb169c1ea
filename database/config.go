package database

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds connection pool configuration for one backing store.
// A Config is copied into the pool at construction and never mutated after.
type Config struct {
	// Host is the backing store address.
	Host string `mapstructure:"host" validate:"required"`

	// Port is the backing store port. Zero selects the driver default.
	Port int `mapstructure:"port" validate:"gte=0,lte=65535"`

	// Database is the database name; for Oracle it is the service name.
	Database string `mapstructure:"database" validate:"required"`

	// User and Password are the credentials.
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`

	// MaxOpenConns sets the upper bound on concurrent connections.
	MaxOpenConns int `mapstructure:"max_open_conns"`

	// MaxIdleConns sets the number of idle connections kept in the pool.
	MaxIdleConns int `mapstructure:"max_idle_conns"`

	// ConnMaxLifetime is the maximum time a connection may be reused (e.g. "1h").
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`

	// ConnMaxIdleTime is the maximum time a connection may sit idle (e.g. "5m").
	ConnMaxIdleTime string `mapstructure:"conn_max_idle_time"`

	// ConnectTimeout bounds native pool creation and the initial self-test (e.g. "10s").
	ConnectTimeout string `mapstructure:"connect_timeout"`

	// SSLMode configures transport security for drivers that support it
	// (e.g. "disable", "require", "verify-full" for Postgres).
	SSLMode string `mapstructure:"ssl_mode"`

	// SSLRootCert is a path to the CA certificate used to verify the server.
	SSLRootCert string `mapstructure:"ssl_root_cert"`
}

var validate = validator.New()

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 10
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 2
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime == "" {
		c.ConnMaxLifetime = "1h"
	}
	if c.ConnMaxIdleTime == "" {
		c.ConnMaxIdleTime = "5m"
	}
	if c.ConnectTimeout == "" {
		c.ConnectTimeout = "10s"
	}
}

// Validate checks that required fields are present and durations parse.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid database config: %w", err)
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max_idle_conns (%d) must be <= max_open_conns (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}
	for _, d := range []struct {
		name  string
		value string
	}{
		{"conn_max_lifetime", c.ConnMaxLifetime},
		{"conn_max_idle_time", c.ConnMaxIdleTime},
		{"connect_timeout", c.ConnectTimeout},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
	}
	return nil
}

// connectTimeout returns the parsed connect timeout, or its default.
func (c *Config) connectTimeout() time.Duration {
	if d, err := time.ParseDuration(c.ConnectTimeout); err == nil && d > 0 {
		return d
	}
	return 10 * time.Second
}

func (c *Config) connMaxLifetime() time.Duration {
	d, _ := time.ParseDuration(c.ConnMaxLifetime)
	return d
}

func (c *Config) connMaxIdleTime() time.Duration {
	d, _ := time.ParseDuration(c.ConnMaxIdleTime)
	return d
}

// addr returns host:port for log and startup summaries.
func (c *Config) addr() string {
	if c.Port > 0 {
		return fmt.Sprintf("%s:%d", c.Host, c.Port)
	}
	return c.Host
}
