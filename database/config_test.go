package database

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Host:     "localhost",
		Port:     5432,
		Database: "app",
		User:     "app",
		Password: "secret",
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.MaxOpenConns != 10 {
		t.Errorf("expected default max_open_conns 10, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 2 {
		t.Errorf("expected default max_idle_conns 2, got %d", cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != "1h" {
		t.Errorf("expected default conn_max_lifetime 1h, got %s", cfg.ConnMaxLifetime)
	}
	if cfg.ConnectTimeout != "10s" {
		t.Errorf("expected default connect_timeout 10s, got %s", cfg.ConnectTimeout)
	}
}

func TestConfig_ApplyDefaults_ClampsIdle(t *testing.T) {
	cfg := Config{MaxOpenConns: 3, MaxIdleConns: 8}
	cfg.ApplyDefaults()
	if cfg.MaxIdleConns != 3 {
		t.Errorf("expected idle clamped to max open, got %d", cfg.MaxIdleConns)
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfig_Validate_MissingHost(t *testing.T) {
	cfg := validConfig()
	cfg.Host = ""
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing host")
	}
}

func TestConfig_Validate_MissingUser(t *testing.T) {
	cfg := validConfig()
	cfg.User = ""
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing user")
	}
}

func TestConfig_Validate_BadPort(t *testing.T) {
	cfg := validConfig()
	cfg.Port = 70000
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestConfig_Validate_BadDuration(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	cfg.ConnMaxLifetime = "not-a-duration"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestConfig_ConnectTimeout_Fallback(t *testing.T) {
	cfg := Config{ConnectTimeout: "garbage"}
	if got := cfg.connectTimeout(); got != 10*time.Second {
		t.Errorf("expected fallback 10s, got %s", got)
	}

	cfg.ConnectTimeout = "3s"
	if got := cfg.connectTimeout(); got != 3*time.Second {
		t.Errorf("expected 3s, got %s", got)
	}
}
