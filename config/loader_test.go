package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Database struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"database"`
	Logger struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logger"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "config.yml", `
database:
  host: db.internal
  port: 5433
logger:
  level: debug
`)

	var cfg testConfig
	if err := Load("testsvc", &cfg, WithConfigFile(file)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("expected host db.internal, got %s", cfg.Database.Host)
	}
	if cfg.Database.Port != 5433 {
		t.Errorf("expected port 5433, got %d", cfg.Database.Port)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("expected level debug, got %s", cfg.Logger.Level)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "config.yml", `
database:
  host: from-file
`)
	t.Setenv("DBKIT_DATABASE_HOST", "from-env")

	var cfg testConfig
	if err := Load("testsvc", &cfg, WithConfigFile(file)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Host != "from-env" {
		t.Errorf("expected env to win, got %s", cfg.Database.Host)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "DBKIT_DATABASE_HOST=dotenv-host\n")
	t.Cleanup(func() { os.Unsetenv("DBKIT_DATABASE_HOST") })

	var cfg testConfig
	if err := Load("testsvc", &cfg, WithEnvFile(envFile)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Host != "dotenv-host" {
		t.Errorf("expected host from .env, got %s", cfg.Database.Host)
	}
}

func TestLoad_MissingConfigFileIsError(t *testing.T) {
	var cfg testConfig
	err := Load("testsvc", &cfg, WithConfigFile("/nonexistent/config.yml"))
	if err == nil {
		t.Error("expected error for explicit missing config file")
	}
}

func TestLoad_NoFilesAtAll(t *testing.T) {
	// With no config.yml or .env anywhere, Load succeeds with zero values.
	var cfg testConfig
	if err := Load("no-such-service", &cfg); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
}
