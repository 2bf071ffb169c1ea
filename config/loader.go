package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Loader holds optional file overrides for Load.
type Loader struct {
	ConfigFile string // explicit config file path
	EnvFile    string // explicit .env file path
	EnvPrefix  string // environment variable prefix, default "DBKIT"
}

// Option is a functional option for Load.
type Option func(*Loader)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(l *Loader) { l.EnvFile = path }
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.EnvPrefix = prefix }
}

// Load loads configuration for a service into the provided cfg struct.
// It searches for config.yml and .env files in standard locations, binds
// prefixed environment variables, and unmarshals the result into cfg.
func Load(serviceName string, cfg interface{}, opts ...Option) error {
	l := Loader{EnvPrefix: "DBKIT"}
	for _, opt := range opts {
		opt(&l)
	}

	configFile := l.ConfigFile
	if configFile == "" {
		configFile = findFile(configSearchPaths(serviceName))
	}
	envFile := l.EnvFile
	if envFile == "" {
		envFile = findFile(envSearchPaths(serviceName))
	}

	// .env first so viper's env binding sees its variables.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "[config] warning: failed to load env file %s: %v\n", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(l.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindPrefixedEnv(v, l.EnvPrefix)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

func configSearchPaths(serviceName string) []string {
	return []string{
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		"./config/config.yml",
		"./config.yml",
	}
}

func envSearchPaths(serviceName string) []string {
	return []string{
		fmt.Sprintf(".env.%s", serviceName),
		".env",
	}
}

func findFile(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// bindPrefixedEnv force-sets values for all prefixed environment variables.
// Viper's Unmarshal only walks keys it already knows about, so env-only
// settings would otherwise be dropped.
func bindPrefixedEnv(v *viper.Viper, prefix string) {
	envPrefix := prefix + "_"
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], envPrefix) {
			continue
		}
		key := strings.TrimPrefix(pair[0], envPrefix)
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, pair[1])
		}
	}
}

// envKeyVariants maps an UPPER_SNAKE env key to the nested viper keys it may
// address. DATABASE_MAX_OPEN_CONNS covers database.max.open.conns,
// database.max_open_conns, database_max_open_conns and so on, since the
// loader cannot know which underscores separate nesting levels.
func envKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}

	seen := make(map[string]bool, len(variants))
	result := make([]string, 0, len(variants))
	for _, variant := range variants {
		if !seen[variant] {
			seen[variant] = true
			result = append(result, variant)
		}
	}
	return result
}
