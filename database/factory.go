package database

import (
	"fmt"
	"net/url"
	"strconv"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	go_ora "github.com/sijms/go-ora/v2"

	"github.com/kbukum/dbkit/logger"
)

// Kind enumerates the supported backing stores.
type Kind string

const (
	Postgres Kind = "postgres"
	Oracle   Kind = "oracle"
)

// DefaultPort returns the conventional port for the kind.
func (k Kind) DefaultPort() int {
	switch k {
	case Oracle:
		return 1521
	default:
		return 5432
	}
}

// New builds an uninitialized pool for the given backing-store kind. The
// pool connects on first use or on an explicit Initialize call. Unknown
// kinds and invalid configuration fail with a *ConnectionError.
func New(kind Kind, cfg Config, log *logger.Logger) (*Pool, error) {
	cfg.ApplyDefaults()
	if cfg.Port == 0 {
		cfg.Port = kind.DefaultPort()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ConnectionError{Op: "configure", Cause: err}
	}

	switch kind {
	case Postgres:
		return Open("pgx", postgresDSN(cfg), cfg, log), nil
	case Oracle:
		p := Open("oracle", oracleDSN(cfg), cfg, log)
		p.pingQuery = "SELECT 1 FROM dual"
		return p, nil
	default:
		return nil, &ConnectionError{Op: "configure", Cause: fmt.Errorf("unsupported database kind %q", kind)}
	}
}

// postgresDSN builds a URL-style DSN for the pgx driver.
func postgresDSN(cfg Config) string {
	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	if cfg.SSLRootCert != "" {
		q.Set("sslrootcert", cfg.SSLRootCert)
	}
	if seconds := int(cfg.connectTimeout().Seconds()); seconds > 0 {
		q.Set("connect_timeout", strconv.Itoa(seconds))
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// oracleDSN builds a DSN for the go-ora driver. Config.Database is the
// Oracle service name.
func oracleDSN(cfg Config) string {
	options := map[string]string{}
	if cfg.SSLMode != "" && cfg.SSLMode != "disable" {
		options["SSL"] = "TRUE"
		if cfg.SSLRootCert != "" {
			options["SSL VERIFY"] = "TRUE"
			options["WALLET"] = cfg.SSLRootCert
		} else {
			options["SSL VERIFY"] = "FALSE"
		}
	}
	return go_ora.BuildUrl(cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, options)
}
