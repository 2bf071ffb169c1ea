package database

import (
	"context"
	"database/sql"
	"database/sql/driver"

	"github.com/kbukum/dbkit/logger"
)

// openNative builds the native *sql.DB handle. When the driver supports
// driver.DriverContext the connector is wrapped so individual connection
// attempts are observable in logs. Drivers without connector support fall
// back to a plain open without connect-level logging.
func openNative(driverName, dsn string, log *logger.Logger) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	dc, ok := db.Driver().(driver.DriverContext)
	if !ok {
		return db, nil
	}

	connector, err := dc.OpenConnector(dsn)
	if err != nil {
		db.Close()
		return nil, err
	}
	db.Close()

	return sql.OpenDB(&loggingConnector{inner: connector, log: log}), nil
}

// loggingConnector wraps a driver.Connector to log connect events.
// Logging is observational only; failures propagate unchanged.
type loggingConnector struct {
	inner driver.Connector
	log   *logger.Logger
}

func (c *loggingConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := c.inner.Connect(ctx)
	if err != nil {
		c.log.Warn("Native connection attempt failed", logger.ErrorFields("connect", err))
		return nil, err
	}
	c.log.Debug("Native connection established")
	return conn, nil
}

func (c *loggingConnector) Driver() driver.Driver { return c.inner.Driver() }
