package database

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/dbkit/logger"
)

// healthCheckTimeout bounds the HealthCheck round trip.
const healthCheckTimeout = 5 * time.Second

// tracerName identifies spans emitted by this package.
const tracerName = "dbkit/database"

// Pool wraps exactly one native connection pool (*sql.DB) to a single
// backing store. The zero operations on an unopened pool initialize it
// lazily; Initialize may also be called explicitly. A closed pool may be
// re-initialized, never reusing stale state.
type Pool struct {
	driverName string
	dsn        string
	pingQuery  string
	cfg        Config
	log        *logger.Logger
	tracer     trace.Tracer

	// mu guards db and initialized. Initialize and Close are mutually
	// exclusive; concurrent first use builds exactly one native pool.
	mu          sync.Mutex
	db          *sql.DB
	initialized bool
}

// PoolStatus is a point-in-time snapshot of pool occupancy.
type PoolStatus struct {
	TotalConnections  int   `json:"total_connections"`
	ActiveConnections int   `json:"active_connections"`
	IdleConnections   int   `json:"idle_connections"`
	PendingRequests   int64 `json:"pending_requests"`
}

// Open creates an uninitialized pool for a registered database/sql driver.
// Most callers should use the New factory instead, which selects the driver
// and DSN for a backing-store kind.
func Open(driverName, dsn string, cfg Config, log *logger.Logger) *Pool {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Pool{
		driverName: driverName,
		dsn:        dsn,
		pingQuery:  "SELECT 1",
		cfg:        cfg,
		log:        log.WithComponent("database"),
		tracer:     otel.Tracer(tracerName),
	}
}

// Initialize builds the native pool and verifies it with a self-test query.
// It is idempotent: a no-op when already initialized. On failure no partial
// state is retained and the pool stays uninitialized.
func (p *Pool) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initializeLocked(ctx)
}

func (p *Pool) initializeLocked(ctx context.Context) error {
	if p.initialized {
		return nil
	}

	db, err := openNative(p.driverName, p.dsn, p.log)
	if err != nil {
		return &ConnectionError{Op: "initialize", Cause: err}
	}

	db.SetMaxOpenConns(p.cfg.MaxOpenConns)
	db.SetMaxIdleConns(p.cfg.MaxIdleConns)
	if d := p.cfg.connMaxLifetime(); d > 0 {
		db.SetConnMaxLifetime(d)
	}
	if d := p.cfg.connMaxIdleTime(); d > 0 {
		db.SetConnMaxIdleTime(d)
	}

	pingCtx, cancel := context.WithTimeout(ctx, p.cfg.connectTimeout())
	defer cancel()
	rows, err := db.QueryContext(pingCtx, p.pingQuery)
	if err != nil {
		db.Close()
		return &ConnectionError{Op: "initialize", Cause: err}
	}
	rows.Close()

	p.db = db
	p.initialized = true
	p.log.Info("Database pool initialized", logger.Fields(
		logger.FieldDriver, p.driverName,
		"max_open_conns", p.cfg.MaxOpenConns,
		"max_idle_conns", p.cfg.MaxIdleConns,
	))
	return nil
}

// ensureInitialized bootstraps the pool on first use and returns the native
// handle. Callers still race against Close, so the handle may be stale; the
// native pool reports that as a closed-pool error which is wrapped like any
// other acquisition failure.
func (p *Pool) ensureInitialized(ctx context.Context) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.initializeLocked(ctx); err != nil {
		return nil, err
	}
	return p.db, nil
}

// Conn checks out one connection from the pool, initializing lazily.
// The caller owns the connection until it calls Close on it, which returns
// it to the pool; every checkout must be paired with exactly one Close.
func (p *Pool) Conn(ctx context.Context) (*sql.Conn, error) {
	db, err := p.ensureInitialized(ctx)
	if err != nil {
		return nil, err
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, &ConnectionError{Op: "acquire", Cause: err}
	}
	return conn, nil
}

// Query executes a row-returning statement with auto-acquire/release.
// Arguments may be positional, or a single map[string]any flattened to
// positionals in sorted key order.
func (p *Pool) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	return p.QueryTimeout(ctx, 0, query, args...)
}

// QueryTimeout is Query bounded by a deadline. When the deadline expires the
// call fails with a *TimeoutError carrying the configured timeout; whether
// the statement is cancelled server-side depends on the driver.
func (p *Pool) QueryTimeout(ctx context.Context, timeout time.Duration, query string, args ...any) (*Result, error) {
	db, err := p.ensureInitialized(ctx)
	if err != nil {
		return nil, err
	}
	params := normalizeArgs(args)

	ctx, span := p.startSpan(ctx, "db.query", query)
	defer span.End()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		werr := p.wrapAcquire(err, timeout)
		recordSpanError(span, werr)
		return nil, werr
	}
	defer p.release(conn)

	rows, err := conn.QueryContext(ctx, query, params...)
	if err != nil {
		werr := wrapStatement(query, params, err, timeout)
		recordSpanError(span, werr)
		return nil, werr
	}
	res, err := normalizeRows(rows)
	if err != nil {
		werr := wrapStatement(query, params, err, timeout)
		recordSpanError(span, werr)
		return nil, werr
	}

	span.SetAttributes(attribute.Int("db.rows", res.RowCount))
	return res, nil
}

// Exec executes a row-less statement (INSERT, UPDATE, DDL) with
// auto-acquire/release. Result.RowCount reports affected rows when the
// driver provides them.
func (p *Pool) Exec(ctx context.Context, query string, args ...any) (*Result, error) {
	return p.ExecTimeout(ctx, 0, query, args...)
}

// ExecTimeout is Exec bounded by a deadline, with TimeoutError semantics
// matching QueryTimeout.
func (p *Pool) ExecTimeout(ctx context.Context, timeout time.Duration, query string, args ...any) (*Result, error) {
	db, err := p.ensureInitialized(ctx)
	if err != nil {
		return nil, err
	}
	params := normalizeArgs(args)

	ctx, span := p.startSpan(ctx, "db.exec", query)
	defer span.End()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		werr := p.wrapAcquire(err, timeout)
		recordSpanError(span, werr)
		return nil, werr
	}
	defer p.release(conn)

	res, err := conn.ExecContext(ctx, query, params...)
	if err != nil {
		werr := wrapStatement(query, params, err, timeout)
		recordSpanError(span, werr)
		return nil, werr
	}
	return normalizeExec(res), nil
}

// Begin checks out a connection and starts a transaction on it. The
// returned Tx owns the connection until Commit or Rollback releases it.
func (p *Pool) Begin(ctx context.Context) (*Tx, error) {
	db, err := p.ensureInitialized(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := p.startSpan(ctx, "db.begin", "BEGIN")
	defer span.End()

	conn, err := db.Conn(ctx)
	if err != nil {
		werr := &ConnectionError{Op: "acquire", Cause: err}
		recordSpanError(span, werr)
		return nil, werr
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		p.release(conn)
		werr := &QueryError{Query: "BEGIN", Cause: err}
		recordSpanError(span, werr)
		return nil, werr
	}

	return newTx(p, conn, tx), nil
}

// HealthCheck runs a trivial round trip with a short fixed deadline and
// reports the outcome as a boolean. It never returns an error: failures,
// including lazy-initialization failures and timeouts, are logged and
// reported as false.
func (p *Pool) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if _, err := p.Query(ctx, p.pingQuery); err != nil {
		p.log.Warn("Health check failed", logger.ErrorFields("health_check", err))
		return false
	}
	return true
}

// Close tears down the native pool and resets the pool to its uninitialized
// state. Idempotent. When teardown itself errors the internal state is still
// reset so the pool cannot get stuck half-closed.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.db == nil {
		p.db = nil
		p.initialized = false
		return nil
	}

	err := p.db.Close()
	p.db = nil
	p.initialized = false
	if err != nil {
		return &ConnectionError{Op: "close", Cause: err}
	}
	p.log.Info("Database pool closed")
	return nil
}

// Status returns a live occupancy snapshot, or the zero value when the pool
// is uninitialized or closed. PendingRequests is the cumulative count of
// acquisitions that had to wait for a free connection.
func (p *Pool) Status() PoolStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.db == nil {
		return PoolStatus{}
	}
	s := p.db.Stats()
	return PoolStatus{
		TotalConnections:  s.OpenConnections,
		ActiveConnections: s.InUse,
		IdleConnections:   s.Idle,
		PendingRequests:   s.WaitCount,
	}
}

// IsConnected reports whether the pool is initialized with a live native
// handle.
func (p *Pool) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized && p.db != nil
}

// release returns a checked-out connection to the pool. Release failures
// are logged and swallowed: they must never mask the primary outcome.
func (p *Pool) release(conn *sql.Conn) {
	if err := conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		p.log.Warn("Connection release failed", logger.ErrorFields("release", err))
	}
}

// wrapAcquire classifies a connection acquisition failure. Under a caller
// deadline an expired wait is a timeout, not a connection fault.
func (p *Pool) wrapAcquire(err error, timeout time.Duration) error {
	if timeout > 0 && errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Timeout: timeout, Cause: err}
	}
	return &ConnectionError{Op: "acquire", Cause: err}
}

// wrapStatement classifies a statement failure as timeout or query error.
func wrapStatement(query string, params []any, err error, timeout time.Duration) error {
	if timeout > 0 && errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Timeout: timeout, Cause: err}
	}
	return &QueryError{Query: query, Params: params, Cause: err}
}

func (p *Pool) startSpan(ctx context.Context, name, statement string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", p.driverName),
			attribute.String("db.statement", statement),
		),
	)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
