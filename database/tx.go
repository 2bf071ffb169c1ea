package database

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/dbkit/logger"
)

// errTxCompleted is the cause carried by operations on a terminal Tx.
var errTxCompleted = errors.New("transaction already completed")

// Tx is a single-use unit of work bound to one checked-out connection.
// It starts active and becomes terminal on the first Commit or Rollback;
// a terminal Tx rejects every further operation with a *QueryError, and its
// connection is returned to the pool exactly once, even when the terminating
// directive itself fails.
type Tx struct {
	id   string
	pool *Pool
	conn *sql.Conn
	tx   *sql.Tx
	log  *logger.Logger

	mu   sync.Mutex
	done bool
}

func newTx(p *Pool, conn *sql.Conn, tx *sql.Tx) *Tx {
	id := uuid.NewString()
	return &Tx{
		id:   id,
		pool: p,
		conn: conn,
		tx:   tx,
		log:  p.log.WithFields(map[string]interface{}{logger.FieldTransaction: id}),
	}
}

// ID returns the transaction's correlation id, as used in log entries.
func (t *Tx) ID() string { return t.id }

// Query executes a row-returning statement within the transaction.
// It does not change the transaction's completion state.
func (t *Tx) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	return t.QueryTimeout(ctx, 0, query, args...)
}

// QueryTimeout is Query bounded by a deadline, with the same TimeoutError
// semantics as Pool.QueryTimeout.
func (t *Tx) QueryTimeout(ctx context.Context, timeout time.Duration, query string, args ...any) (*Result, error) {
	if err := t.active(query); err != nil {
		return nil, err
	}
	params := normalizeArgs(args)

	ctx, span := t.pool.startSpan(ctx, "db.tx.query", query)
	defer span.End()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rows, err := t.tx.QueryContext(ctx, query, params...)
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
	return res, nil
}

// Exec executes a row-less statement within the transaction.
func (t *Tx) Exec(ctx context.Context, query string, args ...any) (*Result, error) {
	return t.ExecTimeout(ctx, 0, query, args...)
}

// ExecTimeout is Exec bounded by a deadline.
func (t *Tx) ExecTimeout(ctx context.Context, timeout time.Duration, query string, args ...any) (*Result, error) {
	if err := t.active(query); err != nil {
		return nil, err
	}
	params := normalizeArgs(args)

	ctx, span := t.pool.startSpan(ctx, "db.tx.exec", query)
	defer span.End()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := t.tx.ExecContext(ctx, query, params...)
	if err != nil {
		werr := wrapStatement(query, params, err, timeout)
		recordSpanError(span, werr)
		return nil, werr
	}
	return normalizeExec(res), nil
}

// Commit issues the commit directive, marks the transaction terminal, and
// releases the connection. The release runs even when the commit fails, so
// a failed commit still frees the connection and dead-ends the transaction;
// retrying requires a fresh Begin.
func (t *Tx) Commit() error {
	return t.finish("COMMIT", t.tx.Commit)
}

// Rollback issues the rollback directive, marks the transaction terminal,
// and releases the connection, symmetric to Commit.
func (t *Tx) Rollback() error {
	return t.finish("ROLLBACK", t.tx.Rollback)
}

func (t *Tx) finish(directive string, fn func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return &QueryError{Query: directive, Cause: errTxCompleted}
	}

	err := fn()
	t.done = true
	t.pool.release(t.conn)

	if err != nil {
		t.log.Warn("Transaction directive failed", logger.ErrorFields(directive, err))
		return &QueryError{Query: directive, Cause: err}
	}
	t.log.Debug("Transaction completed", logger.Fields(logger.FieldOperation, directive))
	return nil
}

// active rejects operations on a terminal transaction.
func (t *Tx) active(op string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return &QueryError{Query: op, Cause: errTxCompleted}
	}
	return nil
}
