// Package database provides a connection pool wrapper around database/sql
// with explicit connection checkout, single-use transactions, normalized
// query results, and a closed error taxonomy.
//
// # Quick start
//
//	cfg := database.Config{Host: "localhost", Port: 5432, Database: "app", User: "app", Password: "secret"}
//	pool := database.New(database.Postgres, cfg, log)
//	defer pool.Close()
//
//	res, err := pool.Query(ctx, "SELECT id, name FROM users WHERE id = $1", 42)
//
// The pool initializes lazily on first use; Initialize may also be called
// explicitly. Every operation returns one of three error kinds —
// *ConnectionError, *QueryError, or *TimeoutError — so callers branch with
// IsConnectionError, IsQueryError, and IsTimeoutError rather than matching
// message text. Raw driver errors are always wrapped, never returned bare.
//
// # Timeouts
//
// QueryTimeout and ExecTimeout run under a derived deadline context. Whether
// an expired deadline cancels the statement server-side depends on the
// driver's cancellation support; without it the deadline only abandons the
// caller's wait and the statement may still complete on the backing store.
//
// # Backing stores
//
// The New factory selects the driver: Postgres uses jackc/pgx through its
// database/sql adapter, Oracle uses sijms/go-ora. Open accepts any registered
// driver name for other stores (tests use modernc.org/sqlite).
package database
