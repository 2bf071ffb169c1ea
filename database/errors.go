package database

import (
	"errors"
	"fmt"
	"time"
)

// ConnectionError reports a pool or connection lifecycle failure: native
// pool creation, connection acquisition, the initial self-test, or teardown.
type ConnectionError struct {
	// Op names the operation that failed, e.g. "initialize" or "acquire".
	Op string
	// Cause is the underlying driver error, if any.
	Cause error
}

// Error returns the string representation of the error.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("database connection error during %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("database connection error during %s", e.Op)
}

// Unwrap returns the underlying cause of the error.
func (e *ConnectionError) Unwrap() error { return e.Cause }

// QueryError reports a statement execution or transaction-protocol failure.
// It carries the statement text and parameters for diagnostics.
type QueryError struct {
	Query  string
	Params []any
	Cause  error
}

// Error returns the string representation of the error.
func (e *QueryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("database query error: %v (query: %s)", e.Cause, e.Query)
	}
	return fmt.Sprintf("database query error (query: %s)", e.Query)
}

// Unwrap returns the underlying cause of the error.
func (e *QueryError) Unwrap() error { return e.Cause }

// TimeoutError reports that a query exceeded its configured deadline.
type TimeoutError struct {
	// Timeout is the deadline the query was given.
	Timeout time.Duration
	// Cause is the underlying context or driver error.
	Cause error
}

// Error returns the string representation of the error.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("database query timed out after %s", e.Timeout)
}

// Unwrap returns the underlying cause of the error.
func (e *TimeoutError) Unwrap() error { return e.Cause }

// IsConnectionError reports whether err is (or wraps) a *ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsQueryError reports whether err is (or wraps) a *QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

// IsTimeoutError reports whether err is (or wraps) a *TimeoutError.
func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
