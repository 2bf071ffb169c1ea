package database

import (
	"database/sql"
)

// Field describes one column of a result set.
type Field struct {
	Name         string
	DatabaseType string
}

// Result is the canonical shape of a query outcome: the rows as ordered
// name-to-value records, the row count, and column metadata when the driver
// provides it. A Result is built fresh per query and owned by the caller.
type Result struct {
	Rows     []map[string]any
	RowCount int
	Fields   []Field
}

// normalizeRows drains rows into a Result. It always closes rows.
func normalizeRows(rows *sql.Rows) (*Result, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fields := make([]Field, len(cols))
	for i, c := range cols {
		fields[i] = Field{Name: c}
	}
	if types, err := rows.ColumnTypes(); err == nil {
		for i, t := range types {
			if i < len(fields) {
				fields[i].DatabaseType = t.DatabaseTypeName()
			}
		}
	}

	var out []map[string]any
	values := make([]any, len(cols))
	scanTargets := make([]any, len(cols))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, err
		}
		record := make(map[string]any, len(cols))
		for i, c := range cols {
			record[c] = normalizeValue(values[i])
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Result{
		Rows:     out,
		RowCount: len(out),
		Fields:   fields,
	}, nil
}

// normalizeExec builds a Result for a row-less statement. Drivers that do
// not report affected rows yield a zero count.
func normalizeExec(res sql.Result) *Result {
	count := int64(0)
	if res != nil {
		if n, err := res.RowsAffected(); err == nil {
			count = n
		}
	}
	return &Result{RowCount: int(count)}
}

// normalizeValue converts driver-specific scan values into plain Go types.
// []byte is copied to string since drivers may reuse the buffer between rows.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
