// Package metadata queries the class dictionary that lives outside the
// source files, such as the compiled ProcedureBlock setting a class
// inherits from its superclasses.
package metadata

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("metadata not found")

// Table is a tabular query result.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Column returns the index of a column, matched case-insensitively, or -1.
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// Value returns the cell at row and the named column.
func (t *Table) Value(row int, column string) (any, bool) {
	col := t.Column(column)
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return nil, false
	}
	return t.Rows[row][col], true
}

// Querier runs a query with positional parameters and returns its rows.
type Querier interface {
	Query(ctx context.Context, query string, params ...any) (*Table, error)
}

// QuerierFunc adapts a function to the Querier interface.
type QuerierFunc func(ctx context.Context, query string, params ...any) (*Table, error)

// Query calls f.
func (f QuerierFunc) Query(ctx context.Context, query string, params ...any) (*Table, error) {
	return f(ctx, query, params...)
}
