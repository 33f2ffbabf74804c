package metadata

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Dictionary answers class-level questions from a class table with one row
// per class, keyed by a Name column.
type Dictionary struct {
	q     Querier
	table string

	mu    sync.Mutex
	cache map[string]bool
}

// NewDictionary returns a Dictionary reading from table. The table name is
// inserted into queries verbatim and must be a plain dotted identifier.
func NewDictionary(q Querier, table string) (*Dictionary, error) {
	if !ValidTable(table) {
		return nil, fmt.Errorf("invalid class table %q", table)
	}
	return &Dictionary{q: q, table: table, cache: make(map[string]bool)}, nil
}

// ValidTable reports whether name can be used as a class table name.
func ValidTable(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '.', r == '%':
		default:
			return false
		}
	}
	return true
}

// ProcedureBlock returns the compiled ProcedureBlock setting of a class.
// Successful answers are cached for the Dictionary's lifetime.
func (d *Dictionary) ProcedureBlock(ctx context.Context, class string) (bool, error) {
	d.mu.Lock()
	v, ok := d.cache[strings.ToLower(class)]
	d.mu.Unlock()
	if ok {
		return v, nil
	}

	query := "SELECT ProcedureBlock FROM " + d.table + " WHERE Name = ?"
	table, err := d.q.Query(ctx, query, class)
	if err != nil {
		return false, fmt.Errorf("class %s: %w", class, err)
	}
	cell, ok := table.Value(0, "ProcedureBlock")
	if !ok {
		return false, fmt.Errorf("class %s: %w", class, ErrNotFound)
	}
	v, err = toBool(cell)
	if err != nil {
		return false, fmt.Errorf("class %s: ProcedureBlock: %w", class, err)
	}

	d.mu.Lock()
	d.cache[strings.ToLower(class)] = v
	d.mu.Unlock()
	return v, nil
}

func toBool(cell any) (bool, error) {
	switch v := cell.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case []byte:
		return parseBool(string(v))
	case string:
		return parseBool(v)
	case nil:
		return false, fmt.Errorf("null value: %w", ErrNotFound)
	default:
		return false, fmt.Errorf("unsupported value %T", cell)
	}
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n != 0, nil
	}
	return strconv.ParseBool(s)
}
