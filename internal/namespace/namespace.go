// Package namespace holds the template vocabulary built from a snapshot and writes it into a
// Lua state.
package namespace

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is returned when a key is set twice on one table.
var ErrDuplicateKey = errors.New("namespace key already set")

// ErrUnsupportedValue is returned for values that have no template representation.
var ErrUnsupportedValue = errors.New("unsupported namespace value")

// Table is an insertion-ordered map of scalars, sub-tables and lists.
// Scalars are stored as string, int64, float64 or bool.
type Table struct {
	keys   []string
	values map[string]any
}

// List is an ordered sequence of tables. In Lua it is a 1-indexed array with a count field.
type List struct {
	items []*Table
}

// Field is one key/value pair used with Record.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{values: make(map[string]any)}
}

// Set adds key. Integers and floats of any width are normalized to int64 and float64.
func (t *Table) Set(key string, value any) error {
	if _, ok := t.values[key]; ok {
		return fmt.Errorf("%q: %w", key, ErrDuplicateKey)
	}
	v, err := normalize(value)
	if err != nil {
		return fmt.Errorf("%q: %w", key, err)
	}
	t.keys = append(t.keys, key)
	t.values[key] = v
	return nil
}

// Record creates a sub-table holding fields and stores it under key.
func (t *Table) Record(key string, fields ...Field) (*Table, error) {
	sub := NewTable()
	for _, f := range fields {
		if err := sub.Set(f.Key, f.Value); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
	if err := t.Set(key, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Get returns the value stored under key
func (t *Table) Get(key string) (any, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Table returns the sub-table stored under key
func (t *Table) Table(key string) (*Table, bool) {
	v, ok := t.values[key].(*Table)
	return v, ok
}

// Keys returns keys in insertion order
func (t *Table) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of keys
func (t *Table) Len() int {
	return len(t.keys)
}

// NewList creates a list holding items
func NewList(items ...*Table) *List {
	return &List{items: append([]*Table(nil), items...)}
}

// Append adds item to the end of the list
func (l *List) Append(item *Table) {
	l.items = append(l.items, item)
}

// Items returns the tables in order
func (l *List) Items() []*Table {
	return append([]*Table(nil), l.items...)
}

// Len returns the number of items
func (l *List) Len() int {
	return len(l.items)
}

func normalize(value any) (any, error) {
	switch v := value.(type) {
	case string, bool, int64, float64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float32:
		return float64(v), nil
	case *Table:
		if v == nil {
			return nil, ErrUnsupportedValue
		}
		return v, nil
	case *List:
		if v == nil {
			return nil, ErrUnsupportedValue
		}
		return v, nil
	}
	return nil, fmt.Errorf("%T: %w", value, ErrUnsupportedValue)
}
