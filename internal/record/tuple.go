package record

import (
	"fmt"
	"slices"
	"strings"
)

// Tuple is one row: its schema, the decoded values (int32 or string) and,
// once read from a page, where it lives.
type Tuple struct {
	schema Schema
	values []any
	rid    *RecordID
}

func NewTuple(s Schema, values []any) (*Tuple, error) {
	if len(values) != s.NumFields() {
		return nil, fmt.Errorf("%w: %d values for %d fields", ErrSchemaMismatch, len(values), s.NumFields())
	}
	for i, c := range s.cols {
		if err := checkValue(c.Type, values[i]); err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
	}
	return &Tuple{schema: s, values: slices.Clone(values)}, nil
}

func (t *Tuple) Schema() Schema { return t.schema }

func (t *Tuple) Values() []any { return slices.Clone(t.values) }

func (t *Tuple) Field(i int) (any, error) {
	if i < 0 || i >= len(t.values) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrFieldNotFound, i, len(t.values))
	}
	return t.values[i], nil
}

func (t *Tuple) RecordID() (RecordID, bool) {
	if t.rid == nil {
		return RecordID{}, false
	}
	return *t.rid, true
}

// WithRecordID returns a copy of t located at rid. t is not modified.
func (t *Tuple) WithRecordID(rid RecordID) *Tuple {
	c := *t
	c.rid = &rid
	return &c
}

// String renders values tab separated.
func (t *Tuple) String() string {
	parts := make([]string, len(t.values))
	for i, v := range t.values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, "\t")
}

func checkValue(t ColumnType, v any) error {
	switch t {
	case ColInt:
		if _, ok := v.(int32); !ok {
			return fmt.Errorf("%w: want int32, got %T", ErrSchemaMismatch, v)
		}
	case ColString:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: want string, got %T", ErrSchemaMismatch, v)
		}
		if len(s) > StringLen {
			return ErrVarTooLong
		}
	default:
		return ErrUnsupportedType
	}
	return nil
}
