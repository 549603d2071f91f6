package record

import (
	"fmt"
	"slices"
	"strings"
)

// Column is one (type, name) field. Unnamed marks an absent name, which is
// distinct from the empty string and never matches a lookup.
type Column struct {
	Name    string
	Type    ColumnType
	Unnamed bool
}

func Col(name string, t ColumnType) Column { return Column{Name: name, Type: t} }

func AnonCol(t ColumnType) Column { return Column{Type: t, Unnamed: true} }

// DisplayName renders an absent name as "null".
func (c Column) DisplayName() string {
	if c.Unnamed {
		return "null"
	}
	return c.Name
}

func (c Column) String() string {
	return fmt.Sprintf("%s(%s)", c.Type, c.DisplayName())
}

// Schema is an immutable ordered list of columns.
type Schema struct {
	cols []Column
	size int
}

// NewSchema pairs types with names position by position. A nil names slice
// yields unnamed columns.
func NewSchema(types []ColumnType, names []string) (Schema, error) {
	if names != nil && len(names) != len(types) {
		return Schema{}, fmt.Errorf("%w: %d types, %d names", ErrSchemaMismatch, len(types), len(names))
	}
	cols := make([]Column, len(types))
	for i, t := range types {
		if t.Len() == 0 {
			return Schema{}, fmt.Errorf("%w: field %d", ErrUnsupportedType, i)
		}
		if names == nil {
			cols[i] = AnonCol(t)
		} else {
			cols[i] = Col(names[i], t)
		}
	}
	return SchemaOf(cols...), nil
}

func SchemaOf(cols ...Column) Schema {
	s := Schema{cols: slices.Clone(cols)}
	for _, c := range s.cols {
		s.size += c.Type.Len()
	}
	return s
}

func (s Schema) NumFields() int { return len(s.cols) }

// Size is the byte width of one tuple under this schema.
func (s Schema) Size() int { return s.size }

func (s Schema) Columns() []Column { return slices.Clone(s.cols) }

func (s Schema) Field(i int) (Column, error) {
	if i < 0 || i >= len(s.cols) {
		return Column{}, fmt.Errorf("%w: index %d of %d", ErrFieldNotFound, i, len(s.cols))
	}
	return s.cols[i], nil
}

// FieldName returns "" for an unnamed column; use Field to tell the two apart.
func (s Schema) FieldName(i int) (string, error) {
	c, err := s.Field(i)
	if err != nil {
		return "", err
	}
	return c.Name, nil
}

func (s Schema) FieldType(i int) (ColumnType, error) {
	c, err := s.Field(i)
	if err != nil {
		return 0, err
	}
	return c.Type, nil
}

// FieldIndex returns the first column named name.
func (s Schema) FieldIndex(name string) (int, error) {
	for i, c := range s.cols {
		if !c.Unnamed && c.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
}

// Merge returns a's columns followed by b's. Names are not deduplicated.
func Merge(a, b Schema) Schema {
	cols := make([]Column, 0, len(a.cols)+len(b.cols))
	cols = append(cols, a.cols...)
	cols = append(cols, b.cols...)
	return Schema{cols: cols, size: a.size + b.size}
}

// Equal compares column by column, in order.
func (s Schema) Equal(o Schema) bool {
	return slices.Equal(s.cols, o.cols)
}

func (s Schema) String() string {
	parts := make([]string, len(s.cols))
	for i, c := range s.cols {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
