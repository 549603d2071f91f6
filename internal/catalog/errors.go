package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrTableNotFound = errors.New("catalog: table not found")

	ErrMalformedLine       = errors.New("catalog: malformed table line")
	ErrMissingType         = errors.New("catalog: field has no type")
	ErrUnknownType         = errors.New("catalog: unknown field type")
	ErrUnknownAnnotation   = errors.New("catalog: unknown field annotation")
	ErrDuplicatePrimaryKey = errors.New("catalog: more than one pk field")
)

// ParseError reports the catalog file line that could not be loaded.
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v: %q", e.Path, e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }
