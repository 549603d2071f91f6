package record

import (
	"errors"
	"fmt"
	"strings"
)

// StringLen is the fixed payload width of a string field; shorter values are
// zero padded, longer ones rejected.
const StringLen = 128

type ColumnType uint8

const (
	ColInt    ColumnType = iota + 1 // int32, 4 bytes big-endian
	ColString                       // u32 length + StringLen bytes
)

var (
	ErrUnsupportedType = errors.New("record: unsupported column type")
	ErrFieldNotFound   = errors.New("record: field not found")
	ErrSchemaMismatch  = errors.New("record: schema/values mismatch")
	ErrBadBuffer       = errors.New("record: buffer underflow")
	ErrVarTooLong      = errors.New("record: string exceeds fixed length")
)

// Len is the serialized width in bytes.
func (t ColumnType) Len() int {
	switch t {
	case ColInt:
		return 4
	case ColString:
		return 4 + StringLen
	default:
		return 0
	}
}

func (t ColumnType) String() string {
	switch t {
	case ColInt:
		return "int"
	case ColString:
		return "string"
	default:
		return "unknown"
	}
}

// ParseColumnType accepts "int" or "string" in any case.
func ParseColumnType(s string) (ColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int":
		return ColInt, nil
	case "string":
		return ColString, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, s)
	}
}
