package record

import (
	"fmt"

	"github.com/tuannm99/simpledb/internal/alias/bx"
)

// EncodeTuple writes values into dst using the fixed-width layout:
// int    -> 4 bytes big-endian
// string -> u32 length (BE) + StringLen bytes, zero padded
func EncodeTuple(s Schema, values []any, dst []byte) error {
	if len(values) != s.NumFields() {
		return ErrSchemaMismatch
	}
	if len(dst) < s.Size() {
		return ErrBadBuffer
	}

	off := 0
	for i, c := range s.cols {
		if err := checkValue(c.Type, values[i]); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
		switch c.Type {
		case ColInt:
			bx.PutI32At(dst, off, values[i].(int32))
		case ColString:
			str := values[i].(string)
			bx.PutU32At(dst, off, uint32(len(str)))
			payload := dst[off+4 : off+c.Type.Len()]
			n := copy(payload, str)
			clear(payload[n:])
		}
		off += c.Type.Len()
	}
	return nil
}

func DecodeTuple(s Schema, buf []byte) ([]any, error) {
	if len(buf) < s.Size() {
		return nil, ErrBadBuffer
	}

	out := make([]any, len(s.cols))
	off := 0
	for i, c := range s.cols {
		switch c.Type {
		case ColInt:
			out[i] = bx.I32At(buf, off)
		case ColString:
			n := int(bx.U32At(buf, off))
			if n > StringLen {
				return nil, fmt.Errorf("field %d: %w", i, ErrVarTooLong)
			}
			out[i] = string(buf[off+4 : off+4+n])
		default:
			return nil, ErrUnsupportedType
		}
		off += c.Type.Len()
	}
	return out, nil
}
