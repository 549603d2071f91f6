package heap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tuannm99/simpledb/internal/record"
)

// Encoder packs rows into heap pages and writes each page once it is full.
// Flush writes the trailing partial page, so the output is always a whole
// number of pages.
type Encoder struct {
	w        io.Writer
	schema   record.Schema
	pageSize int
	slots    int
	pending  [][]any
	pages    int
}

func NewEncoder(w io.Writer, schema record.Schema, pageSize int) (*Encoder, error) {
	slots := SlotsPerPage(schema.Size(), pageSize)
	if slots == 0 {
		return nil, fmt.Errorf("%w: tuple %d bytes, page %d bytes", ErrTupleTooLarge, schema.Size(), pageSize)
	}
	return &Encoder{w: w, schema: schema, pageSize: pageSize, slots: slots}, nil
}

func (e *Encoder) Write(row []any) error {
	e.pending = append(e.pending, row)
	if len(e.pending) == e.slots {
		return e.emit()
	}
	return nil
}

func (e *Encoder) Flush() error {
	if len(e.pending) == 0 {
		return nil
	}
	return e.emit()
}

// Pages is the number of pages written so far.
func (e *Encoder) Pages() int { return e.pages }

func (e *Encoder) emit() error {
	buf, err := EncodePage(e.schema, e.pageSize, e.pending)
	if err != nil {
		return fmt.Errorf("page %d: %w", e.pages, err)
	}
	if _, err := e.w.Write(buf); err != nil {
		return err
	}
	e.pending = e.pending[:0]
	e.pages++
	return nil
}

// Encode writes rows as a heap file and returns the page count.
func Encode(w io.Writer, schema record.Schema, pageSize int, rows [][]any) (int, error) {
	enc, err := NewEncoder(w, schema, pageSize)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		if err := enc.Write(row); err != nil {
			return enc.Pages(), err
		}
	}
	if err := enc.Flush(); err != nil {
		return enc.Pages(), err
	}
	return enc.Pages(), nil
}

// ReadRows parses delimited text, one tuple per line, converting each field
// to the schema's type. Fields are trimmed; blank lines are skipped.
func ReadRows(r io.Reader, schema record.Schema, sep rune) ([][]any, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = schema.NumFields()
	cr.TrimLeadingSpace = true

	cols := schema.Columns()
	var rows [][]any
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := make([]any, len(fields))
		for i, f := range fields {
			f = strings.TrimSpace(f)
			line, _ := cr.FieldPos(i)
			switch cols[i].Type {
			case record.ColInt:
				n, err := strconv.ParseInt(f, 10, 32)
				if err != nil {
					return nil, fmt.Errorf("line %d field %d: %w", line, i, err)
				}
				row[i] = int32(n)
			case record.ColString:
				if len(f) > record.StringLen {
					return nil, fmt.Errorf("line %d field %d: %w", line, i, record.ErrVarTooLong)
				}
				row[i] = f
			default:
				return nil, record.ErrUnsupportedType
			}
		}
		rows = append(rows, row)
	}
}
