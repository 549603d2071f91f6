package catalog

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tuannm99/simpledb/internal/heap"
	"github.com/tuannm99/simpledb/internal/record"
)

// Catalog file format, one table per line:
//
//	name (field type [pk], field type [pk], ...)
//
// type is int or string, case-insensitive. Each table's data lives in
// <name>.dat next to the catalog file.

type tableDef struct {
	name       string
	schema     record.Schema
	primaryKey string
}

// LoadSchema registers every table described in the catalog file at path.
// It stops at the first bad line and returns a *ParseError; tables from the
// lines before it stay registered.
func (c *Catalog) LoadSchema(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	f, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("catalog: open %s: %w", abs, err)
	}
	defer f.Close()

	c.mu.RLock()
	pages, pageSize := c.pages, c.pageSize
	c.mu.RUnlock()

	dir := filepath.Dir(abs)
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		def, err := parseTableLine(text)
		if err != nil {
			return &ParseError{Path: abs, Line: lineNo, Text: text, Err: err}
		}

		hf, err := heap.OpenHeapFile(filepath.Join(dir, def.name+".dat"), def.schema, pageSize, pages)
		if err != nil {
			return &ParseError{Path: abs, Line: lineNo, Text: text, Err: err}
		}
		c.AddTable(hf, def.name, def.primaryKey)
		slog.Info("catalog: added table", "name", def.name, "id", hf.ID(), "schema", def.schema.String())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("catalog: read %s: %w", abs, err)
	}
	return nil
}

func parseTableLine(line string) (tableDef, error) {
	open := strings.IndexByte(line, '(')
	end := strings.LastIndexByte(line, ')')
	if open < 0 || end < open {
		return tableDef{}, ErrMalformedLine
	}

	def := tableDef{name: strings.TrimSpace(line[:open])}
	var (
		types []record.ColumnType
		names []string
	)
	fields := strings.Split(line[open+1:end], ",")
	// trailing empty fields are dropped: "t (a int, b string,)" is accepted
	for len(fields) > 1 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	for _, field := range fields {
		tok := strings.Fields(field)
		switch {
		case len(tok) == 0:
			return tableDef{}, ErrMalformedLine
		case len(tok) == 1:
			return tableDef{}, fmt.Errorf("%w: %q", ErrMissingType, tok[0])
		case len(tok) > 3:
			return tableDef{}, fmt.Errorf("%w: %q", ErrMalformedLine, strings.TrimSpace(field))
		}

		t, err := record.ParseColumnType(tok[1])
		if err != nil {
			return tableDef{}, fmt.Errorf("%w: %q", ErrUnknownType, tok[1])
		}
		if len(tok) == 3 {
			if tok[2] != "pk" {
				return tableDef{}, fmt.Errorf("%w: %q", ErrUnknownAnnotation, tok[2])
			}
			if def.primaryKey != "" {
				return tableDef{}, fmt.Errorf("%w: %q and %q", ErrDuplicatePrimaryKey, def.primaryKey, tok[0])
			}
			def.primaryKey = tok[0]
		}
		types = append(types, t)
		names = append(names, tok[0])
	}

	schema, err := record.NewSchema(types, names)
	if err != nil {
		return tableDef{}, err
	}
	def.schema = schema
	return def, nil
}
