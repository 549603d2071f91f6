// Package shell runs the command language shared by the local REPL and the
// wire server.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tuannm99/simpledb/internal/engine"
)

// Reply is the outcome of one command: a table, free text, or a request
// to end the session.
type Reply struct {
	Columns []string `json:"columns,omitempty"`
	Rows    [][]any  `json:"rows,omitempty"`
	Text    string   `json:"text,omitempty"`
	Quit    bool     `json:"quit,omitempty"`
}

const Help = `commands:
  \dt                    list tables
  \d <table>             describe a table
  scan <table> [alias]   print every row of a table
  \page <table> <n>      dump page n of a table
  \help                  show help
  \q | quit | exit       quit`

var ErrUnknownCommand = errors.New("shell: unknown command")

type Shell struct {
	db *engine.Database
}

func New(db *engine.Database) *Shell { return &Shell{db: db} }

// Exec runs one command line. A trailing ';' is ignored.
func (sh *Shell) Exec(ctx context.Context, line string) (*Reply, error) {
	fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(line), ";"))
	if len(fields) == 0 {
		return &Reply{}, nil
	}

	switch strings.ToLower(fields[0]) {
	case `\q`, "quit", "exit":
		return &Reply{Quit: true}, nil
	case `\help`:
		return &Reply{Text: Help}, nil
	case `\dt`:
		return sh.listTables(), nil
	case `\d`:
		if len(fields) != 2 {
			return nil, errors.New(`usage: \d <table>`)
		}
		return sh.describe(fields[1])
	case `\page`:
		if len(fields) != 3 {
			return nil, errors.New(`usage: \page <table> <n>`)
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("page number: %w", err)
		}
		hp, err := sh.db.Page(ctx, fields[1], n)
		if err != nil {
			return nil, err
		}
		var b bytes.Buffer
		if err := hp.Debug(&b); err != nil {
			return nil, err
		}
		return &Reply{Text: b.String()}, nil
	case "scan":
		if len(fields) < 2 || len(fields) > 3 {
			return nil, errors.New("usage: scan <table> [alias]")
		}
		alias := ""
		if len(fields) == 3 {
			alias = fields[2]
		}
		res, err := sh.db.Scan(ctx, fields[1], alias)
		if err != nil {
			return nil, err
		}
		return &Reply{Columns: res.Columns, Rows: res.Rows}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
}

func (sh *Shell) listTables() *Reply {
	r := &Reply{Columns: []string{"name", "id", "pages"}}
	for _, t := range sh.db.Tables() {
		n, err := t.File.NumPages()
		if err != nil {
			n = -1
		}
		r.Rows = append(r.Rows, []any{t.Name, t.ID(), n})
	}
	return r
}

func (sh *Shell) describe(table string) (*Reply, error) {
	id, err := sh.db.Catalog.TableID(table)
	if err != nil {
		return nil, err
	}
	t, err := sh.db.Catalog.Table(id)
	if err != nil {
		return nil, err
	}
	r := &Reply{Columns: []string{"column", "type", "key"}}
	for _, c := range t.Schema().Columns() {
		key := ""
		if !c.Unnamed && c.Name == t.PrimaryKey {
			key = "pk"
		}
		r.Rows = append(r.Rows, []any{c.DisplayName(), c.Type.String(), key})
	}
	return r, nil
}
