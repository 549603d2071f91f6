package catalog

import (
	"github.com/tuannm99/simpledb/internal/heap"
	"github.com/tuannm99/simpledb/internal/record"
)

// Table is one catalog entry.
type Table struct {
	File       heap.DbFile
	Name       string
	PrimaryKey string // empty when the table has none
}

func (t *Table) ID() int32 { return t.File.ID() }

func (t *Table) Schema() record.Schema { return t.File.Schema() }
