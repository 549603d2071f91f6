package executor

import (
	"context"

	"github.com/tuannm99/simpledb/internal/heap"
	"github.com/tuannm99/simpledb/internal/record"
	"github.com/tuannm99/simpledb/internal/txn"
)

// nullName stands in for a missing alias or field name in display schemas.
const nullName = "null"

// SeqScan reads every tuple of one table in storage order. Field names in
// its schema are qualified as alias.field.
type SeqScan struct {
	tables  Tables
	tid     txn.ID
	tableID int32
	alias   string // "" when absent

	file   heap.DbFile
	it     heap.DbFileIterator
	schema record.Schema
}

var _ OpIterator = (*SeqScan)(nil)

// NewSeqScan binds a scan of tableID under alias for tid. An empty alias
// renders as "null" in the schema.
func NewSeqScan(tables Tables, tid txn.ID, tableID int32, alias string) (*SeqScan, error) {
	s := &SeqScan{tables: tables, tid: tid}
	if err := s.Reset(tableID, alias); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSeqScanDefaultAlias uses the table's catalog name as the alias.
func NewSeqScanDefaultAlias(tables Tables, tid txn.ID, tableID int32) (*SeqScan, error) {
	name, err := tables.TableName(tableID)
	if err != nil {
		return nil, err
	}
	return NewSeqScan(tables, tid, tableID, name)
}

// Reset rebinds the scan to another table and alias. The new iterator starts
// closed.
func (s *SeqScan) Reset(tableID int32, alias string) error {
	f, err := s.tables.DatabaseFile(tableID)
	if err != nil {
		return err
	}
	if s.it != nil {
		s.it.Close()
	}

	s.tableID = tableID
	s.alias = alias
	s.file = f
	s.it = f.Iterator(s.tid)
	s.schema = qualify(f.Schema(), alias)
	return nil
}

func qualify(base record.Schema, alias string) record.Schema {
	prefix := alias
	if prefix == "" {
		prefix = nullName
	}
	cols := base.Columns()
	for i, c := range cols {
		cols[i] = record.Col(prefix+"."+c.DisplayName(), c.Type)
	}
	return record.SchemaOf(cols...)
}

func (s *SeqScan) Alias() string { return s.alias }

// TableName asks the catalog on every call, so it reflects renames and
// evictions made after the scan was bound.
func (s *SeqScan) TableName() (string, error) {
	return s.tables.TableName(s.tableID)
}

func (s *SeqScan) TableID() int32 { return s.tableID }

func (s *SeqScan) Schema() record.Schema { return s.schema }

func (s *SeqScan) Open(ctx context.Context) error { return s.it.Open(ctx) }

func (s *SeqScan) HasNext(ctx context.Context) (bool, error) { return s.it.HasNext(ctx) }

func (s *SeqScan) Next(ctx context.Context) (*record.Tuple, error) { return s.it.Next(ctx) }

func (s *SeqScan) Rewind(ctx context.Context) error { return s.it.Rewind(ctx) }

func (s *SeqScan) Close() { s.it.Close() }
