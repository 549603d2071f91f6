package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/simpledb/internal"
	"github.com/tuannm99/simpledb/internal/bufferpool"
	"github.com/tuannm99/simpledb/internal/catalog"
	"github.com/tuannm99/simpledb/internal/heap"
	"github.com/tuannm99/simpledb/internal/record"
	"github.com/tuannm99/simpledb/internal/storage"
)

func writeTable(t *testing.T, path string, schema record.Schema, pageSize int, rows [][]any) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = heap.Encode(f, schema, pageSize, rows)
	require.NoError(t, err)
}

func newTestDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.txt"),
		[]byte("employee (id int pk, name string)\ndept (id int, title string)\n"), 0o644))

	schema := record.SchemaOf(record.Col("id", record.ColInt), record.Col("name", record.ColString))
	writeTable(t, filepath.Join(dir, "employee.dat"), schema, 1024, [][]any{
		{int32(1), "ada"}, {int32(2), "bob"}, {int32(3), "cy"}, {int32(4), "dee"}, {int32(5), "eve"},
		{int32(6), "fay"}, {int32(7), "gus"}, {int32(8), "hal"}, {int32(9), "ivy"},
	})

	cfg := internal.DefaultConfig()
	cfg.Storage.Workdir = dir
	cfg.Storage.PageSize = 1024
	cfg.Storage.CatalogFile = "catalog.txt"
	cfg.BufferPool.Capacity = 2
	cfg.BufferPool.Replacer = bufferpool.ReplacerLRU

	db, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_LoadsCatalog(t *testing.T) {
	db := newTestDB(t)
	tables := db.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, "dept", tables[0].Name)
	assert.Equal(t, "employee", tables[1].Name)
	assert.Equal(t, "id", tables[1].PrimaryKey)
}

func TestScan_ReadsAcrossEvictions(t *testing.T) {
	db := newTestDB(t)

	res, err := db.Scan(context.Background(), "employee", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"employee.id", "employee.name"}, res.Columns)
	require.Len(t, res.Rows, 9)
	assert.Equal(t, []any{int32(9), "ivy"}, res.Rows[8])
	assert.LessOrEqual(t, db.Pool.Len(), 2)

	res, err = db.Scan(context.Background(), "dept", "d")
	require.NoError(t, err)
	assert.Equal(t, []string{"d.id", "d.title"}, res.Columns)
	assert.Empty(t, res.Rows)
}

func TestScan_ReleasesLocksOnCommit(t *testing.T) {
	db := newTestDB(t)
	tid := db.Begin()
	scan, err := db.NewScan(tid, "employee", "e")
	require.NoError(t, err)
	require.NoError(t, scan.Open(context.Background()))

	id, err := db.Catalog.TableID("employee")
	require.NoError(t, err)
	pid := firstPage(id)
	assert.True(t, db.Pool.HoldsLock(tid, pid))

	scan.Close()
	db.Commit(tid)
	assert.False(t, db.Pool.HoldsLock(tid, pid))
}

func TestScan_UnknownTable(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Scan(context.Background(), "nope", "")
	assert.ErrorIs(t, err, catalog.ErrTableNotFound)
}

func TestOpen_BadCatalog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.txt"), []byte("t (id blob)\n"), 0o644))

	cfg := internal.DefaultConfig()
	cfg.Storage.Workdir = dir
	cfg.Storage.CatalogFile = "catalog.txt"
	_, err := Open(cfg)
	var pe *catalog.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestClose(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())
	_, err := db.NewScan(db.Begin(), "employee", "")
	assert.ErrorIs(t, err, ErrDatabaseClosed)
}

func firstPage(tableID int32) storage.PageID { return storage.NewPageID(tableID, 0) }

func TestPage(t *testing.T) {
	db := newTestDB(t)
	hp, err := db.Page(context.Background(), "employee", 1)
	require.NoError(t, err)
	assert.Equal(t, 7, hp.NumSlots())
	assert.Equal(t, 5, hp.NumEmptySlots())

	_, err = db.Page(context.Background(), "employee", 2)
	assert.ErrorIs(t, err, storage.ErrPageOutOfRange)
}
