package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/sasha-s/go-deadlock"

	"github.com/tuannm99/simpledb/internal"
	"github.com/tuannm99/simpledb/internal/bufferpool"
	"github.com/tuannm99/simpledb/internal/catalog"
	"github.com/tuannm99/simpledb/internal/executor"
	"github.com/tuannm99/simpledb/internal/heap"
	locking "github.com/tuannm99/simpledb/internal/lock"
	"github.com/tuannm99/simpledb/internal/storage"
	"github.com/tuannm99/simpledb/internal/txn"
)

var ErrDatabaseClosed = errors.New("simpledb: database is closed")

// Database ties the catalog, the buffer pool and the lock manager together.
type Database struct {
	cfg     *internal.Config
	Catalog *catalog.Catalog
	Pool    *bufferpool.Pool

	closed atomic.Bool
}

// Open builds an empty database and, when storage.catalog_file is set, loads
// the tables it describes.
func Open(cfg *internal.Config) (*Database, error) {
	if cfg == nil {
		cfg = internal.DefaultConfig()
	}
	deadlock.Opts.Disable = !cfg.Debug.DeadlockDetection

	capacity := cfg.BufferPool.Capacity
	if capacity <= 0 {
		capacity = bufferpool.DefaultCapacity
	}
	repl, err := bufferpool.NewReplacer(cfg.BufferPool.Replacer, capacity)
	if err != nil {
		return nil, err
	}

	cat := catalog.New(catalog.WithPageSize(cfg.Storage.PageSize))
	locks := locking.NewManager(cfg.BufferPool.LockTimeout)
	pool := bufferpool.NewPool(bufferpool.ResolverFunc(func(id int32) (bufferpool.PageReader, error) {
		return cat.DatabaseFile(id)
	}), capacity, locks, bufferpool.WithReplacer(repl))
	cat.SetPageSource(pool)

	db := &Database{cfg: cfg, Catalog: cat, Pool: pool}

	if path := cfg.CatalogPath(); path != "" {
		if err := cat.LoadSchema(path); err != nil {
			_ = cat.Close()
			return nil, err
		}
		slog.Info("engine: catalog loaded", "path", path, "tables", cat.Len())
	}
	return db, nil
}

func (db *Database) Config() *internal.Config { return db.cfg }

func (db *Database) Begin() txn.ID {
	tid := txn.NewID()
	slog.Debug("engine: begin", "txn", tid)
	return tid
}

// Commit releases every page lock tid holds. Nothing is written: tables
// are read-only.
func (db *Database) Commit(tid txn.ID) {
	db.Pool.TransactionComplete(tid)
	slog.Debug("engine: commit", "txn", tid)
}

// NewScan binds a sequential scan of table. An empty alias defaults to the
// table name.
func (db *Database) NewScan(tid txn.ID, table, alias string) (*executor.SeqScan, error) {
	if db.closed.Load() {
		return nil, ErrDatabaseClosed
	}
	id, err := db.Catalog.TableID(table)
	if err != nil {
		return nil, err
	}
	if alias == "" {
		return executor.NewSeqScanDefaultAlias(db.Catalog, tid, id)
	}
	return executor.NewSeqScan(db.Catalog, tid, id, alias)
}

// Scan reads a whole table in its own transaction.
func (db *Database) Scan(ctx context.Context, table, alias string) (*executor.Result, error) {
	tid := db.Begin()
	defer db.Commit(tid)

	scan, err := db.NewScan(tid, table, alias)
	if err != nil {
		return nil, err
	}
	res, err := executor.Collect(ctx, scan)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return res, nil
}

// Page fetches one page of table through the buffer pool, for inspection.
func (db *Database) Page(ctx context.Context, table string, pageNo int) (*heap.HeapPage, error) {
	id, err := db.Catalog.TableID(table)
	if err != nil {
		return nil, err
	}
	tid := db.Begin()
	defer db.Commit(tid)

	p, err := db.Pool.GetPage(ctx, tid, storage.NewPageID(id, pageNo), txn.ReadOnly)
	if err != nil {
		return nil, err
	}
	hp, ok := p.(*heap.HeapPage)
	if !ok {
		return nil, fmt.Errorf("engine: %s is %T, not a heap page", p.ID(), p)
	}
	return hp, nil
}

// Tables lists registered tables ordered by name.
func (db *Database) Tables() []catalog.Table {
	var out []catalog.Table
	for id := range db.Catalog.TableIDs() {
		t, err := db.Catalog.Table(id)
		if err != nil {
			continue // removed since the snapshot
		}
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b catalog.Table) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Close closes every table file. Calling it twice is a no-op.
func (db *Database) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return nil
	}
	return db.Catalog.Close()
}
