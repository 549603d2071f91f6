package catalog

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"

	"github.com/tuannm99/simpledb/internal/heap"
	"github.com/tuannm99/simpledb/internal/record"
	"github.com/tuannm99/simpledb/internal/storage"
)

// NameGenerator picks the name of a table registered without one.
type NameGenerator func(f heap.DbFile) string

// RandomNames gives every anonymous table a fresh UUID. Names are unique for
// the life of the process and differ across runs.
func RandomNames(heap.DbFile) string { return uuid.NewString() }

// FileIDNames names an anonymous table after its file id, so the same file
// gets the same name on every run.
func FileIDNames(f heap.DbFile) string {
	return "table_" + strconv.FormatUint(uint64(uint32(f.ID())), 16)
}

type Option func(*Catalog)

// WithPageSource sets the page service handed to heap files built by LoadSchema.
func WithPageSource(ps heap.PageSource) Option {
	return func(c *Catalog) { c.pages = ps }
}

func WithPageSize(n int) Option {
	return func(c *Catalog) { c.pageSize = n }
}

func WithNameGenerator(g NameGenerator) Option {
	return func(c *Catalog) { c.names = g }
}

// Catalog maps table ids to tables and names to table ids. Every id has
// exactly one name pointing back at it. Safe for concurrent use.
type Catalog struct {
	pageSize int
	pages    heap.PageSource
	names    NameGenerator

	mu     deadlock.RWMutex
	byID   map[int32]*Table
	byName map[string]int32
}

func New(opts ...Option) *Catalog {
	c := &Catalog{
		pageSize: storage.DefaultPageSize,
		names:    RandomNames,
		byID:     make(map[int32]*Table),
		byName:   make(map[string]int32),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetPageSource replaces the page service used for heap files built later.
func (c *Catalog) SetPageSource(ps heap.PageSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = ps
}

// AddTable registers f under name. A table already registered under name is
// dropped first, so the last registration of a name wins. Registering an id
// that is already present replaces that entry along with its old name.
// Dropped files other than f are closed.
func (c *Catalog) AddTable(f heap.DbFile, name, primaryKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if oldID, ok := c.byName[name]; ok {
		if old, ok := c.byID[oldID]; ok {
			closeEvicted(old.File, f)
		}
		delete(c.byID, oldID)
		delete(c.byName, name)
		slog.Debug("catalog: replaced table", "name", name, "old_id", oldID, "new_id", f.ID())
	}
	if old, ok := c.byID[f.ID()]; ok {
		closeEvicted(old.File, f)
		delete(c.byName, old.Name)
	}

	c.byID[f.ID()] = &Table{File: f, Name: name, PrimaryKey: primaryKey}
	c.byName[name] = f.ID()
}

func closeEvicted(old, repl heap.DbFile) {
	if old == repl {
		return
	}
	if cl, ok := old.(io.Closer); ok {
		if err := cl.Close(); err != nil {
			slog.Warn("catalog: close evicted table", "id", old.ID(), "err", err)
		}
	}
}

func (c *Catalog) AddNamedTable(f heap.DbFile, name string) {
	c.AddTable(f, name, "")
}

// AddAnonymousTable registers f under a generated name and returns it.
func (c *Catalog) AddAnonymousTable(f heap.DbFile) string {
	name := c.names(f)
	c.AddTable(f, name, "")
	return name
}

func (c *Catalog) lookup(id int32) (*Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrTableNotFound, id)
	}
	return t, nil
}

func (c *Catalog) TableID(name string) (int32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return id, nil
}

// Table returns the whole entry for id.
func (c *Catalog) Table(id int32) (Table, error) {
	t, err := c.lookup(id)
	if err != nil {
		return Table{}, err
	}
	return *t, nil
}

func (c *Catalog) Schema(id int32) (record.Schema, error) {
	t, err := c.lookup(id)
	if err != nil {
		return record.Schema{}, err
	}
	return t.Schema(), nil
}

func (c *Catalog) DatabaseFile(id int32) (heap.DbFile, error) {
	t, err := c.lookup(id)
	if err != nil {
		return nil, err
	}
	return t.File, nil
}

func (c *Catalog) PrimaryKey(id int32) (string, error) {
	t, err := c.lookup(id)
	if err != nil {
		return "", err
	}
	return t.PrimaryKey, nil
}

func (c *Catalog) TableName(id int32) (string, error) {
	t, err := c.lookup(id)
	if err != nil {
		return "", err
	}
	return t.Name, nil
}

// TableIDs yields the ids registered at the time of the call, in no
// particular order.
func (c *Catalog) TableIDs() iter.Seq[int32] {
	c.mu.RLock()
	ids := make([]int32, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	c.mu.RUnlock()

	return func(yield func(int32) bool) {
		for _, id := range ids {
			if !yield(id) {
				return
			}
		}
	}
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// Clear forgets every table. Files are left open; see Close.
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.byID)
	clear(c.byName)
}

// Close closes every registered file that can be closed and clears the catalog.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, t := range c.byID {
		if cl, ok := t.File.(io.Closer); ok {
			if err := cl.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", t.Name, err))
			}
		}
	}
	clear(c.byID)
	clear(c.byName)
	return errors.Join(errs...)
}
