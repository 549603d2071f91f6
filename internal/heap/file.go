package heap

import (
	"fmt"

	"github.com/spaolacci/murmur3"

	"github.com/tuannm99/simpledb/internal/record"
	"github.com/tuannm99/simpledb/internal/storage"
	"github.com/tuannm99/simpledb/internal/txn"
)

// HeapFile stores a table's tuples in no particular order, as a flat
// sequence of fixed-size pages. It is read-only: it does not implement Mutator.
type HeapFile struct {
	id     int32
	file   storage.File
	schema record.Schema
	sm     *storage.StorageManager
	pages  PageSource
}

var _ DbFile = (*HeapFile)(nil)

// TableIDFor derives the table id from a file's identity. The same path
// always gives the same id; distinct paths may in principle collide.
func TableIDFor(path string) int32 {
	h := murmur3.New32()
	_, _ = h.Write([]byte(path))
	return int32(h.Sum32())
}

// NewHeapFile wraps f. pages is the service the iterator fetches through.
func NewHeapFile(f storage.File, schema record.Schema, pageSize int, pages PageSource) (*HeapFile, error) {
	sm, err := storage.NewStorageManager(pageSize)
	if err != nil {
		return nil, err
	}
	if SlotsPerPage(schema.Size(), pageSize) == 0 {
		return nil, fmt.Errorf("%w: tuple %d bytes, page %d bytes", ErrTupleTooLarge, schema.Size(), pageSize)
	}
	return &HeapFile{
		id:     TableIDFor(f.Path()),
		file:   f,
		schema: schema,
		sm:     sm,
		pages:  pages,
	}, nil
}

// OpenHeapFile backs the heap file with the OS file at path. The file need not
// exist yet; until it does the table has no pages.
func OpenHeapFile(path string, schema record.Schema, pageSize int, pages PageSource) (*HeapFile, error) {
	f, err := storage.NewDiskFile(path)
	if err != nil {
		return nil, err
	}
	return NewHeapFile(f, schema, pageSize, pages)
}

func (hf *HeapFile) ID() int32 { return hf.id }

func (hf *HeapFile) Path() string { return hf.file.Path() }

func (hf *HeapFile) Schema() record.Schema { return hf.schema }

func (hf *HeapFile) PageSize() int { return hf.sm.PageSize() }

// NumPages is floor(file length / page size).
func (hf *HeapFile) NumPages() (int, error) {
	return hf.sm.CountPages(hf.file)
}

// ReadPage reads page pid.PageNo at byte offset PageNo*pageSize. It is the
// buffer pool's loader; operators go through the pool instead.
func (hf *HeapFile) ReadPage(pid storage.PageID) (storage.Page, error) {
	if pid.TableID != hf.id {
		return nil, fmt.Errorf("%w: %s, file %d", ErrWrongTable, pid, hf.id)
	}
	data, err := hf.sm.LoadPage(hf.file, pid.PageNo)
	if err != nil {
		return nil, err
	}
	return NewHeapPage(pid, data, hf.schema)
}

func (hf *HeapFile) Iterator(tid txn.ID) DbFileIterator {
	return newFileIterator(hf, tid)
}

func (hf *HeapFile) Close() error {
	return hf.file.Close()
}
