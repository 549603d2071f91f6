package heap

import (
	"context"
	"fmt"

	"github.com/tuannm99/simpledb/internal/record"
	"github.com/tuannm99/simpledb/internal/storage"
	"github.com/tuannm99/simpledb/internal/txn"
)

// DbFile is a table's storage handle as seen by the catalog and operators.
type DbFile interface {
	// ID is the table id; the buffer pool keys pages by it.
	ID() int32
	Schema() record.Schema
	NumPages() (int, error)
	ReadPage(pid storage.PageID) (storage.Page, error)
	// Iterator returns an unopened cursor over every tuple, bound to tid.
	Iterator(tid txn.ID) DbFileIterator
}

// DbFileIterator is the open/hasNext/next/rewind/close protocol.
type DbFileIterator interface {
	Open(ctx context.Context) error
	HasNext(ctx context.Context) (bool, error)
	Next(ctx context.Context) (*record.Tuple, error)
	Rewind(ctx context.Context) error
	Close()
}

// Mutator is the write capability. Files that cannot be modified do not
// implement it; check with AsMutator instead of calling blindly.
type Mutator interface {
	InsertTuple(ctx context.Context, tid txn.ID, t *record.Tuple) ([]storage.Page, error)
	DeleteTuple(ctx context.Context, tid txn.ID, t *record.Tuple) ([]storage.Page, error)
	WritePage(p storage.Page) error
}

func AsMutator(f DbFile) (Mutator, error) {
	m, ok := f.(Mutator)
	if !ok {
		return nil, fmt.Errorf("%w: table %d", ErrReadOnly, f.ID())
	}
	return m, nil
}

// PageSource hands out pages under a transaction; bufferpool.Pool implements it.
type PageSource interface {
	GetPage(ctx context.Context, tid txn.ID, pid storage.PageID, perm txn.Permissions) (storage.Page, error)
}
