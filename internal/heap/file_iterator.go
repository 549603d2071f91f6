package heap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tuannm99/simpledb/internal/record"
	"github.com/tuannm99/simpledb/internal/storage"
	"github.com/tuannm99/simpledb/internal/txn"
)

const closedCursor = -1

// FileIterator walks a heap file page by page, fetching each page read-only
// through the file's PageSource. Errors from the source, including
// txn.ErrAborted, are returned as is.
type FileIterator struct {
	file   *HeapFile
	tid    txn.ID
	cursor int // current page, closedCursor when closed
	tuples *PageIterator
}

func newFileIterator(hf *HeapFile, tid txn.ID) *FileIterator {
	return &FileIterator{file: hf, tid: tid, cursor: closedCursor}
}

func (it *FileIterator) isOpen() bool { return it.cursor != closedCursor }

// Open positions the cursor at the first tuple of page 0. A file without
// pages opens as already exhausted.
func (it *FileIterator) Open(ctx context.Context) error {
	it.cursor = 0
	it.tuples = nil

	n, err := it.file.NumPages()
	if err != nil {
		it.Close()
		return err
	}
	if n == 0 {
		return nil
	}
	if err := it.fetch(ctx, 0); err != nil {
		it.Close()
		return err
	}
	return nil
}

func (it *FileIterator) fetch(ctx context.Context, pageNo int) error {
	n, err := it.file.NumPages()
	if err != nil {
		return err
	}
	if pageNo >= n {
		return fmt.Errorf("%w: page %d of %d", storage.ErrPageOutOfRange, pageNo, n)
	}

	pid := storage.NewPageID(it.file.ID(), pageNo)
	p, err := it.file.pages.GetPage(ctx, it.tid, pid, txn.ReadOnly)
	if err != nil {
		return err
	}
	hp, ok := p.(*HeapPage)
	if !ok {
		return fmt.Errorf("heap: %s is %T, not a heap page", pid, p)
	}
	slog.Debug("heap: fetched page", "table", it.file.ID(), "page", pageNo, "txn", it.tid)
	it.tuples = hp.Iterator()
	return nil
}

// HasNext advances across pages until one has a tuple left or the last page
// is drained. A closed iterator reports false without fetching.
func (it *FileIterator) HasNext(ctx context.Context) (bool, error) {
	if !it.isOpen() {
		return false, nil
	}
	for {
		if it.tuples != nil && it.tuples.HasNext() {
			return true, nil
		}
		n, err := it.file.NumPages()
		if err != nil {
			return false, err
		}
		if it.cursor >= n-1 {
			return false, nil
		}
		it.cursor++
		if err := it.fetch(ctx, it.cursor); err != nil {
			return false, err
		}
	}
}

func (it *FileIterator) Next(ctx context.Context) (*record.Tuple, error) {
	ok, err := it.HasNext(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSuchElement
	}
	return it.tuples.Next()
}

// Rewind is Close followed by Open: page 0 is fetched again.
func (it *FileIterator) Rewind(ctx context.Context) error {
	it.Close()
	return it.Open(ctx)
}

// Close drops the page cursor. Pages stay with the page source.
func (it *FileIterator) Close() {
	it.cursor = closedCursor
	it.tuples = nil
}
