package storage

import (
	"errors"
	"fmt"
	"io"
)

// StorageManager maps a page number to its byte range inside a flat page file.
// It holds no file state; the File passed in owns the handle.
type StorageManager struct {
	pageSize int
}

func NewStorageManager(pageSize int) (*StorageManager, error) {
	if pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}
	return &StorageManager{pageSize: pageSize}, nil
}

func (sm *StorageManager) PageSize() int { return sm.pageSize }

func (sm *StorageManager) locate(pageNo int) int64 {
	return int64(pageNo) * int64(sm.pageSize)
}

// CountPages returns floor(size / pageSize). Trailing bytes that do not fill
// a whole page are not addressable.
func (sm *StorageManager) CountPages(f File) (int, error) {
	size, err := f.Size()
	if err != nil {
		return 0, err
	}
	return int(size / int64(sm.pageSize)), nil
}

// ReadPage reads exactly one page into dst. Unlike a sparse pager, a short
// read is an error: pages past the last full page do not exist.
func (sm *StorageManager) ReadPage(f File, pageNo int, dst []byte) error {
	if len(dst) != sm.pageSize {
		return fmt.Errorf("%w: got %d, want %d", ErrWrongSize, len(dst), sm.pageSize)
	}
	if pageNo < 0 {
		return fmt.Errorf("%w: %d", ErrPageOutOfRange, pageNo)
	}

	n, err := f.ReadAt(dst, sm.locate(pageNo))
	if n == sm.pageSize {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: page %d of %s: read %d of %d bytes",
			ErrPageOutOfRange, pageNo, f.Path(), n, sm.pageSize)
	}
	return fmt.Errorf("%w: page %d of %s: %w", ErrStorageIO, pageNo, f.Path(), err)
}

// LoadPage reads page pageNo into a fresh buffer.
func (sm *StorageManager) LoadPage(f File, pageNo int) ([]byte, error) {
	buf := make([]byte, sm.pageSize)
	if err := sm.ReadPage(f, pageNo, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
