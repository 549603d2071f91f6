package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dsnet/golib/memfile"
	"github.com/sasha-s/go-deadlock"
)

// File is the random-access byte source behind a page file.
type File interface {
	io.ReaderAt
	io.Closer
	// Size is the current length in bytes.
	Size() (int64, error)
	// Path is the identity of the file; for disk files it is absolute.
	Path() string
}

var (
	_ File = (*DiskFile)(nil)
	_ File = (*MemFile)(nil)
)

// DiskFile keeps a single long-lived read handle on an OS file.
// The handle is opened on first access so a table may be registered before
// its data file exists; a missing file reports size 0.
type DiskFile struct {
	path string

	mu     deadlock.Mutex
	f      *os.File
	closed bool
}

func NewDiskFile(path string) (*DiskFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", path, err)
	}
	return &DiskFile{path: abs}, nil
}

func (d *DiskFile) Path() string { return d.path }

// handle returns the open handle, opening it if needed. ok=false means the
// file does not exist yet.
func (d *DiskFile) handle() (f *os.File, ok bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, false, ErrFileClosed
	}
	if d.f != nil {
		return d.f, true, nil
	}

	f, err = os.Open(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %w", ErrStorageIO, err)
	}
	d.f = f
	return f, true, nil
}

func (d *DiskFile) Size() (int64, error) {
	f, ok, err := d.handle()
	if err != nil || !ok {
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageIO, err)
	}
	return info.Size(), nil
}

func (d *DiskFile) ReadAt(p []byte, off int64) (int, error) {
	f, ok, err := d.handle()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, io.EOF
	}
	return f.ReadAt(p, off)
}

func (d *DiskFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

// MemFile is an in-memory File, used for virtual tables and tests.
type MemFile struct {
	name string
	f    *memfile.File
}

func NewMemFile(name string, data []byte) *MemFile {
	return &MemFile{name: name, f: memfile.New(data)}
}

func (m *MemFile) Path() string { return "mem://" + m.name }

func (m *MemFile) Size() (int64, error) { return int64(len(m.f.Bytes())), nil }

func (m *MemFile) ReadAt(p []byte, off int64) (int, error) { return m.f.ReadAt(p, off) }

// Close is a no-op; the contents stay readable.
func (m *MemFile) Close() error { return nil }
