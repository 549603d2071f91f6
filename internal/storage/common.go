package storage

import (
	"errors"
)

const (
	OneKB = 1024

	// DefaultPageSize matches the 4KB pages of the catalog's .dat files.
	DefaultPageSize = OneKB * 4
)

const FileMode0644 = 0o644 // rw-r--r--

// Common errors
var (
	ErrStorageIO       = errors.New("storage: I/O error")
	ErrPageOutOfRange  = errors.New("storage: page number out of range")
	ErrWrongSize       = errors.New("storage: buffer size != page size")
	ErrInvalidPageSize = errors.New("storage: page size must be positive")
	ErrFileClosed      = errors.New("storage: file is closed")
)
