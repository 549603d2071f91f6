package heap

import "errors"

var (
	// ErrNoSuchElement is returned by Next when nothing is left.
	ErrNoSuchElement = errors.New("heap: no such element")
	ErrReadOnly      = errors.New("heap: file does not support mutation")
	ErrWrongTable    = errors.New("heap: page belongs to another table")
)
