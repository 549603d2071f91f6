package txn

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrAborted is raised by the page-acquisition layer when a transaction can
// not make progress (lock timeout, cancelled context). Storage and executor
// code pass it through untouched.
var ErrAborted = errors.New("txn: transaction aborted")

// ID identifies a transaction for locking purposes.
type ID int64

var lastID atomic.Int64

// NewID returns a process-unique transaction id.
func NewID() ID {
	return ID(lastID.Add(1))
}

func (id ID) String() string {
	return fmt.Sprintf("txn(%d)", int64(id))
}

// Permissions is the access mode requested with a page.
type Permissions uint8

const (
	ReadOnly Permissions = iota + 1
	ReadWrite
)

func (p Permissions) String() string {
	switch p {
	case ReadOnly:
		return "read_only"
	case ReadWrite:
		return "read_write"
	default:
		return "unknown"
	}
}
