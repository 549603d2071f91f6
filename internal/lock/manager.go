package locking

// Page-level two-mode locks handed out to transactions by the buffer pool.
// A request that cannot be granted is retried until it is granted, the lock
// timeout elapses, or the caller's context is done; the last two abort the
// transaction.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sasha-s/go-deadlock"

	"github.com/tuannm99/simpledb/internal/storage"
	"github.com/tuannm99/simpledb/internal/txn"
)

const (
	DefaultTimeout      = 2 * time.Second
	DefaultPollInterval = 5 * time.Millisecond
)

type Mode int

const (
	Shared Mode = iota
	Exclusive
)

func (m Mode) String() string {
	if m == Exclusive {
		return "exclusive"
	}
	return "shared"
}

// ModeFor maps an access permission to the lock it needs.
func ModeFor(perm txn.Permissions) Mode {
	if perm == txn.ReadWrite {
		return Exclusive
	}
	return Shared
}

type pageLock struct {
	mode    Mode
	holders mapset.Set[txn.ID]
}

type Manager struct {
	timeout time.Duration
	poll    time.Duration

	mu    deadlock.Mutex
	locks map[storage.PageID]*pageLock
	held  map[txn.ID]mapset.Set[storage.PageID]
}

func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		timeout: timeout,
		poll:    DefaultPollInterval,
		locks:   make(map[storage.PageID]*pageLock),
		held:    make(map[txn.ID]mapset.Set[storage.PageID]),
	}
}

// Acquire blocks until tid holds pid in at least the requested mode.
func (m *Manager) Acquire(ctx context.Context, tid txn.ID, pid storage.PageID, mode Mode) error {
	if m.tryGrant(tid, pid, mode) {
		return nil
	}

	deadline := time.NewTimer(m.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(m.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("lock: wait cancelled", "txn", tid, "page", pid, "mode", mode)
			return fmt.Errorf("%w: %s waiting for %s: %w", txn.ErrAborted, tid, pid, ctx.Err())
		case <-deadline.C:
			slog.Warn("lock: wait timed out", "txn", tid, "page", pid, "mode", mode, "timeout", m.timeout)
			return fmt.Errorf("%w: %s timed out waiting for %s lock on %s", txn.ErrAborted, tid, mode, pid)
		case <-ticker.C:
			if m.tryGrant(tid, pid, mode) {
				return nil
			}
		}
	}
}

func (m *Manager) tryGrant(tid txn.ID, pid storage.PageID, mode Mode) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[pid]
	if !ok || l.holders.Cardinality() == 0 {
		m.locks[pid] = &pageLock{mode: mode, holders: mapset.NewThreadUnsafeSet(tid)}
		m.remember(tid, pid)
		return true
	}

	if l.holders.Contains(tid) {
		if l.mode == Exclusive || mode == Shared {
			return true
		}
		// upgrade only when nobody else shares the page
		if l.holders.Cardinality() == 1 {
			l.mode = Exclusive
			return true
		}
		return false
	}

	if l.mode == Shared && mode == Shared {
		l.holders.Add(tid)
		m.remember(tid, pid)
		return true
	}
	return false
}

func (m *Manager) remember(tid txn.ID, pid storage.PageID) {
	s, ok := m.held[tid]
	if !ok {
		s = mapset.NewThreadUnsafeSet[storage.PageID]()
		m.held[tid] = s
	}
	s.Add(pid)
}

// Release drops tid's lock on pid, if any.
func (m *Manager) Release(tid txn.ID, pid storage.PageID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release(tid, pid)
}

func (m *Manager) release(tid txn.ID, pid storage.PageID) {
	if l, ok := m.locks[pid]; ok {
		l.holders.Remove(tid)
		if l.holders.Cardinality() == 0 {
			delete(m.locks, pid)
		}
	}
	if s, ok := m.held[tid]; ok {
		s.Remove(pid)
		if s.Cardinality() == 0 {
			delete(m.held, tid)
		}
	}
}

// ReleaseAll drops every lock tid holds and returns the pages it held.
func (m *Manager) ReleaseAll(tid txn.ID) []storage.PageID {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.held[tid]
	if !ok {
		return nil
	}
	pages := s.ToSlice()
	for _, pid := range pages {
		m.release(tid, pid)
	}
	return pages
}

func (m *Manager) Holds(tid txn.ID, pid storage.PageID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[pid]
	return ok && l.holders.Contains(tid)
}

// ExclusivelyHeld reports whether some transaction holds pid in exclusive mode.
func (m *Manager) ExclusivelyHeld(pid storage.PageID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[pid]
	return ok && l.mode == Exclusive && l.holders.Cardinality() > 0
}
