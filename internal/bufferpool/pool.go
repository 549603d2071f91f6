package bufferpool

// Pool is the page-acquisition service: every page a transaction touches goes
// through GetPage, which takes the page lock first and then serves the page
// from a fixed set of frames, loading it from the owning file on a miss.
//
// Pages locked exclusively are never evicted (no steal). Everything else is
// fair game for the CLOCK replacer.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sasha-s/go-deadlock"

	locking "github.com/tuannm99/simpledb/internal/lock"
	"github.com/tuannm99/simpledb/internal/storage"
	"github.com/tuannm99/simpledb/internal/txn"
)

var (
	DefaultCapacity = 50

	ErrNoFreeFrame = errors.New("bufferpool: no free frame available (all pages locked exclusively)")
	ErrWrongPage   = errors.New("bufferpool: file returned a different page than requested")
)

type Frame struct {
	PageID storage.PageID
	Page   storage.Page
}

type Pool struct {
	resolver Resolver
	locks    *locking.Manager

	mu        deadlock.Mutex
	frames    []*Frame               // len == capacity, nil == free slot
	pageTable map[storage.PageID]int // PageID -> frame index
	repl      Replacer
}

// Replacement policies accepted by NewReplacer.
const (
	ReplacerClock = "clock"
	ReplacerLRU   = "lru"
)

// NewReplacer builds the named policy for capacity frames. Empty means clock.
func NewReplacer(kind string, capacity int) (Replacer, error) {
	switch kind {
	case "", ReplacerClock:
		return newClockAdapter(capacity), nil
	case ReplacerLRU:
		return newLRUAdapter(), nil
	default:
		return nil, fmt.Errorf("bufferpool: unknown replacer %q", kind)
	}
}

type Option func(*Pool)

// WithReplacer swaps the default CLOCK policy.
func WithReplacer(r Replacer) Option {
	return func(p *Pool) { p.repl = r }
}

func NewPool(resolver Resolver, capacity int, locks *locking.Manager, opts ...Option) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if locks == nil {
		locks = locking.NewManager(locking.DefaultTimeout)
	}
	p := &Pool{
		resolver:  resolver,
		locks:     locks,
		frames:    make([]*Frame, capacity),
		pageTable: make(map[storage.PageID]int),
		repl:      newClockAdapter(capacity),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pool) Capacity() int { return len(p.frames) }

// Len is the number of cached pages.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pageTable)
}

// GetPage locks pid for tid in the mode perm requires and returns the page.
// Lock failures surface as txn.ErrAborted.
func (p *Pool) GetPage(ctx context.Context, tid txn.ID, pid storage.PageID, perm txn.Permissions) (storage.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", txn.ErrAborted, err)
	}
	mode := locking.ModeFor(perm)
	if err := p.locks.Acquire(ctx, tid, pid, mode); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// 1) HIT
	if idx, ok := p.pageTable[pid]; ok {
		if f := p.frames[idx]; f != nil {
			p.repl.RecordAccess(idx)
			p.repl.SetEvictable(idx, mode == locking.Shared && !p.locks.ExclusivelyHeld(pid))
			return f.Page, nil
		}
		// mapping without frame: drop it and reload
		delete(p.pageTable, pid)
	}

	// 2) free slot, else 3) evict
	idx := -1
	for i, f := range p.frames {
		if f == nil {
			idx = i
			break
		}
	}
	if idx == -1 {
		victim, ok := p.repl.Evict()
		if !ok {
			return nil, ErrNoFreeFrame
		}
		old := p.frames[victim]
		slog.Debug("bufferpool: evict", "page", old.PageID, "frame", victim)
		delete(p.pageTable, old.PageID)
		p.frames[victim] = nil
		idx = victim
	}

	page, err := p.load(pid)
	if err != nil {
		return nil, err
	}

	p.frames[idx] = &Frame{PageID: pid, Page: page}
	p.pageTable[pid] = idx
	p.repl.RecordAccess(idx)
	p.repl.SetEvictable(idx, mode == locking.Shared)
	return page, nil
}

func (p *Pool) load(pid storage.PageID) (storage.Page, error) {
	r, err := p.resolver.PageReader(pid.TableID)
	if err != nil {
		return nil, fmt.Errorf("bufferpool: resolve %s: %w", pid, err)
	}
	page, err := r.ReadPage(pid)
	if err != nil {
		return nil, err
	}
	if page.ID() != pid {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrWrongPage, pid, page.ID())
	}
	return page, nil
}

// ReleasePage drops tid's lock on pid without ending the transaction.
func (p *Pool) ReleasePage(tid txn.ID, pid storage.PageID) {
	p.locks.Release(tid, pid)
	p.refreshEvictable(pid)
}

func (p *Pool) HoldsLock(tid txn.ID, pid storage.PageID) bool {
	return p.locks.Holds(tid, pid)
}

// TransactionComplete releases every lock tid holds.
func (p *Pool) TransactionComplete(tid txn.ID) {
	for _, pid := range p.locks.ReleaseAll(tid) {
		p.refreshEvictable(pid)
	}
}

// DiscardPage removes pid from the cache without writing it anywhere.
func (p *Pool) DiscardPage(pid storage.PageID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.pageTable[pid]
	if !ok {
		return
	}
	delete(p.pageTable, pid)
	p.frames[idx] = nil
	p.repl.Remove(idx)
}

func (p *Pool) refreshEvictable(pid storage.PageID) {
	excl := p.locks.ExclusivelyHeld(pid)

	p.mu.Lock()
	defer p.mu.Unlock()
	if idx, ok := p.pageTable[pid]; ok {
		p.repl.SetEvictable(idx, !excl)
	}
}
