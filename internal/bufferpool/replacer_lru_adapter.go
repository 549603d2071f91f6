package bufferpool

import "github.com/tuannm99/simpledb/pkg/cache"

// lruAdapter evicts the least recently accessed evictable frame.
type lruAdapter struct {
	l         *cache.LRU[int]
	evictable map[int]bool
}

func newLRUAdapter() Replacer {
	return &lruAdapter{l: cache.NewLRU[int](), evictable: make(map[int]bool)}
}

func (a *lruAdapter) RecordAccess(frameID int) { a.l.Touch(frameID) }

func (a *lruAdapter) SetEvictable(frameID int, e bool) {
	if !a.l.Contains(frameID) {
		return
	}
	if e {
		a.evictable[frameID] = true
	} else {
		delete(a.evictable, frameID)
	}
}

func (a *lruAdapter) Evict() (int, bool) {
	id, ok := a.l.Oldest(func(id int) bool { return a.evictable[id] })
	if !ok {
		return 0, false
	}
	a.Remove(id)
	return id, true
}

func (a *lruAdapter) Remove(frameID int) {
	a.l.Remove(frameID)
	delete(a.evictable, frameID)
}

func (a *lruAdapter) Size() int { return len(a.evictable) }
