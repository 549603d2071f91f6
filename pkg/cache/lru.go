package cache

import (
	"container/list"

	"github.com/sasha-s/go-deadlock"
)

// LRU orders keys by last use. The front is the most recent.
type LRU[K comparable] struct {
	mu    deadlock.Mutex
	order *list.List
	elems map[K]*list.Element
}

func NewLRU[K comparable]() *LRU[K] {
	return &LRU[K]{
		order: list.New(),
		elems: make(map[K]*list.Element),
	}
}

// Touch marks k as most recently used, adding it if absent.
func (l *LRU[K]) Touch(k K) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.elems[k]; ok {
		l.order.MoveToFront(e)
		return
	}
	l.elems[k] = l.order.PushFront(k)
}

func (l *LRU[K]) Remove(k K) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.elems[k]; ok {
		l.order.Remove(e)
		delete(l.elems, k)
	}
}

// Oldest returns the least recently used key accepted by keep, walking from
// the back. It does not remove it.
func (l *LRU[K]) Oldest(keep func(K) bool) (K, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for e := l.order.Back(); e != nil; e = e.Prev() {
		k := e.Value.(K)
		if keep == nil || keep(k) {
			return k, true
		}
	}
	var zero K
	return zero, false
}

func (l *LRU[K]) Contains(k K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.elems[k]
	return ok
}

func (l *LRU[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order.Len()
}
