package bufferpool

import "github.com/tuannm99/simpledb/internal/storage"

type Replacer interface {
	RecordAccess(frameID int)
	SetEvictable(frameID int, evictable bool)
	Evict() (frameID int, ok bool)
	Remove(frameID int)
	Size() int
}

// PageReader loads a page from its backing file. Heap files implement it.
type PageReader interface {
	ReadPage(pid storage.PageID) (storage.Page, error)
}

// Resolver finds the file that owns a table id.
type Resolver interface {
	PageReader(tableID int32) (PageReader, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(tableID int32) (PageReader, error)

func (f ResolverFunc) PageReader(tableID int32) (PageReader, error) { return f(tableID) }
