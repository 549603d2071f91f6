package storage

import "fmt"

// PageID addresses a page: the owning table and the page number inside its file.
// Page k of a file occupies bytes [k*pageSize, (k+1)*pageSize).
type PageID struct {
	TableID int32
	PageNo  int
}

func NewPageID(tableID int32, pageNo int) PageID {
	return PageID{TableID: tableID, PageNo: pageNo}
}

func (p PageID) String() string {
	return fmt.Sprintf("page(%d:%d)", p.TableID, p.PageNo)
}

// Page is the unit handed out by the buffer pool. Its in-page layout belongs to
// the concrete implementation (see heap.HeapPage).
type Page interface {
	ID() PageID
	Data() []byte
}
