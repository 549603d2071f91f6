package record

import (
	"fmt"

	"github.com/spaolacci/murmur3"

	"github.com/tuannm99/simpledb/internal/alias/bx"
	"github.com/tuannm99/simpledb/internal/storage"
)

// RecordID (Record Locator) is the row identity inside a heap file:
// PageID: page holding the tuple
// Slot  : slot index inside that page
type RecordID struct {
	PageID storage.PageID
	Slot   int
}

func NewRecordID(pid storage.PageID, slot int) RecordID {
	return RecordID{PageID: pid, Slot: slot}
}

// Hash covers both components, so equal ids hash equally.
func (r RecordID) Hash() uint32 {
	var b [12]byte
	bx.PutI32At(b[:], 0, r.PageID.TableID)
	bx.PutI32At(b[:], 4, int32(r.PageID.PageNo))
	bx.PutI32At(b[:], 8, int32(r.Slot))
	h := murmur3.New32()
	_, _ = h.Write(b[:])
	return h.Sum32()
}

func (r RecordID) String() string {
	return fmt.Sprintf("rid(%d:%d:%d)", r.PageID.TableID, r.PageID.PageNo, r.Slot)
}
