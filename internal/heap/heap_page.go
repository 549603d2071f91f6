package heap

import (
	"errors"
	"fmt"

	"github.com/tuannm99/simpledb/internal/alias/bx"
	"github.com/tuannm99/simpledb/internal/record"
	"github.com/tuannm99/simpledb/internal/storage"
)

// +------------------+ 0
// | header bitmap    |  ceil(slots/8) bytes, bit i (LSB first) = slot i used
// +------------------+
// | slot 0 tuple     |  schema.Size() bytes each
// | slot 1 tuple     |
// | ...              |
// +------------------+
// | unused tail      |
// +------------------+ pageSize
//
// slots = floor(pageSize*8 / (tupleSize*8 + 1)): each tuple costs its bytes
// plus one header bit.

var (
	ErrTupleTooLarge = errors.New("heap: tuple does not fit in a page")
	ErrPageFull      = errors.New("heap: more rows than slots")
	ErrBadSlot       = errors.New("heap: invalid slot")
)

func SlotsPerPage(tupleSize, pageSize int) int {
	if tupleSize <= 0 {
		return 0
	}
	return (pageSize * 8) / (tupleSize*8 + 1)
}

func HeaderSize(slots int) int { return (slots + 7) / 8 }

// HeapPage is one decoded page of a heap file.
type HeapPage struct {
	id       storage.PageID
	schema   record.Schema
	data     []byte
	numSlots int
	header   []byte
	tuples   []*record.Tuple // nil for empty slots
}

var _ storage.Page = (*HeapPage)(nil)

// NewHeapPage decodes data, whose length is the page size.
func NewHeapPage(id storage.PageID, data []byte, schema record.Schema) (*HeapPage, error) {
	slots := SlotsPerPage(schema.Size(), len(data))
	if slots == 0 {
		return nil, fmt.Errorf("%w: tuple %d bytes, page %d bytes", ErrTupleTooLarge, schema.Size(), len(data))
	}

	hp := &HeapPage{
		id:       id,
		schema:   schema,
		data:     data,
		numSlots: slots,
		header:   data[:HeaderSize(slots)],
		tuples:   make([]*record.Tuple, slots),
	}

	tupleSize := schema.Size()
	base := len(hp.header)
	for i := range slots {
		if !bx.Bit(hp.header, i) {
			continue
		}
		off := base + i*tupleSize
		values, err := record.DecodeTuple(schema, data[off:off+tupleSize])
		if err != nil {
			return nil, fmt.Errorf("%s slot %d: %w", id, i, err)
		}
		tup, err := record.NewTuple(schema, values)
		if err != nil {
			return nil, fmt.Errorf("%s slot %d: %w", id, i, err)
		}
		hp.tuples[i] = tup.WithRecordID(record.NewRecordID(id, i))
	}
	return hp, nil
}

func (hp *HeapPage) ID() storage.PageID { return hp.id }

func (hp *HeapPage) Data() []byte { return hp.data }

func (hp *HeapPage) Schema() record.Schema { return hp.schema }

func (hp *HeapPage) NumSlots() int { return hp.numSlots }

func (hp *HeapPage) IsSlotUsed(i int) bool {
	return i >= 0 && i < hp.numSlots && bx.Bit(hp.header, i)
}

func (hp *HeapPage) NumEmptySlots() int {
	n := 0
	for i := range hp.numSlots {
		if !bx.Bit(hp.header, i) {
			n++
		}
	}
	return n
}

// Tuple returns the tuple stored in slot i.
func (hp *HeapPage) Tuple(i int) (*record.Tuple, error) {
	if !hp.IsSlotUsed(i) {
		return nil, fmt.Errorf("%w: %s slot %d", ErrBadSlot, hp.id, i)
	}
	return hp.tuples[i], nil
}

// Iterator walks used slots in slot order.
func (hp *HeapPage) Iterator() *PageIterator {
	it := &PageIterator{page: hp}
	it.skip()
	return it
}

type PageIterator struct {
	page *HeapPage
	slot int
}

func (it *PageIterator) skip() {
	for it.slot < it.page.numSlots && it.page.tuples[it.slot] == nil {
		it.slot++
	}
}

func (it *PageIterator) HasNext() bool { return it.slot < it.page.numSlots }

func (it *PageIterator) Next() (*record.Tuple, error) {
	if !it.HasNext() {
		return nil, ErrNoSuchElement
	}
	t := it.page.tuples[it.slot]
	it.slot++
	it.skip()
	return t, nil
}

// EncodePage lays rows out in slots 0..len(rows)-1 of a fresh page.
func EncodePage(schema record.Schema, pageSize int, rows [][]any) ([]byte, error) {
	slots := SlotsPerPage(schema.Size(), pageSize)
	if slots == 0 {
		return nil, ErrTupleTooLarge
	}
	if len(rows) > slots {
		return nil, fmt.Errorf("%w: %d rows, %d slots", ErrPageFull, len(rows), slots)
	}

	buf := make([]byte, pageSize)
	header := buf[:HeaderSize(slots)]
	base := len(header)
	tupleSize := schema.Size()
	for i, row := range rows {
		off := base + i*tupleSize
		if err := record.EncodeTuple(schema, row, buf[off:off+tupleSize]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		bx.SetBit(header, i, true)
	}
	return buf, nil
}
