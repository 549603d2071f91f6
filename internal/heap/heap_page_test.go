package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/simpledb/internal/alias/bx"
	"github.com/tuannm99/simpledb/internal/record"
	"github.com/tuannm99/simpledb/internal/storage"
)

func intSchema() record.Schema {
	return record.SchemaOf(record.Col("a", record.ColInt), record.Col("b", record.ColInt))
}

func TestSlotsPerPage(t *testing.T) {
	assert.Equal(t, 504, SlotsPerPage(8, 4096))
	assert.Equal(t, 63, HeaderSize(504))
	assert.Equal(t, 30, SlotsPerPage(4+132, 4096))
	assert.Equal(t, 7, SlotsPerPage(8, 64))
	assert.Equal(t, 0, SlotsPerPage(8, 8))
	assert.Equal(t, 0, SlotsPerPage(0, 4096))
}

func TestHeapPage_Layout(t *testing.T) {
	s := intSchema()
	buf, err := EncodePage(s, 64, [][]any{{int32(1), int32(10)}, {int32(2), int32(20)}, {int32(3), int32(30)}})
	require.NoError(t, err)
	require.Len(t, buf, 64)

	// header is one byte, slots 0..2 set
	assert.Equal(t, byte(0b0000_0111), buf[0])
	// slot 1 starts at header + 1*8, big-endian
	assert.Equal(t, []byte{0, 0, 0, 2, 0, 0, 0, 20}, buf[1+8:1+16])

	pid := storage.NewPageID(9, 4)
	hp, err := NewHeapPage(pid, buf, s)
	require.NoError(t, err)
	assert.Equal(t, pid, hp.ID())
	assert.Equal(t, 7, hp.NumSlots())
	assert.Equal(t, 4, hp.NumEmptySlots())
	assert.True(t, hp.IsSlotUsed(2))
	assert.False(t, hp.IsSlotUsed(3))
	assert.False(t, hp.IsSlotUsed(-1))

	tup, err := hp.Tuple(1)
	require.NoError(t, err)
	assert.Equal(t, []any{int32(2), int32(20)}, tup.Values())
	rid, ok := tup.RecordID()
	require.True(t, ok)
	assert.Equal(t, record.NewRecordID(pid, 1), rid)

	_, err = hp.Tuple(5)
	assert.ErrorIs(t, err, ErrBadSlot)
}

func TestHeapPage_IteratorSkipsEmptySlots(t *testing.T) {
	s := intSchema()
	rows := make([][]any, 6)
	for i := range rows {
		rows[i] = []any{int32(i), int32(i * i)}
	}
	buf, err := EncodePage(s, 64, rows)
	require.NoError(t, err)
	for i := 1; i <= 4; i++ {
		bx.SetBit(buf[:1], i, false)
	}

	hp, err := NewHeapPage(storage.NewPageID(1, 0), buf, s)
	require.NoError(t, err)

	var slots []int
	it := hp.Iterator()
	for it.HasNext() {
		tup, err := it.Next()
		require.NoError(t, err)
		rid, _ := tup.RecordID()
		slots = append(slots, rid.Slot)
	}
	assert.Equal(t, []int{0, 5}, slots)

	_, err = it.Next()
	assert.ErrorIs(t, err, ErrNoSuchElement)
}

func TestEncodePage_Errors(t *testing.T) {
	s := intSchema()
	rows := make([][]any, 8)
	for i := range rows {
		rows[i] = []any{int32(i), int32(i)}
	}
	_, err := EncodePage(s, 64, rows)
	assert.ErrorIs(t, err, ErrPageFull)

	_, err = EncodePage(s, 8, nil)
	assert.ErrorIs(t, err, ErrTupleTooLarge)

	_, err = EncodePage(s, 64, [][]any{{int32(1)}})
	assert.ErrorIs(t, err, record.ErrSchemaMismatch)
}

func pidZero() storage.PageID { return storage.NewPageID(0, 0) }

func TestHeapPage_Debug(t *testing.T) {
	s := record.SchemaOf(record.Col("id", record.ColInt), record.Col("name", record.ColString))
	buf, err := EncodePage(s, 512, [][]any{{int32(7), "ada"}})
	require.NoError(t, err)
	hp, err := NewHeapPage(storage.NewPageID(3, 1), buf, s)
	require.NoError(t, err)

	out := hp.DebugString()
	assert.Contains(t, out, "=== Heap Page page(3:1) ===")
	assert.Contains(t, out, "slots=3 used=1 headerBytes=1")
	assert.Contains(t, out, "header(hex)=01")
	assert.Contains(t, out, "[0] off=1 7\tada")
	assert.Contains(t, out, "preview(ascii)=\"........ada")
	assert.NotContains(t, out, "[1] off=")
}
