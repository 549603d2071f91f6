package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/simpledb/internal/storage"
)

func TestEncodeDecodeTuple(t *testing.T) {
	s := SchemaOf(Col("id", ColInt), Col("name", ColString), Col("age", ColInt))
	buf := make([]byte, s.Size())

	require.NoError(t, EncodeTuple(s, []any{int32(-7), "alice", int32(31)}, buf))

	// int is big-endian, string carries its length then zero padding
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xf9}, buf[:4])
	assert.Equal(t, []byte{0, 0, 0, 5}, buf[4:8])
	assert.Equal(t, "alice", string(buf[8:13]))
	assert.Equal(t, make([]byte, StringLen-5), buf[13:4+132])

	row, err := DecodeTuple(s, buf)
	require.NoError(t, err)
	assert.Equal(t, []any{int32(-7), "alice", int32(31)}, row)
}

func TestEncodeTuple_Errors(t *testing.T) {
	s := SchemaOf(Col("id", ColInt), Col("name", ColString))
	buf := make([]byte, s.Size())

	require.ErrorIs(t, EncodeTuple(s, []any{int32(1)}, buf), ErrSchemaMismatch)
	require.ErrorIs(t, EncodeTuple(s, []any{int64(1), "x"}, buf), ErrSchemaMismatch)
	require.ErrorIs(t, EncodeTuple(s, []any{int32(1), strings.Repeat("x", StringLen+1)}, buf), ErrVarTooLong)
	require.ErrorIs(t, EncodeTuple(s, []any{int32(1), "x"}, buf[:10]), ErrBadBuffer)

	_, err := DecodeTuple(s, buf[:10])
	require.ErrorIs(t, err, ErrBadBuffer)
}

func TestEncodeTuple_OverwritesPadding(t *testing.T) {
	s := SchemaOf(Col("name", ColString))
	buf := make([]byte, s.Size())

	require.NoError(t, EncodeTuple(s, []any{"a long value"}, buf))
	require.NoError(t, EncodeTuple(s, []any{"ab"}, buf))

	row, err := DecodeTuple(s, buf)
	require.NoError(t, err)
	assert.Equal(t, "ab", row[0])
	assert.Equal(t, byte(0), buf[6])
}

func TestTuple(t *testing.T) {
	s := SchemaOf(Col("id", ColInt), Col("name", ColString))

	tup, err := NewTuple(s, []any{int32(1), "bob"})
	require.NoError(t, err)
	assert.Equal(t, "1\tbob", tup.String())

	v, err := tup.Field(1)
	require.NoError(t, err)
	assert.Equal(t, "bob", v)
	_, err = tup.Field(2)
	require.ErrorIs(t, err, ErrFieldNotFound)

	_, ok := tup.RecordID()
	assert.False(t, ok)

	rid := NewRecordID(storage.NewPageID(3, 1), 2)
	located := tup.WithRecordID(rid)
	got, ok := located.RecordID()
	require.True(t, ok)
	assert.Equal(t, rid, got)
	assert.Equal(t, tup.Values(), located.Values())

	_, ok = tup.RecordID()
	assert.False(t, ok, "original stays unlocated")
	moved := located.WithRecordID(NewRecordID(storage.NewPageID(3, 1), 5))
	got, _ = located.RecordID()
	assert.Equal(t, rid, got)
	got, _ = moved.RecordID()
	assert.Equal(t, 5, got.Slot)

	_, err = NewTuple(s, []any{"1", "bob"})
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestRecordID_EqualityAndHash(t *testing.T) {
	a := NewRecordID(storage.NewPageID(1, 2), 3)
	b := NewRecordID(storage.NewPageID(1, 2), 3)
	otherSlot := NewRecordID(storage.NewPageID(1, 2), 4)
	otherPage := NewRecordID(storage.NewPageID(1, 3), 3)

	assert.Equal(t, a, b)
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a, otherSlot)
	assert.NotEqual(t, a.Hash(), otherSlot.Hash())
	assert.NotEqual(t, a, otherPage)

	set := map[RecordID]struct{}{a: {}}
	_, ok := set[b]
	assert.True(t, ok)
	assert.Equal(t, "rid(1:2:3)", a.String())
}
