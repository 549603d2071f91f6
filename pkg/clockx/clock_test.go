package clockx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClock_New_DefaultCapacity(t *testing.T) {
	c := New(0)
	require.Equal(t, 1, c.Capacity())
	require.Equal(t, 0, c.Size())
}

func TestClock_SetEvictable(t *testing.T) {
	c := New(3)

	// never touched -> ignored
	c.SetEvictable(0, true)
	require.Equal(t, 0, c.Size())

	c.Touch(1)
	require.Equal(t, 0, c.Size())
	c.SetEvictable(1, true)
	c.SetEvictable(1, true)
	require.Equal(t, 1, c.Size())
	c.SetEvictable(1, false)
	require.Equal(t, 0, c.Size())

	// out of range ids are ignored
	c.Touch(7)
	c.SetEvictable(-1, true)
	require.Equal(t, 0, c.Size())
}

func TestClock_Evict_NoneEvictable(t *testing.T) {
	c := New(2)
	c.Touch(0)
	c.Touch(1)

	id, ok := c.Evict()
	require.False(t, ok)
	require.Equal(t, -1, id)
}

func TestClock_Evict_SecondChance(t *testing.T) {
	c := New(3)
	for i := range 3 {
		c.Touch(i)
		c.SetEvictable(i, true)
	}

	// all ref bits set: first sweep clears them, victim is slot 0
	id, ok := c.Evict()
	require.True(t, ok)
	require.Equal(t, 0, id)
	require.Equal(t, 2, c.Size())

	// slot 1 was touched again, so slot 2 goes first
	c.Touch(1)
	id, ok = c.Evict()
	require.True(t, ok)
	require.Equal(t, 2, id)

	id, ok = c.Evict()
	require.True(t, ok)
	require.Equal(t, 1, id)
	require.Equal(t, 0, c.Size())
}

func TestClock_Remove(t *testing.T) {
	c := New(2)
	c.Touch(0)
	c.SetEvictable(0, true)
	require.Equal(t, 1, c.Size())

	c.Remove(0)
	require.Equal(t, 0, c.Size())
	c.Remove(0)
	c.Remove(5)
	require.Equal(t, 0, c.Size())

	_, ok := c.Evict()
	require.False(t, ok)
}
