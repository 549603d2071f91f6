package clockx

// Clock implements CLOCK (second-chance) replacement over slot ids [0..capacity).
type Clock struct {
	slots []slot
	hand  int
	size  int // evictable slots
}

type slot struct {
	present   bool
	ref       bool
	evictable bool
}

func New(capacity int) *Clock {
	if capacity <= 0 {
		capacity = 1
	}
	return &Clock{slots: make([]slot, capacity)}
}

func (c *Clock) Capacity() int { return len(c.slots) }

func (c *Clock) valid(id int) bool { return id >= 0 && id < len(c.slots) }

// Touch marks the slot present and recently used.
func (c *Clock) Touch(id int) {
	if !c.valid(id) {
		return
	}
	c.slots[id].present = true
	c.slots[id].ref = true
}

// SetEvictable is ignored for slots that were never touched.
func (c *Clock) SetEvictable(id int, evictable bool) {
	if !c.valid(id) || !c.slots[id].present {
		return
	}
	s := &c.slots[id]
	if s.evictable == evictable {
		return
	}
	s.evictable = evictable
	if evictable {
		c.size++
	} else {
		c.size--
	}
}

// Evict picks a victim and stops tracking it.
func (c *Clock) Evict() (id int, ok bool) {
	n := len(c.slots)
	if c.size == 0 {
		return -1, false
	}

	// two sweeps: the first may only clear ref bits
	for range 2 * n {
		idx := c.hand
		c.hand = (c.hand + 1) % n

		s := &c.slots[idx]
		if !s.present || !s.evictable {
			continue
		}
		if s.ref {
			s.ref = false
			continue
		}
		*s = slot{}
		c.size--
		return idx, true
	}
	return -1, false
}

func (c *Clock) Remove(id int) {
	if !c.valid(id) || !c.slots[id].present {
		return
	}
	if c.slots[id].evictable {
		c.size--
	}
	c.slots[id] = slot{}
}

// Size is the number of evictable slots.
func (c *Clock) Size() int { return c.size }
