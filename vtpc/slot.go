package vtpc

// slot is a single page-aligned cache buffer owned by a file object for
// the file object's entire lifetime. Buffers are allocated once, at open,
// and reused for the life of the handle — no slot ever reallocates its
// data buffer.
type slot struct {
	data []byte // exactly pageSize bytes

	base       int64 // file offset this slot represents; multiple of pageSize when inUse
	valid      int   // bytes in data[0:valid] that mirror real file content
	dirty      bool  // valid bytes may differ from storage
	inUse      bool  // slot currently caches base
	lastAccess uint64
}

// reset prepares a free (or victimized) slot to start caching base.
// Callers must have already flushed the slot if it was dirty.
func (s *slot) reset(base int64) {
	s.inUse = true
	s.base = base
	s.dirty = false
	s.valid = 0
	s.lastAccess = 0
}

// fill records the result of a positioned read of up to len(s.data) bytes:
// n is the number of bytes actually read (may be less than pageSize at
// end-of-file). The tail is zero-filled so writes that land in it start
// from a defined state.
func (s *slot) fill(n int) {
	s.valid = n
	if s.valid < len(s.data) {
		clear(s.data[s.valid:])
	}
}
