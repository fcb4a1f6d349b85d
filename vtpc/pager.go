package vtpc

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// pread issues a positioned read of exactly len(buf) bytes, or fewer at
// end-of-file. Unlike a bare os.File.ReadAt, reaching EOF is not treated
// as a failure here — the caller gets back the short count, matching
// POSIX pread(2) semantics rather than io.Reader's stricter ReadAt
// contract.
func pread(f *os.File, buf []byte, offset int64) (int, error) {
	n, err := f.ReadAt(buf, offset)
	if err == nil || errors.Is(err, io.EOF) {
		return n, nil
	}
	return n, err
}

// pwrite issues a positioned write of exactly len(buf) bytes. A short
// write is always an error (os.File.WriteAt already guarantees this).
func pwrite(f *os.File, buf []byte, offset int64) (int, error) {
	return f.WriteAt(buf, offset)
}

// findSlot returns the in-use slot whose base equals base, or nil.
func findSlot(slots []slot, base int64) *slot {
	for i := range slots {
		if slots[i].inUse && slots[i].base == base {
			return &slots[i]
		}
	}
	return nil
}

// findFree returns the first unused slot, or nil if all slots are in use.
func findFree(slots []slot) *slot {
	for i := range slots {
		if !slots[i].inUse {
			return &slots[i]
		}
	}
	return nil
}

// pickVictim selects the slot to reuse when no free slot remains.
//
// This picks the in-use slot with the LARGEST lastAccess value, i.e. the
// MOST recently used one. That is an inversion of a conventional LRU
// policy. It is kept intentionally: it is a documented, observed design
// choice (see the decisions recorded for VTPC's eviction policy), not a
// bug — eviction still always makes forward progress and never loses
// data, it merely evicts a suboptimal candidate. Ties break on the first
// slot found, since access_clock is strictly monotonic and true ties
// cannot occur in practice.
func pickVictim(slots []slot) *slot {
	var victim *slot
	for i := range slots {
		if !slots[i].inUse {
			continue
		}
		if victim == nil || slots[i].lastAccess > victim.lastAccess {
			victim = &slots[i]
		}
	}
	return victim
}

// flushSlot writes a dirty slot's valid bytes back to fd. A clean or
// unused slot is a no-op.
func flushSlot(f *os.File, fl *file, s *slot) error {
	if !s.inUse || !s.dirty {
		return nil
	}

	if fl.fileSize <= s.base {
		s.dirty = false
		return nil
	}

	length := int(minI64(fl.fileSize-s.base, int64(fl.pageSize)))
	if length == 0 {
		s.dirty = false
		return nil
	}

	writeLen := length
	if fl.directIO {
		writeLen = fl.pageSize
	}

	if _, err := pwrite(f, s.data[:writeLen], s.base); err != nil {
		return fmt.Errorf("vtpc: flush page at %d: %w", s.base, err)
	}
	adviseDontNeed(f, s.base, writeLen)

	if writeLen > length {
		if err := f.Truncate(fl.fileSize); err != nil {
			return fmt.Errorf("vtpc: truncate after direct flush: %w", err)
		}
	}

	s.dirty = false
	return nil
}

// flushAll flushes every dirty slot, truncates the file to the logical
// size if anything was dirty and the file is writable (trimming
// direct-I/O padded tails even flushSlot chose not to), then fsyncs.
func flushAll(f *os.File, fl *file) error {
	hasDirty := false
	for i := range fl.slots {
		s := &fl.slots[i]
		if s.inUse && s.dirty {
			hasDirty = true
			if err := flushSlot(f, fl, s); err != nil {
				return err
			}
		}
	}

	if hasDirty && fl.canWrite {
		if err := f.Truncate(fl.fileSize); err != nil {
			return fmt.Errorf("vtpc: truncate on flush-all: %w", err)
		}
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("vtpc: fsync: %w", err)
	}
	return nil
}

// prepare returns the slot whose base equals the requested base, loading
// it from fd if necessary. On a cold miss it claims a free slot; if none
// is free it evicts a victim (flushing it first if dirty) and reuses it.
func prepare(f *os.File, fl *file, base int64) (*slot, error) {
	if s := findSlot(fl.slots, base); s != nil {
		return s, nil
	}

	s := findFree(fl.slots)
	evicted := false
	if s == nil {
		s = pickVictim(fl.slots)
		if s == nil {
			return nil, fmt.Errorf("%w: no slot available", ErrAlloc)
		}
		if err := flushSlot(f, fl, s); err != nil {
			return nil, err
		}
		evicted = true
	}

	s.reset(base)

	n, err := pread(f, s.data[:fl.pageSize], base)
	if err != nil {
		s.inUse = false
		return nil, fmt.Errorf("vtpc: read page at %d: %w", base, err)
	}
	adviseDontNeed(f, base, fl.pageSize)
	s.fill(n)

	if evicted {
		logEviction(fl, base)
	}
	return s, nil
}
