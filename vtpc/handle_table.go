package vtpc

import "sync"

// Handle identifies one open file within a Cache. It is a small
// non-negative integer drawn from a fixed-size table.
type Handle int

// handleTable maps handles to file objects. It is process-wide state for
// a single Cache instance, guarded by a mutex so Open/Close can race each
// other safely; per-handle operations take this lock only to resolve the
// handle, not for the rest of the operation (spec's
// single-threaded-per-handle model — see Cache for the public surface).
type handleTable struct {
	mu      sync.Mutex
	entries []*file
}

func newHandleTable(size int) *handleTable {
	return &handleTable{entries: make([]*file, size)}
}

// install finds the first empty slot, stores f, and returns its index.
func (t *handleTable) install(f *file) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, e := range t.entries {
		if e == nil {
			t.entries[i] = f
			return Handle(i), nil
		}
	}
	return -1, ErrTooManyFiles
}

// lookup returns the file object for h, or nil if h is out of range or
// currently empty.
func (t *handleTable) lookup(h Handle) *file {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h < 0 || int(h) >= len(t.entries) {
		return nil
	}
	return t.entries[h]
}

// drop clears the entry for h. Idempotent; does not free the file object
// (the caller does that after flushing and closing it).
func (t *handleTable) drop(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h < 0 || int(h) >= len(t.entries) {
		return
	}
	t.entries[h] = nil
}

// snapshot returns the currently occupied entries. Stats uses it for
// diagnostics and Shutdown uses it to find the handles to close.
func (t *handleTable) snapshot() map[Handle]*file {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[Handle]*file, len(t.entries))
	for i, e := range t.entries {
		if e != nil {
			out[Handle(i)] = e
		}
	}
	return out
}
