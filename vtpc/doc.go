// Package vtpc implements a user-space virtual-to-physical page cache.
//
// A Cache presents a byte-oriented stream interface (Open/Close/Read/Write/
// Seek/Fsync) on top of host file descriptors while internally buffering
// data in a bounded set of page-aligned slots per open file. Pages are
// loaded on demand, marked dirty on write, and evicted by an
// access-recency policy; write-back respects O_DIRECT alignment when the
// underlying descriptor was opened with cache bypass.
//
// A Cache is single-threaded per handle: callers must not invoke
// operations on the same handle concurrently from multiple goroutines.
// Opening and closing distinct handles from different goroutines is safe.
package vtpc
