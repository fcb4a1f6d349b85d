package vtpc

import "errors"

// Error kinds returned by Cache operations. Wrap these with fmt.Errorf
// ("%w") when adding context so callers can still errors.Is against the
// kind. Underlying OS failures are never replaced — they are wrapped
// unchanged so the original syscall.Errno survives the chain.
var (
	// ErrBadHandle means the handle is out of range, points at a free
	// slot, or the operation is not permitted by the handle's access mode
	// (e.g. Write on a read-only handle).
	ErrBadHandle = errors.New("vtpc: bad handle")

	// ErrTooManyFiles means the handle table has no empty slot left.
	ErrTooManyFiles = errors.New("vtpc: too many open files")

	// ErrAlloc means the cache was configured with parameters that make
	// allocation meaningless (a negative table size, page size, or
	// capacity), or that no slot could be claimed or evicted for a page.
	// Open allocates the file object, slot array, and slot buffers with
	// the built-in allocator; a failed allocation there is not reported
	// as ErrAlloc.
	ErrAlloc = errors.New("vtpc: allocation failed")

	// ErrInvalidArgument means an unknown whence value was passed to Seek,
	// or the computed seek result is negative.
	ErrInvalidArgument = errors.New("vtpc: invalid argument")

	// ErrClosed means Shutdown has already been called on the Cache; no
	// further Open, Read, Write, Seek, or Fsync call will succeed.
	ErrClosed = errors.New("vtpc: cache closed")
)
