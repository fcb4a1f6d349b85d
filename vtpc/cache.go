package vtpc

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultMaxFiles is VTPC_MAX_FILES: the default handle table size.
	DefaultMaxFiles = 128

	// DefaultPageCapacity is VTPC_PAGE_CAPACITY: the default number of
	// page slots allocated per open file.
	DefaultPageCapacity = 64
)

// Whence values for Seek, mirroring io.Seeker's constants.
const (
	SeekStart   = 0 // seek relative to the origin of the file
	SeekCurrent = 1 // seek relative to the current offset
	SeekEnd     = 2 // seek relative to the end
)

// CacheConfig configures a Cache. Zero values select the spec's defaults.
type CacheConfig struct {
	// MaxFiles is the handle table size. 0 selects DefaultMaxFiles.
	MaxFiles int

	// PageCapacity is the number of page slots allocated per open file.
	// 0 selects DefaultPageCapacity.
	PageCapacity int

	// PageSize overrides the page/alignment granularity. 0 queries the
	// OS, falling back to 4096 if the query is unusable.
	PageSize int
}

func (c CacheConfig) withDefaults() CacheConfig {
	if c.MaxFiles == 0 {
		c.MaxFiles = DefaultMaxFiles
	}
	if c.PageCapacity == 0 {
		c.PageCapacity = DefaultPageCapacity
	}
	if c.PageSize == 0 {
		c.PageSize = queryPageSize()
	}
	return c
}

// validate rejects configuration that withDefaults cannot turn into
// something allocatable: a zero value means "use the default", but a
// negative value can never be turned into a real slot array, so it is a
// caller error rather than something to silently clamp.
func (c CacheConfig) validate() error {
	switch {
	case c.MaxFiles < 0:
		return fmt.Errorf("%w: negative MaxFiles %d", ErrAlloc, c.MaxFiles)
	case c.PageCapacity < 0:
		return fmt.Errorf("%w: negative PageCapacity %d", ErrAlloc, c.PageCapacity)
	case c.PageSize < 0:
		return fmt.Errorf("%w: negative PageSize %d", ErrAlloc, c.PageSize)
	}
	return nil
}

func queryPageSize() int {
	if p := os.Getpagesize(); p > 0 {
		return p
	}
	return 4096
}

// Cache is the factory object a client creates once and threads through
// an application; it owns the process-wide handle table that maps
// externally-visible handles to internal file objects (see spec's
// preference for an explicit factory over a hidden package-level global).
type Cache struct {
	cfg   CacheConfig
	table *handleTable

	// mu guards closed, read on every operation and written once by
	// Shutdown (mirrors the isClosed/RWMutex pattern in the pack's
	// slotcache.Cache).
	mu     sync.RWMutex
	closed bool
}

// NewCache creates a Cache with the given configuration. It returns
// ErrAlloc if cfg is nonsensical in a way no default can repair (a
// negative MaxFiles, PageCapacity, or PageSize).
func NewCache(cfg CacheConfig) (*Cache, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	return &Cache{
		cfg:   cfg,
		table: newHandleTable(cfg.MaxFiles),
	}, nil
}

// checkOpen returns ErrClosed once Shutdown has been called on c, and nil
// otherwise. Every operation that touches the handle table consults it.
func (c *Cache) checkOpen() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// Open opens path with the given os.OpenFile-style flag bitmask (e.g.
// os.O_RDWR|os.O_CREATE) and permission bits, and returns a handle.
// Access rights (readable/writable) are derived from flag exactly as the
// OS would derive them from the access-mode bits.
func (c *Cache) Open(path string, flag int, perm os.FileMode) (Handle, error) {
	if err := c.checkOpen(); err != nil {
		return -1, err
	}

	am := flag & (os.O_WRONLY | os.O_RDWR)
	canRead := am != os.O_WRONLY
	canWrite := am == os.O_WRONLY || am == os.O_RDWR

	f, directIO, err := rawOpen(path, flag, perm)
	if err != nil {
		return -1, fmt.Errorf("vtpc: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return -1, fmt.Errorf("vtpc: stat %s: %w", path, err)
	}

	fl := &file{
		fd:        f,
		canRead:   canRead,
		canWrite:  canWrite,
		directIO:  directIO,
		position:  0,
		fileSize:  info.Size(),
		pageSize:  c.cfg.PageSize,
		slots:     make([]slot, c.cfg.PageCapacity),
		sessionID: uuid.New(),
		opened:    time.Now(),
		path:      path,
	}
	for i := range fl.slots {
		fl.slots[i].data = make([]byte, c.cfg.PageSize)
	}

	h, err := c.table.install(fl)
	if err != nil {
		f.Close()
		return -1, err
	}
	logOpen(fl)
	return h, nil
}

// resolve returns the file object for h, requiring the given access
// right. It never returns (nil, nil): either a usable file or ErrBadHandle.
func (c *Cache) resolve(h Handle, needRead, needWrite bool) (*file, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	fl := c.table.lookup(h)
	if fl == nil {
		return nil, ErrBadHandle
	}
	if needRead && !fl.canRead {
		return nil, ErrBadHandle
	}
	if needWrite && !fl.canWrite {
		return nil, ErrBadHandle
	}
	return fl, nil
}

// Close flushes all dirty pages, fsyncs, closes the underlying descriptor,
// and releases the handle regardless of whether flushing or closing
// failed — resources are never leaked. The first error encountered, if
// any, is returned.
func (c *Cache) Close(h Handle) error {
	fl := c.table.lookup(h)
	if fl == nil {
		return ErrBadHandle
	}

	var firstErr error
	if err := flushAll(fl.fd, fl); err != nil {
		firstErr = err
	}
	if err := fl.fd.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("vtpc: close descriptor: %w", err)
	}

	c.table.drop(h)
	logClose(fl, firstErr)
	return firstErr
}

// Shutdown closes every handle still open on c (flushing and fsyncing
// each, per Close) and marks c itself closed: every subsequent Open,
// Read, Write, Seek, or Fsync call returns ErrClosed. Shutdown is
// idempotent — calling it again returns ErrClosed rather than re-closing
// already-released handles.
func (c *Cache) Shutdown() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.closed = true
	c.mu.Unlock()

	var firstErr error
	for h := range c.table.snapshot() {
		if err := c.Close(h); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Read reads up to len(buf) bytes starting at the handle's current
// position into buf, returning the number of bytes read (0 means
// end-of-file, not an error). A short return is never an error.
func (c *Cache) Read(h Handle, buf []byte) (int, error) {
	fl, err := c.resolve(h, true, false)
	if err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, nil
	}

	total := 0
	for total < len(buf) && fl.position < fl.fileSize {
		base := alignDown(fl.position, fl.pageSize)
		pageOff := int(fl.position - base)

		available := int(minI64(fl.fileSize-fl.position, int64(fl.pageSize-pageOff)))
		chunk := minI(len(buf)-total, available)
		if chunk == 0 {
			break
		}

		s, err := prepare(fl.fd, fl, base)
		if err != nil {
			return total, err
		}
		fl.accessClock++
		s.lastAccess = fl.accessClock

		if s.valid < pageOff+chunk {
			if s.valid > pageOff {
				chunk = s.valid - pageOff
			} else {
				chunk = 0
			}
		}
		if chunk == 0 {
			break
		}

		copy(buf[total:total+chunk], s.data[pageOff:pageOff+chunk])
		total += chunk
		fl.position += int64(chunk)
	}
	return total, nil
}

// Write writes len(buf) bytes starting at the handle's current position,
// growing the logical file size as needed. Writes never short-return:
// either all bytes are written or an error is returned.
func (c *Cache) Write(h Handle, buf []byte) (int, error) {
	fl, err := c.resolve(h, false, true)
	if err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, nil
	}

	total := 0
	for total < len(buf) {
		base := alignDown(fl.position, fl.pageSize)
		pageOff := int(fl.position - base)
		chunk := minI(len(buf)-total, fl.pageSize-pageOff)

		s, err := prepare(fl.fd, fl, base)
		if err != nil {
			return total, err
		}

		copy(s.data[pageOff:pageOff+chunk], buf[total:total+chunk])
		s.valid = minI(fl.pageSize, maxI(s.valid, pageOff+chunk))
		s.dirty = true
		fl.accessClock++
		s.lastAccess = fl.accessClock

		total += chunk
		fl.position += int64(chunk)

		newEnd := base + int64(maxI(s.valid, pageOff+chunk))
		if newEnd > fl.fileSize {
			fl.fileSize = newEnd
		}
	}
	return total, nil
}

// Seek computes a new absolute position for the handle from whence
// (SeekStart/SeekCurrent/SeekEnd) and offset. No I/O is performed;
// negative results and unknown whence values are rejected.
func (c *Cache) Seek(h Handle, offset int64, whence int) (int64, error) {
	if err := c.checkOpen(); err != nil {
		return -1, err
	}
	fl := c.table.lookup(h)
	if fl == nil {
		return -1, ErrBadHandle
	}

	var base int64
	switch whence {
	case SeekStart:
		base = offset
	case SeekCurrent:
		base = fl.position + offset
	case SeekEnd:
		base = fl.fileSize + offset
	default:
		return -1, ErrInvalidArgument
	}
	if base < 0 {
		return -1, ErrInvalidArgument
	}

	fl.position = base
	return base, nil
}

// Fsync flushes all dirty pages and fsyncs the underlying descriptor.
func (c *Cache) Fsync(h Handle) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	fl := c.table.lookup(h)
	if fl == nil {
		return ErrBadHandle
	}
	return flushAll(fl.fd, fl)
}
