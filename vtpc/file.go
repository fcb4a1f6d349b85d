package vtpc

import (
	"os"
	"time"

	"github.com/google/uuid"
)

// file is the per-open state of a VTPC handle: the underlying descriptor,
// access rights, logical position and size, and the page slot array that
// caches regions of the descriptor's content.
//
// A file is created by Cache.Open and destroyed by Cache.Close. It is
// owned exclusively by the handle table entry that references it for the
// entry's lifetime (spec's ownership tree: slot -> array -> file -> table
// entry, no cycles, no shared ownership).
type file struct {
	fd *os.File

	canRead  bool
	canWrite bool
	directIO bool

	position int64
	fileSize int64
	pageSize int

	accessClock uint64
	slots       []slot

	// Diagnostics only — never part of any invariant or on-disk format.
	sessionID uuid.UUID
	opened    time.Time
	path      string
}

// alignDown rounds value down to the nearest multiple of align.
func alignDown(value int64, align int) int64 {
	a := int64(align)
	mod := value % a
	if mod < 0 {
		mod += a
	}
	return value - mod
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minI(a, b int) int {
	if a < b {
		return a
	}
	return b
}
