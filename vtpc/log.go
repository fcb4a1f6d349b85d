package vtpc

import (
	"log"

	"github.com/dustin/go-humanize"
)

// Diagnostics are purely observational: open/close/eviction events are
// logged the way the teacher's job scheduler logs lifecycle events
// (log.Printf, never on the read/write hot path). Nothing here affects
// cache behavior or on-disk bytes.

func logOpen(fl *file) {
	log.Printf("vtpc: open %s session=%s directIO=%t pageSize=%s capacity=%d",
		fl.path, fl.sessionID, fl.directIO, humanize.Bytes(uint64(fl.pageSize)), len(fl.slots))
}

func logClose(fl *file, err error) {
	if err != nil {
		log.Printf("vtpc: close %s session=%s failed: %v", fl.path, fl.sessionID, err)
		return
	}
	log.Printf("vtpc: close %s session=%s fileSize=%s", fl.path, fl.sessionID, humanize.Bytes(uint64(fl.fileSize)))
}

func logEviction(fl *file, base int64) {
	log.Printf("vtpc: eviction session=%s base=%d (capacity=%d exhausted)", fl.sessionID, base, len(fl.slots))
}
