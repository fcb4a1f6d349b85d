package vtpc

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// HandleStats is a diagnostic snapshot of one open handle. None of these
// fields participate in any VTPC invariant; they exist purely so an
// operator or test can observe cache occupancy.
type HandleStats struct {
	Handle      Handle
	Path        string
	SessionID   uuid.UUID
	Opened      time.Time
	FileSize    int64
	Position    int64
	DirectIO    bool
	SlotsInUse  int
	SlotsDirty  int
	PageCap     int
	AccessClock uint64
}

// Stats returns a diagnostic snapshot for every currently open handle.
func (c *Cache) Stats() []HandleStats {
	snapshot := c.table.snapshot()

	handles := lo.Keys(snapshot)
	return lo.Map(handles, func(h Handle, _ int) HandleStats {
		fl := snapshot[h]
		inUse := lo.CountBy(fl.slots, func(s slot) bool { return s.inUse })
		dirty := lo.CountBy(fl.slots, func(s slot) bool { return s.inUse && s.dirty })
		return HandleStats{
			Handle:      h,
			Path:        fl.path,
			SessionID:   fl.sessionID,
			Opened:      fl.opened,
			FileSize:    fl.fileSize,
			Position:    fl.position,
			DirectIO:    fl.directIO,
			SlotsInUse:  inUse,
			SlotsDirty:  dirty,
			PageCap:     len(fl.slots),
			AccessClock: fl.accessClock,
		}
	})
}

// OpenHandles returns the handles of every currently open file whose
// predicate returns true. A nil predicate returns every open handle.
func (c *Cache) OpenHandles(predicate func(HandleStats) bool) []Handle {
	all := c.Stats()
	if predicate == nil {
		return lo.Map(all, func(s HandleStats, _ int) Handle { return s.Handle })
	}
	matched := lo.Filter(all, func(s HandleStats, _ int) bool { return predicate(s) })
	return lo.Map(matched, func(s HandleStats, _ int) Handle { return s.Handle })
}
