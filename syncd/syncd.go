// Package syncd schedules periodic durability for a vtpc.Cache.
//
// VTPC's core makes no durability guarantee beyond an explicit Fsync call
// (see the cache's non-goals). syncd is a thin, additive wrapper that
// calls Fsync on a schedule for a configurable set of handles, the way
// the teacher's storage/scheduler.go wraps job execution with
// github.com/robfig/cron/v3. It never touches a page slot or the handle
// table directly — only the public Fsync operation — so it introduces no
// new invariant on the cache it watches.
package syncd

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/neft1k/vtpc/vtpc"
)

// Cache is the subset of *vtpc.Cache that Daemon needs, so it can be
// driven by a fake in tests without a real Cache.
type Cache interface {
	Fsync(h vtpc.Handle) error
}

// Daemon periodically fsyncs a fixed set of handles on a cron schedule.
type Daemon struct {
	cache    Cache
	cron     *cron.Cron
	mu       sync.Mutex
	handles  []vtpc.Handle
	lastErrs map[vtpc.Handle]error
}

// New creates a Daemon that fsyncs handles on the given cron spec (e.g.
// "@every 30s", or standard 5-field cron syntax). It does not start
// ticking until Start is called.
func New(cache Cache, spec string, handles ...vtpc.Handle) (*Daemon, error) {
	d := &Daemon{
		cache:    cache,
		cron:     cron.New(),
		handles:  append([]vtpc.Handle(nil), handles...),
		lastErrs: make(map[vtpc.Handle]error),
	}
	if _, err := d.cron.AddFunc(spec, d.tick); err != nil {
		return nil, fmt.Errorf("syncd: bad schedule %q: %w", spec, err)
	}
	return d, nil
}

// Watch adds a handle to the set fsynced on every tick.
func (d *Daemon) Watch(h vtpc.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handles = append(d.handles, h)
}

// Start begins the schedule in the background.
func (d *Daemon) Start() { d.cron.Start() }

// Stop halts the schedule and waits for any in-flight tick to finish.
func (d *Daemon) Stop() { <-d.cron.Stop().Done() }

// LastError returns the error from the most recent Fsync of h, if any.
func (d *Daemon) LastError(h vtpc.Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErrs[h]
}

func (d *Daemon) tick() {
	d.mu.Lock()
	handles := append([]vtpc.Handle(nil), d.handles...)
	d.mu.Unlock()

	for _, h := range handles {
		err := d.cache.Fsync(h)
		d.mu.Lock()
		d.lastErrs[h] = err
		d.mu.Unlock()
		if err != nil {
			log.Printf("syncd: fsync handle %d failed: %v", h, err)
		}
	}
}
