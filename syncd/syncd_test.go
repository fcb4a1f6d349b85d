package syncd

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/neft1k/vtpc/vtpc"
)

type fakeCache struct {
	calls atomic.Int64
	err   error
}

func (f *fakeCache) Fsync(h vtpc.Handle) error {
	f.calls.Add(1)
	return f.err
}

func TestDaemon_TicksOnSchedule(t *testing.T) {
	fc := &fakeCache{}
	d, err := New(fc, "@every 10ms", vtpc.Handle(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d.Start()
	defer d.Stop()

	deadline := time.After(2 * time.Second)
	for fc.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d ticks after deadline", fc.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestDaemon_RecordsLastError(t *testing.T) {
	wantErr := errors.New("boom")
	fc := &fakeCache{err: wantErr}
	d, err := New(fc, "@every 10ms", vtpc.Handle(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d.Start()
	defer d.Stop()

	deadline := time.After(2 * time.Second)
	for d.LastError(vtpc.Handle(1)) == nil {
		select {
		case <-deadline:
			t.Fatal("no error recorded after deadline")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if !errors.Is(d.LastError(vtpc.Handle(1)), wantErr) {
		t.Fatalf("LastError = %v, want %v", d.LastError(vtpc.Handle(1)), wantErr)
	}
}

func TestNew_RejectsBadSchedule(t *testing.T) {
	fc := &fakeCache{}
	if _, err := New(fc, "not a schedule", vtpc.Handle(0)); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestWatch_AddsHandleToTick(t *testing.T) {
	fc := &fakeCache{}
	d, err := New(fc, "@every 10ms")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.Watch(vtpc.Handle(3))

	d.Start()
	defer d.Stop()

	deadline := time.After(2 * time.Second)
	for fc.calls.Load() < 1 {
		select {
		case <-deadline:
			t.Fatal("watched handle was never ticked")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
