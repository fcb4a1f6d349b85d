package vtpc

import "testing"

func TestPickVictim_PrefersLargestLastAccess(t *testing.T) {
	// Documented behavior: pickVictim evicts the MOST recently used slot
	// (largest last_access), not the least recently used one.
	slots := []slot{
		{inUse: true, base: 0, lastAccess: 5},
		{inUse: true, base: 4096, lastAccess: 9},
		{inUse: true, base: 8192, lastAccess: 3},
	}
	v := pickVictim(slots)
	if v == nil || v.base != 4096 {
		t.Fatalf("victim base = %v, want 4096 (lastAccess=9)", v)
	}
}

func TestPickVictim_TiesBreakFirstFound(t *testing.T) {
	slots := []slot{
		{inUse: true, base: 0, lastAccess: 7},
		{inUse: true, base: 4096, lastAccess: 7},
	}
	v := pickVictim(slots)
	if v == nil || v.base != 0 {
		t.Fatalf("victim base = %v, want 0 (first found on tie)", v)
	}
}

func TestPickVictim_IgnoresFreeSlots(t *testing.T) {
	slots := []slot{
		{inUse: false, lastAccess: 100},
		{inUse: true, base: 4096, lastAccess: 1},
	}
	v := pickVictim(slots)
	if v == nil || v.base != 4096 {
		t.Fatalf("victim base = %v, want 4096 (only in-use slot)", v)
	}
}

func TestPickVictim_AllFreeReturnsNil(t *testing.T) {
	slots := []slot{{inUse: false}, {inUse: false}}
	if v := pickVictim(slots); v != nil {
		t.Fatalf("victim = %v, want nil", v)
	}
}

func TestFindSlot_MatchesBaseAmongInUse(t *testing.T) {
	slots := []slot{
		{inUse: false, base: 4096},
		{inUse: true, base: 8192},
	}
	if s := findSlot(slots, 4096); s != nil {
		t.Fatalf("found free slot at base 4096, want nil")
	}
	if s := findSlot(slots, 8192); s == nil {
		t.Fatalf("expected to find in-use slot at base 8192")
	}
}

func TestFindFree_ReturnsFirstUnused(t *testing.T) {
	slots := []slot{
		{inUse: true, base: 0},
		{inUse: false},
		{inUse: false},
	}
	s := findFree(slots)
	if s == nil {
		t.Fatal("expected free slot")
	}
	if s != &slots[1] {
		t.Fatalf("expected first free slot (index 1)")
	}
}

func TestSlotFill_ZeroPadsTail(t *testing.T) {
	s := &slot{data: make([]byte, 8)}
	for i := range s.data {
		s.data[i] = 0xFF
	}
	s.fill(3)
	if s.valid != 3 {
		t.Fatalf("valid = %d, want 3", s.valid)
	}
	for i := 3; i < 8; i++ {
		if s.data[i] != 0 {
			t.Fatalf("tail byte %d = %#x, want 0", i, s.data[i])
		}
	}
}

func TestAlignDown(t *testing.T) {
	cases := []struct {
		value int64
		align int
		want  int64
	}{
		{0, 4096, 0},
		{1, 4096, 0},
		{4095, 4096, 0},
		{4096, 4096, 4096},
		{4097, 4096, 4096},
		{8192, 4096, 8192},
	}
	for _, c := range cases {
		if got := alignDown(c.value, c.align); got != c.want {
			t.Errorf("alignDown(%d, %d) = %d, want %d", c.value, c.align, got, c.want)
		}
	}
}
