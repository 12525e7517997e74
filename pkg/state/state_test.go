package state

import (
	"errors"
	"math"
	"testing"
)

func TestSetGet(t *testing.T) {
	s := New()
	k := Key{Node: "heater-1", Port: "current"}

	if s.Has(k) {
		t.Error("empty state should not contain any key")
	}
	if got := s.Get(k); got != 0 {
		t.Errorf("unset key returned %v, want 0", got)
	}

	if err := s.Set(k, 12.5); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := s.Get(k); got != 12.5 {
		t.Errorf("Get = %v, want 12.5", got)
	}
	if !s.Has(k) {
		t.Error("Has = false after Set")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestSetRejectsNonFinite(t *testing.T) {
	s := New()
	k := Key{Node: "n", Port: "out"}

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := s.Set(k, v); !errors.Is(err, ErrNonFiniteValue) {
			t.Errorf("Set(%v): expected ErrNonFiniteValue, got %v", v, err)
		}
	}
	if s.Has(k) {
		t.Error("rejected value must not be stored")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := New()
	k := Key{Node: "a", Port: "x"}
	s.Set(k, 1.0)

	snap := s.Snapshot()
	s.Set(k, 2.0)

	if snap[k] != 1.0 {
		t.Errorf("snapshot mutated: got %v, want 1.0", snap[k])
	}
}

func TestDelta(t *testing.T) {
	s := New()
	k := Key{Node: "a", Port: "x"}
	s.Set(k, 1.0)

	// No previous iteration yet: delta must not look converged.
	if d := s.Delta(k); !math.IsInf(d, 1) {
		t.Errorf("Delta without previous = %v, want +Inf", d)
	}

	s.BeginIteration()
	s.Set(k, 1.25)

	if d := s.Delta(k); math.Abs(d-0.25) > 1e-12 {
		t.Errorf("Delta = %v, want 0.25", d)
	}

	other := Key{Node: "b", Port: "y"}
	s.Set(other, 5.0)
	if d := s.MaxDelta([]Key{k, other}); !math.IsInf(d, 1) {
		t.Errorf("MaxDelta with unseen key = %v, want +Inf", d)
	}
	if d := s.MaxDelta(nil); d != 0 {
		t.Errorf("MaxDelta over no keys = %v, want 0", d)
	}
}

func TestFromInitial(t *testing.T) {
	init := map[Key]float64{
		{Node: "sensor", Port: "temperature"}: 80.0,
	}
	s := FromInitial(init)

	if got := s.Get(Key{Node: "sensor", Port: "temperature"}); got != 80.0 {
		t.Errorf("initial value = %v, want 80", got)
	}

	// The input map must be copied.
	init[Key{Node: "sensor", Port: "temperature"}] = 0
	if got := s.Get(Key{Node: "sensor", Port: "temperature"}); got != 80.0 {
		t.Error("FromInitial aliased the caller's map")
	}
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("motor-1.current")
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	if k.Node != "motor-1" || k.Port != "current" {
		t.Errorf("ParseKey = %+v", k)
	}

	for _, bad := range []string{"", "noport", ".port", "node."} {
		if _, err := ParseKey(bad); err == nil {
			t.Errorf("ParseKey(%q) accepted invalid key", bad)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := New()
	k := Key{Node: "a", Port: "x"}
	s.Set(k, 1.0)
	s.BeginIteration()
	s.Set(k, 2.0)

	c := s.Clone()
	c.Set(k, 99.0)

	if s.Get(k) != 2.0 {
		t.Error("Clone shares current values with the original")
	}
	if prev, _ := c.Previous(k); prev != 1.0 {
		t.Errorf("Clone previous = %v, want 1.0", prev)
	}
}
