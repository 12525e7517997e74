// Package state holds the variable values produced and consumed by graph
// nodes during a solve. A State tracks the current iteration's values plus a
// shadow copy of the previous iteration's, which is what the solver's
// convergence check reads.
package state

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrNonFiniteValue is returned when a NaN or infinite value is written.
var ErrNonFiniteValue = errors.New("non-finite value")

// Key identifies a single variable: one output (or seeded input) port on one
// node.
type Key struct {
	Node string
	Port string
}

// String returns the canonical "node.port" form used on the wire.
func (k Key) String() string {
	return k.Node + "." + k.Port
}

// ParseKey parses the canonical "node.port" form. The port is everything
// after the first dot, so node ids themselves must not contain dots.
func ParseKey(s string) (Key, error) {
	idx := strings.Index(s, ".")
	if idx <= 0 || idx == len(s)-1 {
		return Key{}, fmt.Errorf("invalid variable key %q: want node.port", s)
	}
	return Key{Node: s[:idx], Port: s[idx+1:]}, nil
}

// State is the value container threaded through solver calls. It is an
// explicit value (passed in, returned out), never shared between concurrent
// solves, so it carries no locking.
type State struct {
	current  map[Key]float64
	previous map[Key]float64
}

// New creates an empty state.
func New() *State {
	return &State{
		current:  make(map[Key]float64),
		previous: make(map[Key]float64),
	}
}

// FromInitial creates a state pre-populated with initial conditions
// (e.g. sensor inputs). The map is copied.
func FromInitial(initial map[Key]float64) *State {
	s := New()
	for k, v := range initial {
		s.current[k] = v
	}
	return s
}

// Get returns the current value of key, or 0 if unset.
func (s *State) Get(k Key) float64 {
	return s.current[k]
}

// Lookup returns the current value of key and whether it is set.
func (s *State) Lookup(k Key) (float64, bool) {
	v, ok := s.current[k]
	return v, ok
}

// Set writes a value. Non-finite values are rejected so a diverging node
// fails the solve instead of poisoning downstream computations.
func (s *State) Set(k Key, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s = %v", ErrNonFiniteValue, k, v)
	}
	s.current[k] = v
	return nil
}

// Has reports whether key has a current value.
func (s *State) Has(k Key) bool {
	_, ok := s.current[k]
	return ok
}

// Len returns the number of current variables.
func (s *State) Len() int {
	return len(s.current)
}

// Snapshot returns an immutable copy of the current values.
func (s *State) Snapshot() map[Key]float64 {
	out := make(map[Key]float64, len(s.current))
	for k, v := range s.current {
		out[k] = v
	}
	return out
}

// Values returns the current values keyed by the canonical "node.port"
// string form, suitable for serialization.
func (s *State) Values() map[string]float64 {
	out := make(map[string]float64, len(s.current))
	for k, v := range s.current {
		out[k.String()] = v
	}
	return out
}

// Keys returns the current variable keys in sorted order.
func (s *State) Keys() []Key {
	keys := make([]Key, 0, len(s.current))
	for k := range s.current {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Node != keys[j].Node {
			return keys[i].Node < keys[j].Node
		}
		return keys[i].Port < keys[j].Port
	})
	return keys
}

// BeginIteration rolls the current values into the previous-iteration shadow
// copy. The solver calls this once at the top of every outer iteration.
func (s *State) BeginIteration() {
	prev := make(map[Key]float64, len(s.current))
	for k, v := range s.current {
		prev[k] = v
	}
	s.previous = prev
}

// Previous returns the previous iteration's value of key and whether it was
// set at the time BeginIteration was called.
func (s *State) Previous(k Key) (float64, bool) {
	v, ok := s.previous[k]
	return v, ok
}

// Delta returns the absolute difference between the current value of key and
// its previous-iteration value. A key with no previous value yields +Inf so
// an incomplete iteration can never pass a convergence check.
func (s *State) Delta(k Key) float64 {
	prev, ok := s.previous[k]
	if !ok {
		return math.Inf(1)
	}
	return math.Abs(s.current[k] - prev)
}

// MaxDelta returns the largest Delta across keys, 0 when keys is empty.
func (s *State) MaxDelta(keys []Key) float64 {
	max := 0.0
	for _, k := range keys {
		if d := s.Delta(k); d > max {
			max = d
		}
	}
	return max
}

// Clone returns an independent copy of the state, current and previous
// values included.
func (s *State) Clone() *State {
	out := &State{
		current:  make(map[Key]float64, len(s.current)),
		previous: make(map[Key]float64, len(s.previous)),
	}
	for k, v := range s.current {
		out.current[k] = v
	}
	for k, v := range s.previous {
		out.previous[k] = v
	}
	return out
}
