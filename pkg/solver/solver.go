// Package solver turns a validated graph model into converged steady-state
// values. The Solver interface is a strategy seam: DAGSolver (topological
// evaluation + fixed-point iteration over feedback edges) is the default,
// and alternative numerical strategies can be substituted without touching
// the model, the sweep runner or the fault matcher.
package solver

import (
	"fmt"

	"github.com/voltaic-labs/sigraph/pkg/graph"
	"github.com/voltaic-labs/sigraph/pkg/state"
)

// Default convergence parameters.
const (
	DefaultEpsilon       = 0.001
	DefaultMaxIterations = 100
)

// Options bound a single solve. Zero values mean the documented defaults.
type Options struct {
	// Epsilon is the convergence threshold: the solve stops once the
	// largest per-iteration change across feedback variables drops below it.
	Epsilon float64
	// MaxIterations is the iteration budget before the solve fails.
	MaxIterations int
}

func (o Options) withDefaults() Options {
	if o.Epsilon <= 0 {
		o.Epsilon = DefaultEpsilon
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

// Solver resolves execution order and runs the graph to a steady state.
// Implementations must be safe for concurrent use: all per-solve state
// lives in the State value threaded through the call.
type Solver interface {
	// Solve evaluates the model starting from the given initial conditions
	// (nil means empty) and returns the final state plus the number of
	// outer iterations it took. The initial state is never mutated.
	Solve(m *graph.Model, initial *state.State, opts Options) (*state.State, int, error)
}

// ConvergenceError reports a solve that exhausted its iteration budget with
// the feedback variables still moving by more than epsilon.
type ConvergenceError struct {
	Iterations int
	LastDelta  float64
	Epsilon    float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("no convergence after %d iterations: delta %g >= epsilon %g",
		e.Iterations, e.LastDelta, e.Epsilon)
}
