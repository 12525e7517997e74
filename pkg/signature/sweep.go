package signature

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/voltaic-labs/sigraph/pkg/graph"
	"github.com/voltaic-labs/sigraph/pkg/logging"
	"github.com/voltaic-labs/sigraph/pkg/parallel"
	"github.com/voltaic-labs/sigraph/pkg/solver"
	"github.com/voltaic-labs/sigraph/pkg/state"
)

// Sweep validation errors.
var (
	ErrNoSamples     = errors.New("sample count must be at least 1")
	ErrInvalidRange  = errors.New("sweep range minimum exceeds maximum")
	ErrMissingOutput = errors.New("observed output not produced by solve")
)

// SweepSpec describes one parameter sweep: which parameter to vary, over
// what range, and which output variable to record at each sample.
type SweepSpec struct {
	// Node and Port identify the output variable to record.
	Node string `json:"node"`
	Port string `json:"port"`

	// ParamNode and Param identify the parameter to vary. An empty
	// ParamNode means the parameter lives on the observed node itself.
	ParamNode string  `json:"param_node,omitempty"`
	Param     string  `json:"param"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Samples   int     `json:"samples"`
}

func (s SweepSpec) validate() error {
	if s.Samples < 1 {
		return ErrNoSamples
	}
	if s.Min > s.Max {
		return ErrInvalidRange
	}
	return nil
}

// SampleError reports the first sample, in sweep order, whose solve failed.
type SampleError struct {
	Index int
	Value float64
	Cause error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sweep sample %d (parameter value %g): %v", e.Index, e.Value, e.Cause)
}

func (e *SampleError) Unwrap() error { return e.Cause }

// Runner executes sweeps: one independent solve per sample, fanned out
// across a worker pool. Each sample gets its own model clone so concurrent
// solves never share node state.
type Runner struct {
	solver solver.Solver
	pool   *parallel.WorkerPool
	opts   solver.Options
	logger logging.Logger
}

// NewRunner creates a sweep runner. A nil logger disables logging.
func NewRunner(s solver.Solver, pool *parallel.WorkerPool, opts solver.Options, logger logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Runner{solver: s, pool: pool, opts: opts, logger: logger}
}

// Sweep solves the model once per sample of the swept parameter and
// returns the recorded output values as an unstored signature (no id).
// All samples start from the same initial conditions.
func (r *Runner) Sweep(ctx context.Context, m *graph.Model, spec SweepSpec, initial *state.State, label string) (Signature, error) {
	if err := spec.validate(); err != nil {
		return Signature{}, err
	}

	paramNode := spec.ParamNode
	if paramNode == "" {
		paramNode = spec.Node
	}

	samples := SampleValues(spec.Min, spec.Max, spec.Samples)
	values := make([]float64, len(samples))
	outKey := state.Key{Node: spec.Node, Port: spec.Port}

	start := time.Now()
	err := r.pool.ForEach(ctx, len(samples), func(i int) error {
		value := samples[i]

		clone, err := m.Clone()
		if err != nil {
			return &SampleError{Index: i, Value: value, Cause: err}
		}
		if err := clone.SetParam(paramNode, spec.Param, value); err != nil {
			return &SampleError{Index: i, Value: value, Cause: err}
		}

		final, _, err := r.solver.Solve(clone, initial, r.opts)
		if err != nil {
			return &SampleError{Index: i, Value: value, Cause: err}
		}

		out, ok := final.Lookup(outKey)
		if !ok {
			return &SampleError{Index: i, Value: value,
				Cause: fmt.Errorf("%w: %s", ErrMissingOutput, outKey)}
		}
		values[i] = out
		return nil
	})
	if err != nil {
		return Signature{}, err
	}

	r.logger.Info("sweep finished",
		logging.NodeID(spec.Node),
		logging.Port(spec.Port),
		logging.Count(len(samples)),
		logging.Latency(time.Since(start)),
	)

	return Signature{
		Label:     label,
		Node:      spec.Node,
		Port:      spec.Port,
		ParamNode: paramNode,
		Param:     spec.Param,
		Min:       spec.Min,
		Max:       spec.Max,
		Samples:   spec.Samples,
		Values:    values,
	}, nil
}
