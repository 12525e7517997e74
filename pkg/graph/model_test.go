package graph

import (
	"errors"
	"testing"
)

func chainSpecs() ([]NodeSpec, []EdgeSpec) {
	nodes := []NodeSpec{
		{ID: "a", Type: "formula", Expression: "1 + 1", OutputPorts: []string{"out"}},
		{ID: "b", Type: "formula", Expression: "x * 2", InputPorts: []string{"x"}, OutputPorts: []string{"out"}},
		{ID: "c", Type: "formula", Expression: "x + 10", InputPorts: []string{"x"}, OutputPorts: []string{"out"}},
	}
	edges := []EdgeSpec{
		{FromNode: "a", FromPort: "out", ToNode: "b", ToPort: "x"},
		{FromNode: "b", FromPort: "out", ToNode: "c", ToPort: "x"},
	}
	return nodes, edges
}

func TestBuildValidGraph(t *testing.T) {
	nodes, edges := chainSpecs()
	m, err := Build(nodes, edges)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if m.NodeCount() != 3 || m.EdgeCount() != 2 {
		t.Errorf("counts = (%d, %d), want (3, 2)", m.NodeCount(), m.EdgeCount())
	}
}

func TestBuildRejectsDuplicateID(t *testing.T) {
	nodes := []NodeSpec{
		{ID: "a", Type: "source"},
		{ID: "a", Type: "source"},
	}
	_, err := Build(nodes, nil)
	if !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("expected ErrDuplicateNode, got %v", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) || verr.NodeID != "a" {
		t.Errorf("validation error should cite node a, got %+v", err)
	}
}

func TestBuildRejectsUnknownType(t *testing.T) {
	nodes := []NodeSpec{{ID: "x", Type: "flux_capacitor"}}
	_, err := Build(nodes, nil)
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestBuildRejectsDanglingPort(t *testing.T) {
	nodes := []NodeSpec{
		{ID: "a", Type: "source"},
		{ID: "b", Type: "motor"},
	}
	tests := []struct {
		name string
		edge EdgeSpec
		want error
	}{
		{
			name: "undeclared source port",
			edge: EdgeSpec{FromNode: "a", FromPort: "bogus", ToNode: "b", ToPort: "torque"},
			want: ErrDanglingPort,
		},
		{
			name: "undeclared destination port",
			edge: EdgeSpec{FromNode: "a", FromPort: "value", ToNode: "b", ToPort: "bogus"},
			want: ErrDanglingPort,
		},
		{
			name: "unknown destination node",
			edge: EdgeSpec{FromNode: "a", FromPort: "value", ToNode: "ghost", ToPort: "torque"},
			want: ErrUnknownNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(nodes, []EdgeSpec{tt.edge})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}

			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Edge == nil {
				t.Errorf("validation error should cite the edge, got %+v", err)
			}
		})
	}
}

func TestBuildRejectsMultipleDrivers(t *testing.T) {
	nodes := []NodeSpec{
		{ID: "s1", Type: "source"},
		{ID: "s2", Type: "source"},
		{ID: "m", Type: "motor"},
	}
	edges := []EdgeSpec{
		{FromNode: "s1", FromPort: "value", ToNode: "m", ToPort: "torque"},
		{FromNode: "s2", FromPort: "value", ToNode: "m", ToPort: "torque"},
	}
	_, err := Build(nodes, edges)
	if !errors.Is(err, ErrPortConflict) {
		t.Errorf("expected ErrPortConflict, got %v", err)
	}
}

func TestBuildRejectsNonFeedbackCycle(t *testing.T) {
	nodes := []NodeSpec{
		{ID: "x", Type: "formula", Expression: "b_in", InputPorts: []string{"b_in"}, OutputPorts: []string{"out"}},
		{ID: "y", Type: "formula", Expression: "a_in", InputPorts: []string{"a_in"}, OutputPorts: []string{"out"}},
	}
	edges := []EdgeSpec{
		{FromNode: "x", FromPort: "out", ToNode: "y", ToPort: "a_in"},
		{FromNode: "y", FromPort: "out", ToNode: "x", ToPort: "b_in"}, // not flagged
	}
	_, err := Build(nodes, edges)
	if !errors.Is(err, ErrNonFeedbackCycle) {
		t.Fatalf("expected ErrNonFeedbackCycle, got %v", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Cycle) != 2 {
		t.Errorf("expected a 2-node cycle in the error, got %+v", verr)
	}
}

func TestBuildAcceptsDeclaredFeedbackCycle(t *testing.T) {
	nodes := []NodeSpec{
		{ID: "x", Type: "formula", Expression: "0.5 * b_in + 1", InputPorts: []string{"b_in"}, OutputPorts: []string{"out"}},
		{ID: "y", Type: "formula", Expression: "a_in", InputPorts: []string{"a_in"}, OutputPorts: []string{"out"}},
	}
	edges := []EdgeSpec{
		{FromNode: "x", FromPort: "out", ToNode: "y", ToPort: "a_in"},
		{FromNode: "y", FromPort: "out", ToNode: "x", ToPort: "b_in", Feedback: true},
	}
	m, err := Build(nodes, edges)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := len(m.FeedbackEdges()); got != 1 {
		t.Errorf("FeedbackEdges = %d, want 1", got)
	}
}

func TestTopologicalOrderIsValid(t *testing.T) {
	nodes, edges := chainSpecs()
	m, err := Build(nodes, edges)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	order := m.TopologicalOrder()
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}

	for _, e := range m.Edges() {
		if e.Feedback {
			continue
		}
		if pos[e.FromNode] >= pos[e.ToNode] {
			t.Errorf("edge %s -> %s violates order %v", e.FromNode, e.ToNode, order)
		}
	}
}

func TestTopologicalOrderIsDeterministic(t *testing.T) {
	// Diamond with independent branches: ties must resolve by ascending id.
	nodes := []NodeSpec{
		{ID: "root", Type: "source"},
		{ID: "b1", Type: "formula", Expression: "v", InputPorts: []string{"v"}, OutputPorts: []string{"out"}},
		{ID: "b2", Type: "formula", Expression: "v", InputPorts: []string{"v"}, OutputPorts: []string{"out"}},
		{ID: "b3", Type: "formula", Expression: "v", InputPorts: []string{"v"}, OutputPorts: []string{"out"}},
	}
	edges := []EdgeSpec{
		{FromNode: "root", FromPort: "value", ToNode: "b1", ToPort: "v"},
		{FromNode: "root", FromPort: "value", ToNode: "b2", ToPort: "v"},
		{FromNode: "root", FromPort: "value", ToNode: "b3", ToPort: "v"},
	}

	m, err := Build(nodes, edges)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []string{"root", "b1", "b2", "b3"}
	for i := 0; i < 10; i++ {
		order := m.TopologicalOrder()
		if len(order) != len(want) {
			t.Fatalf("order length = %d, want %d", len(order), len(want))
		}
		for j := range want {
			if order[j] != want[j] {
				t.Fatalf("run %d: order = %v, want %v", i, order, want)
			}
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	nodes := []NodeSpec{
		{ID: "s", Type: "source", Params: map[string]float64{"value": 1}},
	}
	m, err := Build(nodes, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	clone, err := m.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if err := clone.SetParam("s", "value", 42); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}

	orig, _ := m.Node("s")
	if orig.Params()["value"] != 1 {
		t.Error("SetParam on clone mutated the original model")
	}
	mod, _ := clone.Node("s")
	if mod.Params()["value"] != 42 {
		t.Error("SetParam did not take effect on the clone")
	}
}

func TestSetParamUnknownNode(t *testing.T) {
	m, err := Build([]NodeSpec{{ID: "s", Type: "source"}}, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := m.SetParam("ghost", "value", 1); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
}

func TestRegistryExtension(t *testing.T) {
	reg := NewRegistry()
	reg.Register("doubler", func(spec NodeSpec) (Node, error) {
		return &testDoubler{base: newBase(spec, []string{"in"}, []string{"out"})}, nil
	})

	m, err := BuildWith(reg, []NodeSpec{{ID: "d", Type: "doubler"}}, nil)
	if err != nil {
		t.Fatalf("BuildWith failed: %v", err)
	}

	n, _ := m.Node("d")
	out, err := n.Compute(map[string]float64{"in": 21})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if out["out"] != 42 {
		t.Errorf("custom node output = %v, want 42", out["out"])
	}
}

type testDoubler struct {
	base
}

func (n *testDoubler) Compute(inputs map[string]float64) (map[string]float64, error) {
	return map[string]float64{n.outName(0, "out"): 2 * n.in(inputs, 0, "in")}, nil
}
