package graph

import (
	"sort"
)

// Model is a validated, immutable graph: nodes instantiated from their
// specs, edges classified as forward or feedback, and a deterministic
// topological order precomputed over the forward edges. The only way to
// derive a modified model is Clone + SetParam, which is how parameter
// sweeps get per-sample copies without shared mutable state.
type Model struct {
	registry *Registry
	specs    []NodeSpec
	edges    []EdgeSpec

	nodes   map[string]Node
	order   []string
	inEdges map[string][]EdgeSpec
}

// Build validates the graph description against the default registry and
// returns an executable model. See BuildWith for the validation rules.
func Build(nodes []NodeSpec, edges []EdgeSpec) (*Model, error) {
	return BuildWith(DefaultRegistry(), nodes, edges)
}

// BuildWith validates structural invariants and classifies cycles:
//   - node ids must be unique and type tags registered
//   - every edge endpoint must reference a declared port on an existing node
//   - an input port may have at most one driving edge
//   - removing the feedback-flagged edges must leave an acyclic graph; any
//     cycle that survives is reported with its member nodes
//
// All ports carry scalars, so port type compatibility holds by construction.
func BuildWith(registry *Registry, nodes []NodeSpec, edges []EdgeSpec) (*Model, error) {
	if len(nodes) == 0 {
		return nil, validationErr(ErrEmptyGraph)
	}

	m := &Model{
		registry: registry,
		specs:    copySpecs(nodes),
		edges:    append([]EdgeSpec(nil), edges...),
		nodes:    make(map[string]Node, len(nodes)),
		inEdges:  make(map[string][]EdgeSpec),
	}

	for _, spec := range m.specs {
		if _, exists := m.nodes[spec.ID]; exists {
			return nil, validationErr(ErrDuplicateNode).withNode(spec.ID)
		}
		node, err := registry.New(spec)
		if err != nil {
			if _, ok := err.(*ValidationError); ok {
				return nil, err
			}
			return nil, &ValidationError{Cause: err, NodeID: spec.ID}
		}
		m.nodes[spec.ID] = node
	}

	if err := m.validateEdges(); err != nil {
		return nil, err
	}

	order, err := m.topologicalSort()
	if err != nil {
		return nil, err
	}
	m.order = order

	for id := range m.nodes {
		sortEdges(m.inEdges[id])
	}

	return m, nil
}

func (m *Model) validateEdges() error {
	type portRef struct{ node, port string }
	drivers := make(map[portRef]bool)

	for _, e := range m.edges {
		from, ok := m.nodes[e.FromNode]
		if !ok {
			return validationErr(ErrUnknownNode).withEdge(e)
		}
		to, ok := m.nodes[e.ToNode]
		if !ok {
			return validationErr(ErrUnknownNode).withEdge(e)
		}
		if !containsPort(from.OutputPorts(), e.FromPort) {
			return validationErr(ErrDanglingPort).withEdge(e)
		}
		if !containsPort(to.InputPorts(), e.ToPort) {
			return validationErr(ErrDanglingPort).withEdge(e)
		}

		ref := portRef{e.ToNode, e.ToPort}
		if drivers[ref] {
			return validationErr(ErrPortConflict).withEdge(e)
		}
		drivers[ref] = true

		m.inEdges[e.ToNode] = append(m.inEdges[e.ToNode], e)
	}
	return nil
}

// topologicalSort runs Kahn's algorithm over the forward edges. Ties are
// broken by ascending node id so the order is deterministic across calls.
// Nodes left unprocessed sit on a cycle made of forward edges, which the
// feedback mechanism cannot resolve, so that is a validation error.
func (m *Model) topologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(m.nodes))
	successors := make(map[string][]string, len(m.nodes))
	for id := range m.nodes {
		inDegree[id] = 0
	}
	for _, e := range m.edges {
		if e.Feedback {
			continue
		}
		inDegree[e.ToNode]++
		successors[e.FromNode] = append(successors[e.FromNode], e.ToNode)
	}

	ready := make([]string, 0, len(m.nodes))
	for id, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	sorted := make([]string, 0, len(m.nodes))
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		sorted = append(sorted, current)

		released := false
		for _, succ := range successors[current] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				ready = append(ready, succ)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}

	if len(sorted) != len(m.nodes) {
		remaining := make(map[string]bool, len(m.nodes)-len(sorted))
		for id := range m.nodes {
			remaining[id] = true
		}
		for _, id := range sorted {
			delete(remaining, id)
		}
		cycle := m.extractForwardCycle(remaining, successors)
		return nil, validationErr(ErrNonFeedbackCycle).withCycle(cycle)
	}

	return sorted, nil
}

// extractForwardCycle finds one concrete cycle among the remaining nodes
// using DFS with three-color marking: a back edge onto a GRAY node closes
// the cycle, and parent pointers reconstruct its members.
func (m *Model) extractForwardCycle(remaining map[string]bool, successors map[string][]string) []string {
	const (
		white = 0 // unvisited
		gray  = 1 // in the recursion stack
		black = 2 // fully explored
	)

	color := make(map[string]int, len(remaining))
	parent := make(map[string]string, len(remaining))

	ids := make([]string, 0, len(remaining))
	for id := range remaining {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var found []string
	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, succ := range successors[id] {
			if found != nil {
				return
			}
			if !remaining[succ] {
				continue
			}
			switch color[succ] {
			case white:
				parent[succ] = id
				dfs(succ)
			case gray:
				// Back edge: walk the parent chain back to succ.
				cycle := []string{succ}
				for cur := id; cur != succ; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				// Reverse into edge order.
				for i, j := 1, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				found = cycle
			}
		}
		color[id] = black
	}

	for _, id := range ids {
		if color[id] == white && found == nil {
			dfs(id)
		}
	}
	return found
}

// TopologicalOrder returns the node ids in evaluation order (feedback edges
// excluded). The slice is a copy; the order is fixed at build time.
func (m *Model) TopologicalOrder() []string {
	return append([]string(nil), m.order...)
}

// Node returns the node with the given id.
func (m *Model) Node(id string) (Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// NodeIDs returns all node ids in sorted order.
func (m *Model) NodeIDs() []string {
	ids := make([]string, 0, len(m.nodes))
	for id := range m.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int { return len(m.nodes) }

// EdgeCount returns the number of edges, feedback included.
func (m *Model) EdgeCount() int { return len(m.edges) }

// Edges returns a copy of all edges.
func (m *Model) Edges() []EdgeSpec {
	return append([]EdgeSpec(nil), m.edges...)
}

// InEdges returns the edges driving the given node's input ports, in a
// deterministic order. The returned slice is shared; callers must not
// modify it.
func (m *Model) InEdges(id string) []EdgeSpec {
	return m.inEdges[id]
}

// FeedbackEdges returns all edges flagged as feedback, in declaration order.
func (m *Model) FeedbackEdges() []EdgeSpec {
	out := make([]EdgeSpec, 0)
	for _, e := range m.edges {
		if e.Feedback {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns an independent copy of the model with deep-copied node
// parameters. Sweep samples clone the validated template so concurrent
// solves never share mutable state.
func (m *Model) Clone() (*Model, error) {
	return BuildWith(m.registry, m.specs, m.edges)
}

// SetParam overrides one parameter on one node, rebuilding that node from
// its updated spec. It is intended for use on clones driven by a sweep.
func (m *Model) SetParam(nodeID, name string, value float64) error {
	for i := range m.specs {
		if m.specs[i].ID != nodeID {
			continue
		}
		if m.specs[i].Params == nil {
			m.specs[i].Params = make(map[string]float64, 1)
		}
		m.specs[i].Params[name] = value

		node, err := m.registry.New(m.specs[i])
		if err != nil {
			return err
		}
		m.nodes[nodeID] = node
		return nil
	}
	return validationErr(ErrUnknownNode).withNode(nodeID)
}

func copySpecs(specs []NodeSpec) []NodeSpec {
	out := make([]NodeSpec, len(specs))
	for i, s := range specs {
		out[i] = s
		if s.Params != nil {
			params := make(map[string]float64, len(s.Params))
			for k, v := range s.Params {
				params[k] = v
			}
			out[i].Params = params
		}
		out[i].InputPorts = append([]string(nil), s.InputPorts...)
		out[i].OutputPorts = append([]string(nil), s.OutputPorts...)
	}
	return out
}

func containsPort(ports []string, name string) bool {
	for _, p := range ports {
		if p == name {
			return true
		}
	}
	return false
}

func sortEdges(edges []EdgeSpec) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].ToPort != edges[j].ToPort {
			return edges[i].ToPort < edges[j].ToPort
		}
		if edges[i].FromNode != edges[j].FromNode {
			return edges[i].FromNode < edges[j].FromNode
		}
		return edges[i].FromPort < edges[j].FromPort
	})
}
