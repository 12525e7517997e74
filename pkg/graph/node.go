// Package graph models a physical machine as a directed graph of computing
// nodes (motors, heaters, hydraulic actuators) joined by port-to-port edges.
// Edges carry scalar values; edges flagged as feedback close physical loops
// (e.g. heat <-> resistance) and are resolved by the solver's fixed-point
// iteration rather than by single-pass evaluation.
package graph

// NodeSpec is the external description of one node, as delivered by the
// graph-authoring front end.
type NodeSpec struct {
	ID     string             `json:"id"`
	Type   string             `json:"type"`
	Params map[string]float64 `json:"params,omitempty"`
	// Expression is only meaningful for formula nodes.
	Expression  string   `json:"expression,omitempty"`
	InputPorts  []string `json:"input_ports,omitempty"`
	OutputPorts []string `json:"output_ports,omitempty"`
}

// EdgeSpec connects an output port of one node to an input port of another.
// Feedback marks the edge as a loop-closure: it is excluded from scheduling
// and its value is taken from the previous solver iteration.
type EdgeSpec struct {
	FromNode string `json:"from_node"`
	FromPort string `json:"from_port"`
	ToNode   string `json:"to_node"`
	ToPort   string `json:"to_port"`
	Feedback bool   `json:"is_feedback"`
}

// Node is the capability contract every component variant implements.
// Compute must be a pure function of the node's parameters and the supplied
// input values: no state outside the declared ports is read or written.
type Node interface {
	ID() string
	Type() string
	// Params returns a copy of the node's configuration parameters.
	Params() map[string]float64
	InputPorts() []string
	OutputPorts() []string
	// Compute maps input port values to output port values. An input port
	// absent from the map falls back to the parameter of the same name,
	// then to the variant's documented default.
	Compute(inputs map[string]float64) (map[string]float64, error)
}

// base carries the identity and port bookkeeping shared by all variants.
type base struct {
	id      string
	typ     string
	params  map[string]float64
	inputs  []string
	outputs []string
}

// newBase copies the spec and fills in the variant's canonical port names
// when the spec declares none.
func newBase(spec NodeSpec, defaultInputs, defaultOutputs []string) base {
	params := make(map[string]float64, len(spec.Params))
	for k, v := range spec.Params {
		params[k] = v
	}

	inputs := spec.InputPorts
	if len(inputs) == 0 {
		inputs = defaultInputs
	}
	outputs := spec.OutputPorts
	if len(outputs) == 0 {
		outputs = defaultOutputs
	}

	return base{
		id:      spec.ID,
		typ:     spec.Type,
		params:  params,
		inputs:  append([]string(nil), inputs...),
		outputs: append([]string(nil), outputs...),
	}
}

func (b *base) ID() string   { return b.id }
func (b *base) Type() string { return b.typ }

func (b *base) Params() map[string]float64 {
	out := make(map[string]float64, len(b.params))
	for k, v := range b.params {
		out[k] = v
	}
	return out
}

func (b *base) InputPorts() []string  { return append([]string(nil), b.inputs...) }
func (b *base) OutputPorts() []string { return append([]string(nil), b.outputs...) }

// in resolves the value of the idx-th declared input port: wired value
// first, then the node parameter of the same name, then zero. The parameter
// fallback is what makes an unwired input sweepable.
func (b *base) in(inputs map[string]float64, idx int, canonical string) float64 {
	name := canonical
	if idx < len(b.inputs) {
		name = b.inputs[idx]
	}
	if v, ok := inputs[name]; ok {
		return v
	}
	if v, ok := b.params[name]; ok {
		return v
	}
	return 0
}

// outName returns the idx-th declared output port name.
func (b *base) outName(idx int, canonical string) string {
	if idx < len(b.outputs) {
		return b.outputs[idx]
	}
	return canonical
}

// param returns a configuration parameter or its documented default.
func (b *base) param(name string, def float64) float64 {
	if v, ok := b.params[name]; ok {
		return v
	}
	return def
}
