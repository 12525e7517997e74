package graph

import "math"

func init() {
	Register("motor", newMotorNode)
	Register("heater", newHeaterNode)
	Register("hydraulic", newHydraulicNode)
	Register("source", newSourceNode)
	Register("formula", newFormulaNode)
}

// motorNode converts torque and speed (RPM) into a current draw:
//
//	omega   = speed * 2*pi / 60
//	current = torque * omega / (efficiency * voltage)
//
// Params: voltage (default 230), efficiency (default 0.85).
type motorNode struct {
	base
}

func newMotorNode(spec NodeSpec) (Node, error) {
	return &motorNode{
		base: newBase(spec, []string{"torque", "speed"}, []string{"current"}),
	}, nil
}

func (n *motorNode) Compute(inputs map[string]float64) (map[string]float64, error) {
	torque := n.in(inputs, 0, "torque")
	speed := n.in(inputs, 1, "speed")
	voltage := n.param("voltage", 230.0)
	efficiency := n.param("efficiency", 0.85)

	omega := speed * 2 * math.Pi / 60 // RPM -> rad/s
	power := torque * omega

	current := 0.0
	if denom := efficiency * voltage; denom != 0 {
		current = power / denom
	}

	return map[string]float64{n.outName(0, "current"): current}, nil
}

// heaterNode models temperature-dependent resistance and the resulting
// current draw:
//
//	R(T)    = r0 * (1 + alpha*(T - t0))
//	current = voltage / R(T)
//
// Params: r0 (default 10), alpha (default 0.004), t0 (default 25),
// voltage (default 230). Outputs resistance then current, so the resistance
// can be wired back into an upstream thermal node to close a feedback loop.
type heaterNode struct {
	base
}

func newHeaterNode(spec NodeSpec) (Node, error) {
	return &heaterNode{
		base: newBase(spec, []string{"temperature"}, []string{"resistance", "current"}),
	}, nil
}

func (n *heaterNode) Compute(inputs map[string]float64) (map[string]float64, error) {
	temperature := n.in(inputs, 0, "temperature")
	r0 := n.param("r0", 10.0)
	alpha := n.param("alpha", 0.004)
	t0 := n.param("t0", 25.0)
	voltage := n.param("voltage", 230.0)

	resistance := r0 * (1 + alpha*(temperature-t0))
	current := 0.0
	if resistance != 0 {
		current = voltage / resistance
	}

	return map[string]float64{
		n.outName(0, "resistance"): resistance,
		n.outName(1, "current"):    current,
	}, nil
}

// hydraulicNode converts pressure and flow rate into a current draw:
//
//	power   = pressure * flow_rate
//	current = power / (efficiency * voltage)
//
// Params: voltage (default 400), efficiency (default 0.80).
type hydraulicNode struct {
	base
}

func newHydraulicNode(spec NodeSpec) (Node, error) {
	return &hydraulicNode{
		base: newBase(spec, []string{"pressure", "flow_rate"}, []string{"current"}),
	}, nil
}

func (n *hydraulicNode) Compute(inputs map[string]float64) (map[string]float64, error) {
	pressure := n.in(inputs, 0, "pressure")
	flowRate := n.in(inputs, 1, "flow_rate")
	voltage := n.param("voltage", 400.0)
	efficiency := n.param("efficiency", 0.80)

	power := pressure * flowRate
	current := 0.0
	if denom := efficiency * voltage; denom != 0 {
		current = power / denom
	}

	return map[string]float64{n.outName(0, "current"): current}, nil
}

// sourceNode injects a constant value into the graph. Param: value
// (default 0). Handy for fixed operating points and test fixtures.
type sourceNode struct {
	base
}

func newSourceNode(spec NodeSpec) (Node, error) {
	return &sourceNode{
		base: newBase(spec, nil, []string{"value"}),
	}, nil
}

func (n *sourceNode) Compute(inputs map[string]float64) (map[string]float64, error) {
	return map[string]float64{n.outName(0, "value"): n.param("value", 0)}, nil
}
