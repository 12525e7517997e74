// Package signature builds and stores current-signature libraries: for a
// swept parameter range, the converged value of one observed output port is
// recorded per sample, and the resulting vectors are matched against live
// measurements for fault detection.
package signature

import (
	"time"
)

// Signature is one sweep result: the observed output values of a node port
// across an evenly spaced parameter range.
type Signature struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// Node and Port identify the observed output variable.
	Node string `json:"node"`
	Port string `json:"port"`

	// ParamNode and Param identify the swept parameter.
	ParamNode string `json:"param_node"`
	Param     string `json:"param"`

	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Samples int     `json:"samples"`

	// Values holds one converged output value per sample, in sweep order.
	Values []float64 `json:"values"`

	CreatedAt time.Time `json:"created_at"`
}

// Dimension returns the length of the signature vector.
func (s *Signature) Dimension() int { return len(s.Values) }

// SampleValues returns the swept parameter values for a range, inclusive of
// both endpoints. A single-sample sweep takes the midpoint of the range.
func SampleValues(min, max float64, samples int) []float64 {
	if samples <= 0 {
		return nil
	}
	if samples == 1 {
		return []float64{(min + max) / 2}
	}

	values := make([]float64, samples)
	step := (max - min) / float64(samples-1)
	for i := range values {
		values[i] = min + float64(i)*step
	}
	// Guard against float drift on the last point.
	values[samples-1] = max
	return values
}
