package api

import (
	"time"

	"github.com/voltaic-labs/sigraph/pkg/fault"
	"github.com/voltaic-labs/sigraph/pkg/graph"
	"github.com/voltaic-labs/sigraph/pkg/signature"
)

// API Request/Response Types

// GraphRequest carries a graph description: node specs plus the edges
// wiring their ports.
type GraphRequest struct {
	Nodes []graph.NodeSpec `json:"nodes"`
	Edges []graph.EdgeSpec `json:"edges,omitempty"`
}

// SolveRequest represents a solve execution request. Initial conditions are
// keyed "node.port". Epsilon and MaxIterations override the server defaults
// when positive.
type SolveRequest struct {
	Graph         GraphRequest       `json:"graph"`
	Initial       map[string]float64 `json:"initial,omitempty"`
	Epsilon       float64            `json:"epsilon,omitempty"`
	MaxIterations int                `json:"max_iterations,omitempty"`
}

// SolveResponse represents a converged solve
type SolveResponse struct {
	Values     map[string]float64 `json:"values"`
	Iterations int                `json:"iterations"`
	Time       string             `json:"time"`
}

// OrderRequest represents an evaluation-order request
type OrderRequest struct {
	Graph GraphRequest `json:"graph"`
}

// OrderResponse lists node ids in evaluation order, with the feedback
// edges the order excludes
type OrderResponse struct {
	Order    []string         `json:"order"`
	Feedback []graph.EdgeSpec `json:"feedback,omitempty"`
	Time     string           `json:"time"`
}

// SweepRequest represents a parameter sweep request. The resulting
// signature is stored in the library.
type SweepRequest struct {
	Graph     GraphRequest       `json:"graph"`
	Label     string             `json:"label" validate:"required,max=200"`
	Node      string             `json:"node" validate:"required"`
	Port      string             `json:"port" validate:"required"`
	ParamNode string             `json:"param_node,omitempty"`
	Param     string             `json:"param" validate:"required"`
	Min       float64            `json:"min"`
	Max       float64            `json:"max"`
	Samples   int                `json:"samples" validate:"required,min=1"`
	Initial   map[string]float64 `json:"initial,omitempty"`
}

// SweepResponse returns the stored signature
type SweepResponse struct {
	Signature signature.Signature `json:"signature"`
	Time      string              `json:"time"`
}

// StoreSignatureRequest stores a caller-supplied vector in the library,
// e.g. one captured on a machine in a known fault condition.
type StoreSignatureRequest struct {
	Label     string    `json:"label" validate:"required,max=200"`
	Node      string    `json:"node,omitempty"`
	Port      string    `json:"port,omitempty"`
	ParamNode string    `json:"param_node,omitempty"`
	Param     string    `json:"param,omitempty"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Values    []float64 `json:"values" validate:"required,min=1"`
}

// SignatureListResponse lists stored signatures in insertion order
type SignatureListResponse struct {
	Signatures []signature.Signature `json:"signatures"`
	Count      int                   `json:"count"`
}

// DiagnoseRequest matches a live current vector against the library.
// Metric and Threshold fall back to the server defaults when omitted.
type DiagnoseRequest struct {
	Live      []float64 `json:"live" validate:"required,min=1"`
	Metric    string    `json:"metric,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
}

// DiagnoseResponse represents a diagnosis result
type DiagnoseResponse struct {
	Report *fault.Report `json:"report"`
	Time   string        `json:"time"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Uptime     string    `json:"uptime"`
	Signatures int       `json:"signatures"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
