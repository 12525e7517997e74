package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors for graph construction and validation.
var (
	ErrDuplicateNode    = errors.New("duplicate node id")
	ErrUnknownType      = errors.New("unknown node type")
	ErrUnknownNode      = errors.New("edge references unknown node")
	ErrDanglingPort     = errors.New("edge references undeclared port")
	ErrPortConflict     = errors.New("input port has multiple drivers")
	ErrNonFeedbackCycle = errors.New("cycle contains edges not marked as feedback")
	ErrEmptyGraph       = errors.New("graph has no nodes")
)

// ValidationError provides structured context for a failed Build. It always
// wraps one of the sentinel errors above and carries the offending node,
// edge or cycle so the caller can diagnose without re-running validation.
type ValidationError struct {
	Cause  error
	NodeID string    // offending node (if applicable)
	Edge   *EdgeSpec // offending edge (if applicable)
	Cycle  []string  // members of an offending non-feedback cycle
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.Edge != nil:
		return fmt.Sprintf("%v: %s.%s -> %s.%s",
			e.Cause, e.Edge.FromNode, e.Edge.FromPort, e.Edge.ToNode, e.Edge.ToPort)
	case len(e.Cycle) > 0:
		return fmt.Sprintf("%v: %s", e.Cause, strings.Join(e.Cycle, " -> "))
	case e.NodeID != "":
		return fmt.Sprintf("%v: %s", e.Cause, e.NodeID)
	default:
		return e.Cause.Error()
	}
}

// Unwrap returns the underlying sentinel for error chain support.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func validationErr(cause error) *ValidationError {
	return &ValidationError{Cause: cause}
}

func (e *ValidationError) withNode(id string) *ValidationError {
	e.NodeID = id
	return e
}

func (e *ValidationError) withEdge(edge EdgeSpec) *ValidationError {
	e.Edge = &edge
	return e
}

func (e *ValidationError) withCycle(cycle []string) *ValidationError {
	e.Cycle = cycle
	return e
}

// ComputeError wraps a node evaluation failure with the node that caused it.
type ComputeError struct {
	NodeID string
	Cause  error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("node %s: compute failed: %v", e.NodeID, e.Cause)
}

func (e *ComputeError) Unwrap() error {
	return e.Cause
}
