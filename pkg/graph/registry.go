package graph

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor builds a node variant from its external description.
type Constructor func(spec NodeSpec) (Node, error)

// Registry maps node type tags to constructors. New physical component
// variants are added by registering a constructor; the solver never needs
// to know about them.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register adds a constructor for a type tag, replacing any existing one.
func (r *Registry) Register(typeTag string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[typeTag] = ctor
}

// New instantiates a node from its spec. An unregistered type tag yields a
// ValidationError wrapping ErrUnknownType, so bad graphs fail at build time
// rather than mid-solve.
func (r *Registry) New(spec NodeSpec) (Node, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[spec.Type]
	r.mu.RUnlock()

	if !ok {
		return nil, &ValidationError{
			Cause:  fmt.Errorf("%w: %q (registered: %v)", ErrUnknownType, spec.Type, r.Types()),
			NodeID: spec.ID,
		}
	}
	return ctor(spec)
}

// Types returns all registered type tags in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.ctors))
	for t := range r.ctors {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// defaultRegistry holds the built-in component variants.
var defaultRegistry = NewRegistry()

// Register adds a constructor to the default registry.
func Register(typeTag string, ctor Constructor) {
	defaultRegistry.Register(typeTag, ctor)
}

// DefaultRegistry returns the registry pre-loaded with the built-in variants.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
