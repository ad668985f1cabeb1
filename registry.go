package outcome

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the outcome contracts of every operation.
// Operations are registered at startup; after that the registry is only read,
// so a single Registry may be shared by any number of concurrent dispatches.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]*Operation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]*Operation)}
}

// Register adds an operation after checking its contract invariants:
// pairwise-distinct tags and status codes, a bodiless 204, and well-formed
// header rules. The registry keeps its own copy of op.
func (r *Registry) Register(op Operation) error {
	owned := op.clone()
	if err := owned.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ops[owned.Name]; exists {
		return invalidContract(owned.Name, "", "operation already registered")
	}
	r.ops[owned.Name] = owned
	return nil
}

// MustRegister is like Register but panics on error.
// It is meant for package-level setup where a bad contract is a programming error.
func (r *Registry) MustRegister(ops ...Operation) {
	for _, op := range ops {
		if err := r.Register(op); err != nil {
			panic(fmt.Sprintf("outcome: %v", err))
		}
	}
}

// ContractFor returns the contract of operation whose tag matches.
// An undeclared tag, or an operation that was never registered, yields an
// *UnknownOutcomeError.
func (r *Registry) ContractFor(operation string, tag Tag) (Contract, error) {
	r.mu.RLock()
	op, ok := r.ops[operation]
	r.mu.RUnlock()
	if !ok {
		return Contract{}, &UnknownOutcomeError{Operation: operation, Tag: tag}
	}
	c, ok := op.Contract(tag)
	if !ok {
		return Contract{}, &UnknownOutcomeError{Operation: operation, Tag: tag}
	}
	return c, nil
}

// Operation returns a copy of the registered operation with the given name.
func (r *Registry) Operation(name string) (*Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	if !ok {
		return nil, false
	}
	return op.clone(), true
}

// Operations returns every registered operation sorted by name.
func (r *Registry) Operations() []*Operation {
	r.mu.RLock()
	ops := make([]*Operation, 0, len(r.ops))
	for _, op := range r.ops {
		ops = append(ops, op.clone())
	}
	r.mu.RUnlock()
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}
