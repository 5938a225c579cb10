// Package scope provides a simple chained name→value store satisfying the
// variable store interface the operator core consumes. A scope resolves reads
// through its parent chain; writes always land in the scope they are made on,
// so a child can shadow a parent's variable without touching it.
package scope

// Scope is a name-keyed variable store with optional parent chaining.
type Scope struct {
	parent *Scope
	vars   map[string]any
}

// New creates a root scope.
func New() *Scope {
	return &Scope{vars: make(map[string]any)}
}

// NewChild creates a scope that falls back to parent on reads.
func (s *Scope) NewChild() *Scope {
	return &Scope{parent: s, vars: make(map[string]any)}
}

// Get resolves a variable, walking up the parent chain.
func (s *Scope) Get(name string) (any, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set binds a variable in this scope, shadowing any parent binding.
func (s *Scope) Set(name string, value any) {
	s.vars[name] = value
}

// Has reports whether the variable resolves anywhere in the chain.
func (s *Scope) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}
