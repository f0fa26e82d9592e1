// Package scope tracks statically known bindings per lexical region.
package scope

import "github.com/gnana997/sfcdoc/pkg/entry"

// Scope is one frame of a chain of lexical regions. Lookups walk outward
// through parent frames; bindings are only ever written to the frame they
// are bound on.
//
// A Scope is owned by the traversal of its region and must not be shared
// across goroutines.
type Scope struct {
	parent *Scope
	values map[string]entry.Value
}

// New returns a root frame, typically for the module top level.
func New() *Scope {
	return &Scope{values: make(map[string]entry.Value)}
}

// Child returns a new frame whose parent is s.
func (s *Scope) Child() *Scope {
	child := New()
	child.parent = s
	return child
}

// Bind records name in this frame, shadowing any outer binding.
func (s *Scope) Bind(name string, value entry.Value) {
	if value == nil {
		value = entry.Undefined{}
	}
	s.values[name] = value
}

// Lookup resolves name through the chain.
func (s *Scope) Lookup(name string) (entry.Value, bool) {
	for frame := s; frame != nil; frame = frame.parent {
		if v, ok := frame.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether name is bound in this frame, ignoring parents.
func (s *Scope) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}
