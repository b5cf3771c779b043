package ouro

import "fmt"

// Env is one lexical scope with a parent link. Lookups walk parent-ward.
// Define binds in the current scope, Set updates the nearest visible binding.
//
// Closures keep a *Env alive; scopes that nothing captured are collected once
// their block or call returns.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a scope with the given parent (which may be nil).
func NewEnv(parent *Env) *Env { return &Env{parent: parent, table: make(map[string]Value)} }

// Define binds name to v in this scope, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Set updates the nearest existing binding of name. It never defines.
func (e *Env) Set(name string, v Value) error {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.table[name]; ok {
			s.table[name] = v
			return nil
		}
	}
	return fmt.Errorf("undefined variable: %s", name)
}

// Lookup retrieves the nearest visible binding for name.
func (e *Env) Lookup(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.table[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// owner returns the scope holding the nearest binding of name, or nil.
func (e *Env) owner(name string) *Env {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.table[name]; ok {
			return s
		}
	}
	return nil
}
