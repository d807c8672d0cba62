package interp

import (
	"sync"

	"github.com/atlas-lang/atlas/internal/value"
)

// Environment is a lexical scope holding variable bindings, chained to its
// enclosing scope through an outer pointer: a stack of scopes with globals
// at the bottom. Guarded by a mutex because the REPL keeps one global
// Environment alive across repeated top-level evaluations.
type Environment struct {
	mu    sync.RWMutex
	store map[string]value.Value
	outer *Environment
}

// NewEnvironment creates an empty root environment.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]value.Value)}
}

// NewEnclosedEnvironment creates a child scope of outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) get(name string) (value.Value, bool) {
	e.mu.RLock()
	v, ok := e.store[name]
	e.mu.RUnlock()
	if !ok && e.outer != nil {
		return e.outer.get(name)
	}
	return v, ok
}

// define introduces name in this scope (let/var declaration, or a parameter
// binding). Redeclaration in the same scope never reaches here: the binder
// already rejected it (AT2003) and execution only proceeds on a program
// with no error diagnostics.
func (e *Environment) define(name string, v value.Value) {
	e.mu.Lock()
	e.store[name] = v
	e.mu.Unlock()
}

// assign updates the nearest enclosing binding of name and reports whether
// one was found. Only reachable through a `var` target or an array element;
// the checker has already rejected assignment to a `let` binding (AT0003).
func (e *Environment) assign(name string, v value.Value) bool {
	e.mu.Lock()
	if _, ok := e.store[name]; ok {
		e.store[name] = v
		e.mu.Unlock()
		return true
	}
	e.mu.Unlock()
	if e.outer != nil {
		return e.outer.assign(name, v)
	}
	return false
}
