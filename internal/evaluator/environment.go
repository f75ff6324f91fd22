package evaluator

import "sync"

// Environment is the variable context: a chain of RWMutex-guarded scopes.
// Evaluations may run concurrently against a shared root environment.
type Environment struct {
	mu    sync.RWMutex
	store map[string]interface{}
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]interface{})}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) Get(name string) (interface{}, bool) {
	e.mu.RLock()
	obj, ok := e.store[name]
	e.mu.RUnlock()
	if !ok && e.outer != nil {
		obj, ok = e.outer.Get(name)
	}
	return obj, ok
}

// Define binds name in this scope, shadowing any outer binding.
func (e *Environment) Define(name string, val interface{}) {
	e.mu.Lock()
	e.store[name] = val
	e.mu.Unlock()
}

// Update rebinds the nearest existing binding and reports whether one was
// found.
func (e *Environment) Update(name string, val interface{}) bool {
	e.mu.Lock()
	_, ok := e.store[name]
	if ok {
		e.store[name] = val
		e.mu.Unlock()
		return true
	}
	e.mu.Unlock()
	if e.outer != nil {
		return e.outer.Update(name, val)
	}
	return false
}
