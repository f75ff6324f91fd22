package introspection

import (
	"fmt"
	"reflect"
	"sync"
)

// ConstructorRegistry is the stock Resolver: an explicit name -> factory
// overload-set table. Engines build one, register factories, and install it
// with Introspector.SetResolver.
type ConstructorRegistry struct {
	mu        sync.RWMutex
	factories map[string][]reflect.Value
}

func NewConstructorRegistry() *ConstructorRegistry {
	return &ConstructorRegistry{factories: make(map[string][]reflect.Value)}
}

// Register adds factory functions as constructor overloads for name.
func (r *ConstructorRegistry) Register(name string, fns ...interface{}) error {
	vals := make([]reflect.Value, 0, len(fns))
	for _, fn := range fns {
		v := reflect.ValueOf(fn)
		if v.Kind() != reflect.Func {
			return fmt.Errorf("constructor for %q must be a function, got %T", name, fn)
		}
		vals = append(vals, v)
	}
	r.mu.Lock()
	r.factories[name] = append(r.factories[name], vals...)
	r.mu.Unlock()
	return nil
}

// RegisterType exposes a struct type under name with an implicit zero-value
// factory, so scripts can write new Name() without a hand-written factory.
func (r *ConstructorRegistry) RegisterType(name string, sample interface{}) error {
	t := reflect.TypeOf(sample)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("RegisterType %q: want a struct or pointer to struct, got %T", name, sample)
	}
	factory := reflect.MakeFunc(
		reflect.FuncOf(nil, []reflect.Type{reflect.PtrTo(t)}, false),
		func([]reflect.Value) []reflect.Value {
			return []reflect.Value{reflect.New(t)}
		},
	)
	r.mu.Lock()
	r.factories[name] = append(r.factories[name], factory)
	r.mu.Unlock()
	return nil
}

func (r *ConstructorRegistry) ResolveConstructor(name string) []reflect.Value {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fns := r.factories[name]
	out := make([]reflect.Value, len(fns))
	copy(out, fns)
	return out
}
