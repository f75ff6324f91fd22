package introspection

import (
	"fmt"
	"reflect"
)

// tryFailedMarker backs the TryFailed sentinel. Identity-comparable and
// distinct from every legitimate result, including nil.
type tryFailedMarker struct{}

func (*tryFailedMarker) String() string { return "<try-failed>" }

// TryFailed is returned by TryExecute when the fast path does not apply and
// the caller must fall back to full discovery.
var TryFailed interface{} = &tryFailedMarker{}

// GetExecutor is a resolved, reusable read strategy bound to one runtime
// type. Executors are immutable once constructed and never bound to an
// instance.
type GetExecutor interface {
	// Target is the runtime type the strategy was discovered against.
	Target() reflect.Type
	// Execute reads the property from obj, which must have the target type.
	Execute(obj interface{}) (interface{}, error)
	// TryExecute reads the property from a new receiver without
	// rediscovery when its runtime type equals the target and key equals
	// the discovery-time key; otherwise it returns TryFailed. It never
	// panics on a mismatched receiver.
	TryExecute(obj, key interface{}) (interface{}, error)
}

// SetExecutor is the write counterpart of GetExecutor. Execute returns the
// value written, matching the source runtime's convention.
type SetExecutor interface {
	Target() reflect.Type
	Execute(obj, value interface{}) (interface{}, error)
	TryExecute(obj, key, value interface{}) (interface{}, error)
}

// Invoker is a resolved method or constructor with a fixed signature.
type Invoker interface {
	Target() reflect.Type
	Name() string
	// Execute invokes against obj; constructors ignore obj.
	Execute(obj interface{}, args []interface{}) (interface{}, error)
	// Matches reports whether the invoker may be reused for a new receiver
	// and argument list without re-resolution.
	Matches(obj interface{}, args []interface{}) bool
}

// sameTarget is the cheap fast-path receiver check shared by all executors.
func sameTarget(target reflect.Type, obj interface{}) bool {
	return obj != nil && reflect.TypeOf(obj) == target
}

// keysEqual compares a fast-path key against the discovery-time key.
// Structural equality; mismatched dynamic types are simply unequal.
func keysEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if !ta.Comparable() {
		return false
	}
	return a == b
}

// methodInvoker executes one resolved method overload.
type methodInvoker struct {
	target reflect.Type
	sig    Signature
	c      *candidate
}

func (mi *methodInvoker) Target() reflect.Type { return mi.target }

func (mi *methodInvoker) Name() string { return mi.c.name }

func (mi *methodInvoker) Execute(obj interface{}, args []interface{}) (interface{}, error) {
	return mi.c.call(mi.target, reflect.ValueOf(obj), args)
}

func (mi *methodInvoker) Matches(obj interface{}, args []interface{}) bool {
	if !sameTarget(mi.target, obj) {
		return false
	}
	return NewSignature(mi.sig.name, args).Key() == mi.sig.Key()
}

// ctorInvoker executes one resolved factory overload. gen pins the resolver
// generation the resolution was made under; a swapped resolver invalidates
// reuse.
type ctorInvoker struct {
	is   *Introspector
	sig  Signature
	gen  uint64
	c    *candidate
	name string
}

func (ci *ctorInvoker) Target() reflect.Type { return nil }

func (ci *ctorInvoker) Name() string { return ci.name }

func (ci *ctorInvoker) Execute(_ interface{}, args []interface{}) (interface{}, error) {
	if ci.is.Generation() != ci.gen {
		return nil, newInvocationError(nil, ci.name, len(args), fmt.Errorf("stale constructor resolution"))
	}
	return ci.c.call(nil, reflect.Value{}, args)
}

func (ci *ctorInvoker) Matches(_ interface{}, args []interface{}) bool {
	if ci.is.Generation() != ci.gen {
		return false
	}
	return NewSignature(ci.sig.name, args).Key() == ci.sig.Key()
}
