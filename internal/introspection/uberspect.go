package introspection

import (
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
)

// Operation is the access class a permission check applies to.
type Operation int

const (
	OpRead Operation = iota
	OpWrite
	OpExecute
)

func (op Operation) String() string {
	switch op {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpExecute:
		return "execute"
	}
	return "unknown"
}

// Permissions is the sandbox overlay consulted before any executor leaves
// the facade. Denial is indistinguishable from a miss; absence of an overlay
// means unrestricted access.
type Permissions interface {
	Allow(typeName, member string, op Operation) bool
}

// Uberspect is the dynamic-dispatch facade the interpreter consumes. It
// composes the introspector, the property strategy chains and iterator
// adaptation behind one surface, optionally filtered by a permission
// overlay.
type Uberspect struct {
	is    *Introspector
	perms Permissions
}

// NewUberspect wraps an introspector. perms may be nil for unrestricted
// access.
func NewUberspect(is *Introspector, perms Permissions) *Uberspect {
	return &Uberspect{is: is, perms: perms}
}

// New builds a facade over a fresh introspector, the common case for an
// engine owning its own caches.
func New(log zerolog.Logger, perms Permissions) *Uberspect {
	return NewUberspect(NewIntrospector(log), perms)
}

// Introspector exposes the underlying cache owner, mainly for resolver
// registration and diagnostics subscription.
func (u *Uberspect) Introspector() *Introspector { return u.is }

func (u *Uberspect) allowed(t reflect.Type, member string, op Operation) bool {
	if u.perms == nil {
		return true
	}
	name := ""
	if t != nil {
		name = t.String()
	}
	return u.perms.Allow(name, member, op)
}

func memberName(identifier interface{}) string {
	if s, ok := identifier.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", identifier)
}

// GetPropertyGet discovers a read executor for (obj, identifier). nil means
// no strategy matched or the overlay denied the member.
func (u *Uberspect) GetPropertyGet(obj, identifier interface{}) GetExecutor {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	if !u.allowed(t, memberName(identifier), OpRead) {
		return nil
	}
	return discoverGet(u.is, t, identifier)
}

// GetPropertySet discovers a write executor for (obj, identifier, value).
func (u *Uberspect) GetPropertySet(obj, identifier, value interface{}) SetExecutor {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	if !u.allowed(t, memberName(identifier), OpWrite) {
		return nil
	}
	return discoverSet(u.is, t, identifier, value)
}

// GetMethod resolves a method call. The script-side name is tried verbatim
// and then with its first letter capitalized, the exported-name analogue of
// the accessor case-flip. An ambiguous overload set is reported through the
// diagnostics channel and demoted to a miss.
func (u *Uberspect) GetMethod(obj interface{}, name string, args []interface{}) Invoker {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	if !u.allowed(t, name, OpExecute) {
		return nil
	}

	names := []string{name}
	if capped := capFirst(name); capped != name {
		names = append(names, capped)
	}
	for _, n := range names {
		sig := NewSignature(n, args)
		c, err := u.is.MethodBy(t, sig)
		if err != nil {
			if amb, ok := err.(*AmbiguousError); ok {
				u.is.emit(Diagnostic{
					Kind:       DiagAmbiguousMethod,
					TypeName:   t.String(),
					Signature:  sig.String(),
					Candidates: amb.Candidates,
				})
				return nil
			}
			return nil
		}
		if c != nil {
			return &methodInvoker{target: t, sig: sig, c: c}
		}
	}
	return nil
}

// GetConstructor resolves a construction by type name against the current
// resolver. Ambiguity is diagnosed and demoted like methods.
func (u *Uberspect) GetConstructor(name string, args []interface{}) Invoker {
	if !u.allowed(nil, name, OpExecute) {
		return nil
	}
	sig := NewSignature(name, args)
	c, gen, err := u.is.ConstructorBy(sig)
	if err != nil {
		if amb, ok := err.(*AmbiguousError); ok {
			u.is.emit(Diagnostic{
				Kind:       DiagAmbiguousConstructor,
				TypeName:   name,
				Signature:  sig.String(),
				Candidates: amb.Candidates,
			})
		}
		return nil
	}
	if c == nil {
		return nil
	}
	return &ctorInvoker{is: u.is, sig: sig, gen: gen, c: c, name: name}
}

// GetIterator adapts obj for iteration; see adaptIterator for the priority
// order. The error is a CannotIterateError when no adaptation exists.
func (u *Uberspect) GetIterator(obj interface{}) (Iterator, error) {
	if obj != nil {
		if !u.allowed(reflect.TypeOf(obj), "Iterator", OpExecute) {
			return nil, &CannotIterateError{Type: reflect.TypeOf(obj)}
		}
	}
	return adaptIterator(obj)
}
