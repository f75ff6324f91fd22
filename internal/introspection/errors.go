package introspection

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrCannotIterate reports a receiver no iterator strategy covers. Callers
// can distinguish it from an empty iteration with errors.Is.
var ErrCannotIterate = errors.New("cannot iterate")

// AmbiguousError reports that several applicable overloads were equally
// specific. It is demoted to a plain miss at the Uberspect boundary and
// surfaces only through the diagnostics channel.
type AmbiguousError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous overloads for %q: %d equally specific candidates", e.Name, len(e.Candidates))
}

// InvocationError wraps a failure raised by the underlying call itself, with
// enough receiver/member context for a useful script-level diagnostic.
// Discovery misses are never wrapped in it.
type InvocationError struct {
	Target reflect.Type
	Member string
	Arity  int
	Cause  error
}

func (e *InvocationError) Error() string {
	target := "<nil>"
	if e.Target != nil {
		target = e.Target.String()
	}
	return fmt.Sprintf("invoking %s.%s/%d: %v", target, e.Member, e.Arity, e.Cause)
}

func (e *InvocationError) Unwrap() error { return e.Cause }

func newInvocationError(target reflect.Type, member string, arity int, cause error) *InvocationError {
	return &InvocationError{Target: target, Member: member, Arity: arity, Cause: cause}
}

// CannotIterateError carries the offending type alongside ErrCannotIterate.
type CannotIterateError struct {
	Type reflect.Type
}

func (e *CannotIterateError) Error() string {
	return fmt.Sprintf("cannot iterate over %s", e.Type)
}

func (e *CannotIterateError) Is(target error) bool { return target == ErrCannotIterate }
