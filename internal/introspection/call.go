package introspection

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// convertArg shapes one actual argument into the formal parameter type.
// Resolution already established compatibility; this performs the actual
// numeric conversion and nil zeroing.
func convertArg(a interface{}, formal reflect.Type) (reflect.Value, error) {
	if a == nil {
		if !isNilable(formal) {
			return reflect.Value{}, fmt.Errorf("null argument for non-nilable %s", formal)
		}
		return reflect.Zero(formal), nil
	}
	v := reflect.ValueOf(a)
	if v.Type() == formal || v.Type().AssignableTo(formal) {
		return v, nil
	}
	if v.Type().ConvertibleTo(formal) {
		return v.Convert(formal), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", v.Type(), formal)
}

// CallFunc invokes a bare function value with script arguments, applying
// the same conversion rules as method dispatch. Used for context-bound
// functions and functor-valued properties.
func CallFunc(name string, fn interface{}, args []interface{}) (interface{}, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, newInvocationError(reflect.TypeOf(fn), name, len(args), fmt.Errorf("not callable"))
	}
	c := funcCandidate(name, v)
	if !c.applicable(NewSignature(name, args)) {
		return nil, newInvocationError(v.Type(), name, len(args),
			fmt.Errorf("argument list does not match %s", v.Type()))
	}
	return c.call(v.Type(), reflect.Value{}, args)
}

// call invokes a resolved candidate. recv must be valid for methods and
// invalid for factory functions. Panics raised by the callee are captured
// and wrapped, as is a non-nil trailing error result.
func (c *candidate) call(target reflect.Type, recv reflect.Value, args []interface{}) (result interface{}, err error) {
	fn := c.fn
	in := make([]reflect.Value, 0, len(args)+1)
	if c.method != nil {
		fn = c.method.Func
		in = append(in, recv)
	}

	useSlice := false
	if c.variadic && len(args) == len(c.formals) {
		last := c.formals[len(c.formals)-1]
		if a := args[len(args)-1]; a != nil {
			if at := reflect.TypeOf(a); at.AssignableTo(last) && !at.AssignableTo(last.Elem()) {
				useSlice = true
			}
		}
	}

	for i, a := range args {
		formal := c.formalAt(i)
		if useSlice && i == len(args)-1 {
			formal = c.formals[len(c.formals)-1]
		}
		v, convErr := convertArg(a, formal)
		if convErr != nil {
			return nil, newInvocationError(target, c.name, len(args), convErr)
		}
		in = append(in, v)
	}

	defer func() {
		if r := recover(); r != nil {
			err = newInvocationError(target, c.name, len(args), fmt.Errorf("panic: %v", r))
		}
	}()

	var out []reflect.Value
	if useSlice {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}
	return shapeResults(target, c.name, len(args), out)
}

// shapeResults applies the host convention: a non-nil trailing error result
// propagates as an invocation failure, a single remaining value is returned
// bare, several come back as a slice.
func shapeResults(target reflect.Type, name string, arity int, out []reflect.Value) (interface{}, error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if e := out[n-1]; !e.IsNil() {
			return nil, newInvocationError(target, name, arity, e.Interface().(error))
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		vals := make([]interface{}, len(out))
		for i, v := range out {
			vals[i] = v.Interface()
		}
		return vals, nil
	}
}
