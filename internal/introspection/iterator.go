package introspection

import (
	"reflect"
)

// Iterator is the iteration contract the interpreter loops over.
type Iterator interface {
	// Next returns the next element, or ok=false when exhausted.
	Next() (interface{}, bool)
}

var iteratorType = reflect.TypeOf((*Iterator)(nil)).Elem()

// adaptIterator adapts a receiver to an Iterator in fixed priority order:
// native passthrough, slices and arrays, map values, channels, and finally a
// duck-typed no-argument Iterator() method whose declared return type is
// checked before invocation. Anything else fails with a CannotIterateError
// so callers can tell "not iterable" from "empty".
func adaptIterator(obj interface{}) (Iterator, error) {
	if obj == nil {
		return nil, &CannotIterateError{Type: nil}
	}
	if it, ok := obj.(Iterator); ok {
		return it, nil
	}

	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return &sliceIterator{v: rv}, nil
	case reflect.Map:
		if rv.IsNil() {
			return nil, &CannotIterateError{Type: rv.Type()}
		}
		return &mapValueIterator{iter: rv.MapRange()}, nil
	case reflect.Chan:
		// Recv on a nil channel blocks forever.
		if rv.IsNil() {
			return nil, &CannotIterateError{Type: rv.Type()}
		}
		return &chanIterator{v: rv}, nil
	}

	// Duck-typed Iterator() whose declared result must itself satisfy the
	// iteration contract.
	if m, ok := rv.Type().MethodByName("Iterator"); ok && m.PkgPath == "" {
		ft := m.Func.Type()
		if ft.NumIn() == 1 && ft.NumOut() == 1 && ft.Out(0).Implements(iteratorType) {
			out := m.Func.Call([]reflect.Value{rv})
			if res := out[0]; !res.IsNil() {
				return res.Interface().(Iterator), nil
			}
		}
	}

	return nil, &CannotIterateError{Type: rv.Type()}
}

type sliceIterator struct {
	v   reflect.Value
	pos int
}

func (s *sliceIterator) Next() (interface{}, bool) {
	if s.pos >= s.v.Len() {
		return nil, false
	}
	el := s.v.Index(s.pos).Interface()
	s.pos++
	return el, true
}

type mapValueIterator struct {
	iter *reflect.MapIter
}

func (m *mapValueIterator) Next() (interface{}, bool) {
	if !m.iter.Next() {
		return nil, false
	}
	return m.iter.Value().Interface(), true
}

type chanIterator struct {
	v reflect.Value
}

func (c *chanIterator) Next() (interface{}, bool) {
	el, ok := c.v.Recv()
	if !ok {
		return nil, false
	}
	return el.Interface(), true
}
