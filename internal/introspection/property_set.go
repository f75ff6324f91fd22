package introspection

import (
	"fmt"
	"reflect"
)

// discoverSet mirrors discoverGet for writes: index, key, duck Set, bean
// mutator, writable exported field. value participates in discovery because
// mutator overloads are selected against it.
func discoverSet(is *Introspector, t reflect.Type, identifier, value interface{}) SetExecutor {
	if t == nil {
		return nil
	}

	switch t.Kind() {
	case reflect.Slice:
		if idx, ok := toIndex(identifier); ok {
			if assignableToElem(t.Elem(), value) {
				return &indexSetExecutor{target: t, key: identifier, index: idx}
			}
		}
	case reflect.Map:
		if kv, ok := mapKeyValue(t, identifier); ok {
			if assignableToElem(t.Elem(), value) {
				return &mapSetExecutor{target: t, key: identifier, keyValue: kv}
			}
		}
	}

	cm := is.ClassMapFor(t)

	// Duck-typed Set(key, value) with the raw identifier.
	if c := lookupQuiet(is, cm, NewSignature("Set", []interface{}{identifier, value})); c != nil {
		return &duckSetExecutor{target: t, key: identifier, c: c}
	}

	if prop, ok := propertyName(identifier); ok {
		for _, name := range []string{"Set" + capFirst(prop), "Set" + flipFirst(prop)} {
			if c := lookupQuiet(is, cm, NewSignature(name, []interface{}{value})); c != nil {
				return &beanSetExecutor{target: t, key: identifier, c: c}
			}
		}
		// Field writes need an addressable struct, hence a pointer receiver.
		if fld, deref, ok := lookupField(t, prop); ok && deref {
			if assignableToElem(fld.Type, value) {
				return &fieldSetExecutor{target: t, key: identifier, field: fld}
			}
		}
	}
	return nil
}

// assignableToElem reports whether value can be stored into a slot of the
// given type, allowing numeric conversion.
func assignableToElem(slot reflect.Type, value interface{}) bool {
	if value == nil {
		return isNilable(slot)
	}
	vt := reflect.TypeOf(value)
	if vt.AssignableTo(slot) {
		return true
	}
	return isNumericKind(vt.Kind()) && isNumericKind(slot.Kind())
}

// storeValue shapes value for a slot of type slot.
func storeValue(slot reflect.Type, value interface{}) (reflect.Value, error) {
	return convertArg(value, slot)
}

// --- executors -------------------------------------------------------------

type indexSetExecutor struct {
	target reflect.Type
	key    interface{}
	index  int
}

func (e *indexSetExecutor) Target() reflect.Type { return e.target }

func (e *indexSetExecutor) Execute(obj, value interface{}) (interface{}, error) {
	rv := reflect.ValueOf(obj)
	if e.index < 0 || e.index >= rv.Len() {
		return nil, newInvocationError(e.target, fmt.Sprintf("[%d]", e.index), 1,
			fmt.Errorf("index out of bounds (len %d)", rv.Len()))
	}
	v, err := storeValue(e.target.Elem(), value)
	if err != nil {
		return nil, newInvocationError(e.target, fmt.Sprintf("[%d]", e.index), 1, err)
	}
	rv.Index(e.index).Set(v)
	return value, nil
}

func (e *indexSetExecutor) TryExecute(obj, key, value interface{}) (interface{}, error) {
	if !sameTarget(e.target, obj) || !keysEqual(e.key, key) {
		return TryFailed, nil
	}
	if !assignableToElem(e.target.Elem(), value) {
		return TryFailed, nil
	}
	return e.Execute(obj, value)
}

type mapSetExecutor struct {
	target   reflect.Type
	key      interface{}
	keyValue reflect.Value
}

func (e *mapSetExecutor) Target() reflect.Type { return e.target }

func (e *mapSetExecutor) Execute(obj, value interface{}) (interface{}, error) {
	rv := reflect.ValueOf(obj)
	if rv.IsNil() {
		return nil, newInvocationError(e.target, "[]", 1, fmt.Errorf("nil map"))
	}
	v, err := storeValue(e.target.Elem(), value)
	if err != nil {
		return nil, newInvocationError(e.target, "[]", 1, err)
	}
	rv.SetMapIndex(e.keyValue, v)
	return value, nil
}

func (e *mapSetExecutor) TryExecute(obj, key, value interface{}) (interface{}, error) {
	if !sameTarget(e.target, obj) || !keysEqual(e.key, key) {
		return TryFailed, nil
	}
	if !assignableToElem(e.target.Elem(), value) {
		return TryFailed, nil
	}
	return e.Execute(obj, value)
}

type duckSetExecutor struct {
	target reflect.Type
	key    interface{}
	c      *candidate
}

func (e *duckSetExecutor) Target() reflect.Type { return e.target }

func (e *duckSetExecutor) Execute(obj, value interface{}) (interface{}, error) {
	if _, err := e.c.call(e.target, reflect.ValueOf(obj), []interface{}{e.key, value}); err != nil {
		return nil, err
	}
	return value, nil
}

func (e *duckSetExecutor) TryExecute(obj, key, value interface{}) (interface{}, error) {
	if !sameTarget(e.target, obj) || !keysEqual(e.key, key) {
		return TryFailed, nil
	}
	if len(e.c.formals) == 2 && !argMatchesValue(e.c.formalAt(1), value) {
		return TryFailed, nil
	}
	return e.Execute(obj, value)
}

type beanSetExecutor struct {
	target reflect.Type
	key    interface{}
	c      *candidate
}

func (e *beanSetExecutor) Target() reflect.Type { return e.target }

func (e *beanSetExecutor) Execute(obj, value interface{}) (interface{}, error) {
	if _, err := e.c.call(e.target, reflect.ValueOf(obj), []interface{}{value}); err != nil {
		return nil, err
	}
	return value, nil
}

func (e *beanSetExecutor) TryExecute(obj, key, value interface{}) (interface{}, error) {
	if !sameTarget(e.target, obj) || !keysEqual(e.key, key) {
		return TryFailed, nil
	}
	if !argMatchesValue(e.c.formalAt(0), value) {
		return TryFailed, nil
	}
	return e.Execute(obj, value)
}

type fieldSetExecutor struct {
	target reflect.Type
	key    interface{}
	field  reflect.StructField
}

func (e *fieldSetExecutor) Target() reflect.Type { return e.target }

func (e *fieldSetExecutor) Execute(obj, value interface{}) (interface{}, error) {
	rv := reflect.ValueOf(obj)
	if rv.IsNil() {
		return nil, newInvocationError(e.target, e.field.Name, 1, fmt.Errorf("nil receiver"))
	}
	v, err := storeValue(e.field.Type, value)
	if err != nil {
		return nil, newInvocationError(e.target, e.field.Name, 1, err)
	}
	rv.Elem().FieldByIndex(e.field.Index).Set(v)
	return value, nil
}

func (e *fieldSetExecutor) TryExecute(obj, key, value interface{}) (interface{}, error) {
	if !sameTarget(e.target, obj) || !keysEqual(e.key, key) {
		return TryFailed, nil
	}
	if !assignableToElem(e.field.Type, value) {
		return TryFailed, nil
	}
	return e.Execute(obj, value)
}

// argMatchesValue checks one actual value against a formal type.
func argMatchesValue(formal reflect.Type, value interface{}) bool {
	if value == nil {
		return isNilable(formal)
	}
	return argMatches(reflect.TypeOf(value), formal)
}
