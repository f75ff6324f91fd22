package introspection

import (
	"fmt"
	"reflect"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// toIndex interprets a property identifier as a container index. Numeric
// strings qualify so that script-side "1" reaches list element 1.
func toIndex(identifier interface{}) (int, bool) {
	switch v := identifier.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// capFirst upper-cases the first letter: bar -> Bar.
func capFirst(s string) string {
	if s == "" {
		return s
	}
	r, w := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[w:]
}

// flipFirst flips the case of the first letter: bar -> Bar, Bar -> bar.
// Historical accessor-matching quirk; tried strictly second.
func flipFirst(s string) string {
	if s == "" {
		return s
	}
	r, w := utf8.DecodeRuneInString(s)
	if unicode.IsUpper(r) {
		return string(unicode.ToLower(r)) + s[w:]
	}
	return string(unicode.ToUpper(r)) + s[w:]
}

// propertyName renders an identifier to the string used for accessor and
// field matching.
func propertyName(identifier interface{}) (string, bool) {
	s, ok := identifier.(string)
	return s, ok
}

// discoverGet runs the fixed-priority strategy chain for a read access:
// index, key, duck Get, bean accessor, exported field. A nil result means
// no strategy matched.
func discoverGet(is *Introspector, t reflect.Type, identifier interface{}) GetExecutor {
	if t == nil {
		return nil
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		if idx, ok := toIndex(identifier); ok {
			return &indexGetExecutor{target: t, key: identifier, index: idx}
		}
	case reflect.Map:
		if kv, ok := mapKeyValue(t, identifier); ok {
			return &mapGetExecutor{target: t, key: identifier, keyValue: kv}
		}
	}

	cm := is.ClassMapFor(t)

	// Duck-typed Get(key), tried with the raw identifier even when it is
	// not a string.
	if c := lookupQuiet(is, cm, NewSignature("Get", []interface{}{identifier})); c != nil {
		return &duckGetExecutor{target: t, key: identifier, c: c}
	}

	if prop, ok := propertyName(identifier); ok {
		if c := beanGetCandidate(is, cm, prop); c != nil {
			return &beanGetExecutor{target: t, key: identifier, c: c}
		}
		if fld, deref, ok := lookupField(t, prop); ok {
			return &fieldGetExecutor{target: t, key: identifier, field: fld, deref: deref}
		}
	}
	return nil
}

// beanGetCandidate finds a conventional accessor: Get<P>, then the
// case-flipped Get<p>, then boolean Is<P>/Is<p> whose declared result must
// be bool.
func beanGetCandidate(is *Introspector, cm *ClassMap, prop string) *candidate {
	names := []string{"Get" + capFirst(prop), "Get" + flipFirst(prop)}
	for _, name := range names {
		if c := lookupQuiet(is, cm, NewTypedSignature(name, nil)); c != nil {
			return c
		}
	}
	for _, name := range []string{"Is" + capFirst(prop), "Is" + flipFirst(prop)} {
		if c := lookupQuiet(is, cm, NewTypedSignature(name, nil)); c != nil {
			ft := c.method.Func.Type()
			if ft.NumOut() >= 1 && ft.Out(0).Kind() == reflect.Bool {
				return c
			}
		}
	}
	return nil
}

// lookupQuiet resolves a signature, demoting ambiguity to a miss after
// emitting the diagnostic. Property discovery must keep walking the chain.
func lookupQuiet(is *Introspector, cm *ClassMap, sig Signature) *candidate {
	c, err := cm.Lookup(sig)
	if err != nil {
		if amb, ok := err.(*AmbiguousError); ok {
			is.emit(Diagnostic{
				Kind:       DiagAmbiguousMethod,
				TypeName:   cm.Target().String(),
				Signature:  sig.String(),
				Candidates: amb.Candidates,
			})
		}
		return nil
	}
	return c
}

// lookupField finds an exported field by exact name, then by capitalizing
// the first letter. deref reports that the receiver is a pointer to the
// struct owning the field.
func lookupField(t reflect.Type, prop string) (reflect.StructField, bool, bool) {
	st := t
	deref := false
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
		deref = true
	}
	if st.Kind() != reflect.Struct {
		return reflect.StructField{}, false, false
	}
	for _, name := range []string{prop, capFirst(prop)} {
		if f, ok := st.FieldByName(name); ok && f.PkgPath == "" {
			return f, deref, true
		}
	}
	return reflect.StructField{}, false, false
}

// mapKeyValue shapes an identifier into the map's key type.
func mapKeyValue(t reflect.Type, identifier interface{}) (reflect.Value, bool) {
	kt := t.Key()
	if identifier == nil {
		if !isNilable(kt) {
			return reflect.Value{}, false
		}
		return reflect.Zero(kt), true
	}
	it := reflect.TypeOf(identifier)
	if it.AssignableTo(kt) {
		return reflect.ValueOf(identifier), true
	}
	if isNumericKind(it.Kind()) && isNumericKind(kt.Kind()) {
		return reflect.ValueOf(identifier).Convert(kt), true
	}
	return reflect.Value{}, false
}

// --- executors -------------------------------------------------------------

type indexGetExecutor struct {
	target reflect.Type
	key    interface{}
	index  int
}

func (e *indexGetExecutor) Target() reflect.Type { return e.target }

func (e *indexGetExecutor) Execute(obj interface{}) (interface{}, error) {
	rv := reflect.ValueOf(obj)
	if e.index < 0 || e.index >= rv.Len() {
		return nil, newInvocationError(e.target, fmt.Sprintf("[%d]", e.index), 0,
			fmt.Errorf("index out of bounds (len %d)", rv.Len()))
	}
	return rv.Index(e.index).Interface(), nil
}

func (e *indexGetExecutor) TryExecute(obj, key interface{}) (interface{}, error) {
	if !sameTarget(e.target, obj) || !keysEqual(e.key, key) {
		return TryFailed, nil
	}
	return e.Execute(obj)
}

type mapGetExecutor struct {
	target   reflect.Type
	key      interface{}
	keyValue reflect.Value
}

func (e *mapGetExecutor) Target() reflect.Type { return e.target }

func (e *mapGetExecutor) Execute(obj interface{}) (interface{}, error) {
	v := reflect.ValueOf(obj).MapIndex(e.keyValue)
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}

func (e *mapGetExecutor) TryExecute(obj, key interface{}) (interface{}, error) {
	if !sameTarget(e.target, obj) || !keysEqual(e.key, key) {
		return TryFailed, nil
	}
	return e.Execute(obj)
}

type duckGetExecutor struct {
	target reflect.Type
	key    interface{}
	c      *candidate
}

func (e *duckGetExecutor) Target() reflect.Type { return e.target }

func (e *duckGetExecutor) Execute(obj interface{}) (interface{}, error) {
	return e.c.call(e.target, reflect.ValueOf(obj), []interface{}{e.key})
}

func (e *duckGetExecutor) TryExecute(obj, key interface{}) (interface{}, error) {
	if !sameTarget(e.target, obj) || !keysEqual(e.key, key) {
		return TryFailed, nil
	}
	return e.Execute(obj)
}

type beanGetExecutor struct {
	target reflect.Type
	key    interface{}
	c      *candidate
}

func (e *beanGetExecutor) Target() reflect.Type { return e.target }

func (e *beanGetExecutor) Execute(obj interface{}) (interface{}, error) {
	return e.c.call(e.target, reflect.ValueOf(obj), nil)
}

func (e *beanGetExecutor) TryExecute(obj, key interface{}) (interface{}, error) {
	if !sameTarget(e.target, obj) || !keysEqual(e.key, key) {
		return TryFailed, nil
	}
	return e.Execute(obj)
}

type fieldGetExecutor struct {
	target reflect.Type
	key    interface{}
	field  reflect.StructField
	deref  bool
}

func (e *fieldGetExecutor) Target() reflect.Type { return e.target }

func (e *fieldGetExecutor) Execute(obj interface{}) (interface{}, error) {
	rv := reflect.ValueOf(obj)
	if e.deref {
		if rv.IsNil() {
			return nil, newInvocationError(e.target, e.field.Name, 0, fmt.Errorf("nil receiver"))
		}
		rv = rv.Elem()
	}
	return rv.FieldByIndex(e.field.Index).Interface(), nil
}

func (e *fieldGetExecutor) TryExecute(obj, key interface{}) (interface{}, error) {
	if !sameTarget(e.target, obj) || !keysEqual(e.key, key) {
		return TryFailed, nil
	}
	return e.Execute(obj)
}
