package introspection

import (
	"reflect"
	"strings"
)

// Signature identifies one (name, argument-shape) lookup. A nil entry in
// params marks a null argument, which matches any nilable formal parameter.
// Signatures are immutable and carry a precomputed string form usable as a
// map key.
type Signature struct {
	name   string
	params []reflect.Type
	key    string
}

// NewSignature builds a signature from the actual argument values observed at
// a call site.
func NewSignature(name string, args []interface{}) Signature {
	params := make([]reflect.Type, len(args))
	for i, a := range args {
		if a != nil {
			params[i] = reflect.TypeOf(a)
		}
	}
	return NewTypedSignature(name, params)
}

// NewTypedSignature builds a signature directly from runtime types. A nil
// type is the null-argument marker.
func NewTypedSignature(name string, params []reflect.Type) Signature {
	var b strings.Builder
	b.WriteString(name)
	for _, p := range params {
		b.WriteByte(';')
		if p == nil {
			b.WriteByte('?')
		} else {
			b.WriteString(p.String())
		}
	}
	return Signature{name: name, params: params, key: b.String()}
}

func (s Signature) Name() string { return s.name }

func (s Signature) Arity() int { return len(s.params) }

// Key returns the structural string form of the signature.
func (s Signature) Key() string { return s.key }

func (s Signature) String() string { return s.key }

// numeric ranking used for widening decisions. Families widen within
// themselves, and every integer widens to every float.
var numericRank = map[reflect.Kind]int{
	reflect.Int8:    1,
	reflect.Int16:   2,
	reflect.Int32:   3,
	reflect.Int:     4,
	reflect.Int64:   4,
	reflect.Uint8:   1,
	reflect.Uint16:  2,
	reflect.Uint32:  3,
	reflect.Uint:    4,
	reflect.Uint64:  4,
	reflect.Float32: 5,
	reflect.Float64: 6,
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isSignedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumericKind(k reflect.Kind) bool {
	return isIntegerKind(k) || isFloatKind(k)
}

func isNilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	}
	return false
}

// argMatches reports whether an actual argument of type actual is acceptable
// for a formal parameter of type formal under invocation conversion:
// identity, assignability (which covers interface widening), numeric
// conversion within and across the integer/float families, and null matching
// any nilable formal. Script integers all surface as int64, so every integer
// formal accepts every integer actual; overloads that differ only in numeric
// width therefore cannot reliably be told apart (see moreSpecific).
func argMatches(actual, formal reflect.Type) bool {
	if actual == nil {
		return isNilable(formal)
	}
	if actual == formal || actual.AssignableTo(formal) {
		return true
	}
	ak, fk := actual.Kind(), formal.Kind()
	if isIntegerKind(ak) && isNumericKind(fk) {
		return true
	}
	if isFloatKind(ak) && isFloatKind(fk) {
		return true
	}
	return false
}

// widensTo reports whether a value of type from can stand wherever a value
// of type to is expected without loss: assignability, or numeric widening by
// rank within matching sign families (and integer to float).
func widensTo(from, to reflect.Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from == to || from.AssignableTo(to) {
		return true
	}
	fk, tk := from.Kind(), to.Kind()
	fr, fok := numericRank[fk]
	tr, tok := numericRank[tk]
	if !fok || !tok {
		return false
	}
	if isIntegerKind(fk) && isIntegerKind(tk) {
		// Crossing signedness needs strictly more bits on the target side.
		signed := isSignedKind(fk)
		targetSigned := isSignedKind(tk)
		if signed == targetSigned {
			return fr <= tr
		}
		return !signed && targetSigned && fr < tr
	}
	if isIntegerKind(fk) && isFloatKind(tk) {
		return true
	}
	if isFloatKind(fk) && isFloatKind(tk) {
		return fr <= tr
	}
	return false
}
