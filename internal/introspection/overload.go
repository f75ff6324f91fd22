package introspection

import (
	"reflect"
)

// candidate is one overload under consideration: a method or a factory
// function. formals excludes the receiver for methods.
type candidate struct {
	name     string
	formals  []reflect.Type
	variadic bool
	// exactly one of method/fn is set
	method *reflect.Method
	fn     reflect.Value
}

func methodCandidate(m reflect.Method) candidate {
	ft := m.Func.Type()
	formals := make([]reflect.Type, ft.NumIn()-1)
	for i := 1; i < ft.NumIn(); i++ {
		formals[i-1] = ft.In(i)
	}
	mc := m
	return candidate{name: m.Name, formals: formals, variadic: ft.IsVariadic(), method: &mc}
}

func funcCandidate(name string, fn reflect.Value) candidate {
	ft := fn.Type()
	formals := make([]reflect.Type, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		formals[i] = ft.In(i)
	}
	return candidate{name: name, formals: formals, variadic: ft.IsVariadic(), fn: fn}
}

func (c candidate) String() string {
	if c.method != nil {
		return c.name + c.method.Func.Type().String()
	}
	return c.name + c.fn.Type().String()
}

// formalAt returns the formal parameter type seen by actual argument i,
// expanding the trailing variadic slice to its element type.
func (c candidate) formalAt(i int) reflect.Type {
	last := len(c.formals) - 1
	if c.variadic && i >= last {
		return c.formals[last].Elem()
	}
	return c.formals[i]
}

// applicable reports whether the candidate accepts the signature's actuals
// under invocation conversion.
func (c candidate) applicable(sig Signature) bool {
	n := len(sig.params)
	fixed := len(c.formals)
	if c.variadic {
		fixed--
		if n < fixed {
			return false
		}
		// A single slice actual in the variadic position may also be passed
		// through whole.
		if n == len(c.formals) {
			if a := sig.params[n-1]; a != nil && argMatches(a, c.formals[n-1]) {
				ok := true
				for i := 0; i < fixed; i++ {
					if !argMatches(sig.params[i], c.formals[i]) {
						ok = false
						break
					}
				}
				if ok {
					return true
				}
			}
		}
	} else if n != fixed {
		return false
	}
	for i := 0; i < n; i++ {
		if !argMatches(sig.params[i], c.formalAt(i)) {
			return false
		}
	}
	return true
}

// moreSpecific reports whether a is strictly more specific than b for the
// given arity: every formal of a widens to the corresponding formal of b and
// the converse does not hold. A fixed-arity candidate always beats a variadic
// one, mirroring the two-phase rule of the source language. Formals that
// differ only in numeric width within one family (int32 vs int64, float32 vs
// float64) state no preference at all: script numbers surface at the widest
// width and reach every member of the family, so picking the narrower formal
// would silently truncate.
func moreSpecific(a, b candidate, arity int) bool {
	if a.variadic != b.variadic {
		return !a.variadic
	}
	aWider := false
	bWider := false
	for i := 0; i < arity; i++ {
		af, bf := a.formalAt(i), b.formalAt(i)
		if af == bf {
			continue
		}
		ak, bk := af.Kind(), bf.Kind()
		if (isIntegerKind(ak) && isIntegerKind(bk)) || (isFloatKind(ak) && isFloatKind(bk)) {
			continue
		}
		ab := widensTo(af, bf)
		ba := widensTo(bf, af)
		switch {
		case ab && ba:
			// Mutually assignable types: no preference.
		case ab:
			bWider = true // b accepts everything a does at this position
		case ba:
			aWider = true
		default:
			// Incomparable position: neither dominates.
			return false
		}
	}
	return bWider && !aWider
}

// resolveOverload picks the unique most specific applicable candidate.
// It returns (nil, nil) when nothing applies, and an *AmbiguousError when
// several incomparable candidates remain maximal.
func resolveOverload(candidates []candidate, sig Signature) (*candidate, error) {
	var applicable []candidate
	for _, c := range candidates {
		if c.name == sig.name && c.applicable(sig) {
			applicable = append(applicable, c)
		}
	}
	switch len(applicable) {
	case 0:
		return nil, nil
	case 1:
		return &applicable[0], nil
	}

	arity := sig.Arity()
	var maximal []candidate
	for i, c := range applicable {
		dominated := false
		for j, other := range applicable {
			if i == j {
				continue
			}
			if moreSpecific(other, c, arity) {
				dominated = true
				break
			}
		}
		if !dominated {
			maximal = append(maximal, c)
		}
	}
	if len(maximal) == 1 {
		return &maximal[0], nil
	}

	names := make([]string, len(maximal))
	for i, c := range maximal {
		names[i] = c.String()
	}
	return nil, &AmbiguousError{Name: sig.name, Candidates: names}
}
