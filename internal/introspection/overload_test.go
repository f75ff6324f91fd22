package introspection

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

type shape interface{ Area() float64 }

type circle struct{ R float64 }

func (c *circle) Area() float64 { return 3.14159 * c.R * c.R }

func callCandidate(t *testing.T, c *candidate, args ...interface{}) interface{} {
	t.Helper()
	out, err := c.call(nil, reflect.Value{}, args)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	return out
}

func TestMostSpecificWinsRegardlessOfOrder(t *testing.T) {
	byShape := funcCandidate("describe", reflect.ValueOf(func(s shape) string { return "shape" }))
	byCircle := funcCandidate("describe", reflect.ValueOf(func(c *circle) string { return "circle" }))

	orders := map[string][]candidate{
		"circle-first": {byCircle, byShape},
		"shape-first":  {byShape, byCircle},
	}
	for name, cands := range orders {
		c, err := resolveOverload(cands, NewSignature("describe", []interface{}{&circle{R: 1}}))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if c == nil {
			t.Fatalf("%s: expected a resolution", name)
		}
		if got := callCandidate(t, c, &circle{R: 1}); got != "circle" {
			t.Errorf("%s: picked %v, want the *circle overload", name, got)
		}
	}
}

func TestInterfaceOverloadUsedWhenNothingNarrower(t *testing.T) {
	cands := []candidate{
		funcCandidate("describe", reflect.ValueOf(func(s shape) string { return "shape" })),
	}
	c, err := resolveOverload(cands, NewSignature("describe", []interface{}{&circle{}}))
	if err != nil || c == nil {
		t.Fatalf("resolution failed: %v, %v", c, err)
	}
	if got := callCandidate(t, c, &circle{}); got != "shape" {
		t.Errorf("got %v, want shape", got)
	}
}

func TestWidthOnlyOverloadsAreAmbiguous(t *testing.T) {
	// Script numbers surface at the widest width, so formals that differ only
	// in width within one family cannot be told apart; picking the narrower
	// one would silently truncate, and an arbitrary pick would be worse than
	// reporting it.
	for _, tc := range []struct {
		name  string
		cands []candidate
		arg   interface{}
	}{
		{
			"int-vs-int64",
			[]candidate{
				funcCandidate("compute", reflect.ValueOf(func(n int) string { return "int" })),
				funcCandidate("compute", reflect.ValueOf(func(n int64) string { return "int64" })),
			},
			int64(5),
		},
		{
			"int32-vs-int64",
			[]candidate{
				funcCandidate("compute", reflect.ValueOf(func(n int32) string { return "int32" })),
				funcCandidate("compute", reflect.ValueOf(func(n int64) string { return "int64" })),
			},
			int64(5_000_000_000),
		},
		{
			"float32-vs-float64",
			[]candidate{
				funcCandidate("compute", reflect.ValueOf(func(n float32) string { return "float32" })),
				funcCandidate("compute", reflect.ValueOf(func(n float64) string { return "float64" })),
			},
			9.5,
		},
	} {
		_, err := resolveOverload(tc.cands, NewSignature("compute", []interface{}{tc.arg}))
		var amb *AmbiguousError
		if !errors.As(err, &amb) {
			t.Fatalf("%s: want AmbiguousError, got %v", tc.name, err)
		}
		if len(amb.Candidates) != 2 {
			t.Errorf("%s: want 2 surviving candidates, got %v", tc.name, amb.Candidates)
		}
	}
}

func TestIntAndFloatOverloadsDisambiguate(t *testing.T) {
	cands := []candidate{
		funcCandidate("compute", reflect.ValueOf(func(n int64) string { return "int64" })),
		funcCandidate("compute", reflect.ValueOf(func(n float64) string { return "float64" })),
	}
	c, err := resolveOverload(cands, NewSignature("compute", []interface{}{int64(7)}))
	if err != nil || c == nil {
		t.Fatalf("resolution failed: %v, %v", c, err)
	}
	// int64 widens to float64 but not back, so the integer overload is
	// strictly more specific for an integer actual.
	if got := callCandidate(t, c, int64(7)); got != "int64" {
		t.Errorf("got %v, want int64 overload", got)
	}

	c, err = resolveOverload(cands, NewSignature("compute", []interface{}{9.5}))
	if err != nil || c == nil {
		t.Fatalf("float resolution failed: %v, %v", c, err)
	}
	if got := callCandidate(t, c, 9.5); got != "float64" {
		t.Errorf("got %v, want float64 overload", got)
	}
}

func TestComputeOverloadsByArgumentKinds(t *testing.T) {
	cands := []candidate{
		funcCandidate("compute", reflect.ValueOf(func(a, b int64) string { return "ints" })),
		funcCandidate("compute", reflect.ValueOf(func(a, b string) string { return "strings" })),
	}
	c, err := resolveOverload(cands, NewSignature("compute", []interface{}{int64(7), int64(9)}))
	if err != nil || c == nil {
		t.Fatalf("int resolution failed: %v, %v", c, err)
	}
	if got := callCandidate(t, c, int64(7), int64(9)); got != "ints" {
		t.Errorf("compute(7, 9) = %v, want the integer overload", got)
	}

	c, err = resolveOverload(cands, NewSignature("compute", []interface{}{"a", "b"}))
	if err != nil || c == nil {
		t.Fatalf("string resolution failed: %v, %v", c, err)
	}
	if got := callCandidate(t, c, "a", "b"); got != "strings" {
		t.Errorf("compute(a, b) = %v, want the string overload", got)
	}
}

func TestNullArgumentSelectsUniqueNilableOverload(t *testing.T) {
	cands := []candidate{
		funcCandidate("accept", reflect.ValueOf(func(c *circle) string { return "ptr" })),
		funcCandidate("accept", reflect.ValueOf(func(n int64) string { return "int" })),
	}
	c, err := resolveOverload(cands, NewSignature("accept", []interface{}{nil}))
	if err != nil || c == nil {
		t.Fatalf("resolution failed: %v, %v", c, err)
	}
	if got := callCandidate(t, c, nil); got != "ptr" {
		t.Errorf("got %v, want pointer overload", got)
	}
}

func TestNullArgumentAmbiguousAcrossNilables(t *testing.T) {
	cands := []candidate{
		funcCandidate("accept", reflect.ValueOf(func(c *circle) string { return "ptr" })),
		funcCandidate("accept", reflect.ValueOf(func(m map[string]int) string { return "map" })),
	}
	_, err := resolveOverload(cands, NewSignature("accept", []interface{}{nil}))
	var amb *AmbiguousError
	if !errors.As(err, &amb) {
		t.Fatalf("want AmbiguousError for null across unrelated nilables, got %v", err)
	}
}

func TestFixedArityBeatsVariadic(t *testing.T) {
	cands := []candidate{
		funcCandidate("join", reflect.ValueOf(func(parts ...string) string { return "variadic" })),
		funcCandidate("join", reflect.ValueOf(func(s string) string { return "fixed" })),
	}
	c, err := resolveOverload(cands, NewSignature("join", []interface{}{"x"}))
	if err != nil || c == nil {
		t.Fatalf("resolution failed: %v, %v", c, err)
	}
	if got := callCandidate(t, c, "x"); got != "fixed" {
		t.Errorf("got %v, want fixed-arity overload", got)
	}
}

func TestVariadicApplicability(t *testing.T) {
	join := funcCandidate("join", reflect.ValueOf(func(sep string, parts ...string) string {
		out := ""
		for i, p := range parts {
			if i > 0 {
				out += sep
			}
			out += p
		}
		return out
	}))

	for _, tc := range []struct {
		args []interface{}
		want bool
	}{
		{[]interface{}{"-"}, true},
		{[]interface{}{"-", "a"}, true},
		{[]interface{}{"-", "a", "b"}, true},
		{[]interface{}{}, false},
		{[]interface{}{"-", 1}, false},
	} {
		got := join.applicable(NewSignature("join", tc.args))
		if got != tc.want {
			t.Errorf("applicable(%v) = %v, want %v", tc.args, got, tc.want)
		}
	}

	out, err := join.call(nil, reflect.Value{}, []interface{}{"-", "a", "b"})
	if err != nil {
		t.Fatalf("variadic call failed: %v", err)
	}
	if out != "a-b" {
		t.Errorf("got %v, want a-b", out)
	}
}

func TestVariadicWholeSlicePassThrough(t *testing.T) {
	sum := funcCandidate("sum", reflect.ValueOf(func(ns ...int) int {
		total := 0
		for _, n := range ns {
			total += n
		}
		return total
	}))
	out, err := sum.call(nil, reflect.Value{}, []interface{}{[]int{1, 2, 3}})
	if err != nil {
		t.Fatalf("slice pass-through failed: %v", err)
	}
	if out != 6 {
		t.Errorf("got %v, want 6", out)
	}
}

func TestNoApplicableOverloadIsAMiss(t *testing.T) {
	cands := []candidate{
		funcCandidate("f", reflect.ValueOf(func(n int) int { return n })),
	}
	c, err := resolveOverload(cands, NewSignature("f", []interface{}{true}))
	if err != nil {
		t.Fatalf("miss must not be an error: %v", err)
	}
	if c != nil {
		t.Errorf("want nil candidate for inapplicable arguments, got %v", c)
	}
}

func TestCallFuncShapesResults(t *testing.T) {
	got, err := CallFunc("pair", func() (int, string) { return 1, "a" }, nil)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	vals, ok := got.([]interface{})
	if !ok || len(vals) != 2 || vals[0] != 1 || vals[1] != "a" {
		t.Errorf("multi-result shaping wrong: %v", got)
	}

	got, err = CallFunc("nothing", func() {}, nil)
	if err != nil || got != nil {
		t.Errorf("zero results: got (%v, %v), want (nil, nil)", got, err)
	}
}

func TestCallFuncPropagatesTrailingError(t *testing.T) {
	boom := fmt.Errorf("boom")
	_, err := CallFunc("fail", func() (int, error) { return 0, boom }, nil)
	var inv *InvocationError
	if !errors.As(err, &inv) {
		t.Fatalf("want InvocationError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("cause not preserved: %v", err)
	}
}

func TestCallFuncRecoversPanic(t *testing.T) {
	_, err := CallFunc("panics", func() { panic("kaput") }, nil)
	var inv *InvocationError
	if !errors.As(err, &inv) {
		t.Fatalf("panic must surface as InvocationError, got %v", err)
	}
}

func TestCallFuncRejectsNonFunction(t *testing.T) {
	if _, err := CallFunc("notfn", 42, nil); err == nil {
		t.Error("want error for non-function callee")
	}
}
