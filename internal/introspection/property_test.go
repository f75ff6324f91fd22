package introspection

import (
	"errors"
	"reflect"
	"testing"
)

type account struct {
	Name    string
	Balance int
	tag     string
}

func (a *account) GetLabel() string  { return "label:" + a.Name }
func (a *account) IsActive() bool    { return a.Balance > 0 }
func (a *account) IsCode() int       { return 42 }
func (a *account) SetLabel(s string) { a.Name = s }

type bag struct {
	items map[string]interface{}
}

func (b *bag) Get(key string) interface{} { return b.items[key] }
func (b *bag) Set(key string, v interface{}) {
	if b.items == nil {
		b.items = make(map[string]interface{})
	}
	b.items[key] = v
}

// attrs is a map type that also carries an accessor, to pin the chain order.
type attrs map[string]string

func (a attrs) GetName() string { return "from-method" }

func mustGet(t *testing.T, is *Introspector, obj, identifier interface{}) interface{} {
	t.Helper()
	exec := discoverGet(is, reflect.TypeOf(obj), identifier)
	if exec == nil {
		t.Fatalf("no get executor for %T[%v]", obj, identifier)
	}
	out, err := exec.Execute(obj)
	if err != nil {
		t.Fatalf("get %T[%v] failed: %v", obj, identifier, err)
	}
	return out
}

func TestIndexGetOnSlice(t *testing.T) {
	is := newTestIntrospector()
	list := []string{"a", "b", "c"}

	if got := mustGet(t, is, list, int64(1)); got != "b" {
		t.Errorf("list[1] = %v, want b", got)
	}
	// A numeric-string identifier addresses the same element.
	if got := mustGet(t, is, list, "1"); got != "b" {
		t.Errorf(`list["1"] = %v, want b`, got)
	}
}

func TestIndexGetOutOfBounds(t *testing.T) {
	is := newTestIntrospector()
	exec := discoverGet(is, reflect.TypeOf([]int{1}), int64(5))
	if exec == nil {
		t.Fatal("executor must resolve; bounds are a runtime concern")
	}
	if _, err := exec.Execute([]int{1}); err == nil {
		t.Error("want out-of-bounds error")
	}
}

func TestMapGetAndMissingKey(t *testing.T) {
	is := newTestIntrospector()
	m := map[string]int{"x": 7}

	if got := mustGet(t, is, m, "x"); got != 7 {
		t.Errorf("m[x] = %v, want 7", got)
	}
	if got := mustGet(t, is, m, "missing"); got != nil {
		t.Errorf("missing key must read as null, got %v", got)
	}
}

func TestMapSetWithNumericKeyConversion(t *testing.T) {
	is := newTestIntrospector()
	m := map[int]int{10: 1}

	exec := discoverSet(is, reflect.TypeOf(m), int64(10), int64(99))
	if exec == nil {
		t.Fatal("no set executor for int-keyed map")
	}
	out, err := exec.Execute(m, int64(99))
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if out != int64(99) {
		t.Errorf("set must return the written value, got %v", out)
	}
	if m[10] != 99 {
		t.Errorf("m[10] = %d, want 99", m[10])
	}
}

func TestNilMapWriteFailsWithoutPanic(t *testing.T) {
	is := newTestIntrospector()
	var m map[string]int

	exec := discoverSet(is, reflect.TypeOf(m), "x", int64(1))
	if exec == nil {
		t.Fatal("no set executor for nil map")
	}
	var inv *InvocationError
	if _, err := exec.Execute(m, int64(1)); !errors.As(err, &inv) {
		t.Fatalf("want InvocationError for nil-map write, got %v", err)
	}
	if _, err := exec.TryExecute(m, "x", int64(1)); !errors.As(err, &inv) {
		t.Fatalf("fast path must surface the same failure, got %v", err)
	}
}

func TestDuckGetAndSet(t *testing.T) {
	is := newTestIntrospector()
	b := &bag{items: map[string]interface{}{"color": "red"}}

	if got := mustGet(t, is, b, "color"); got != "red" {
		t.Errorf("duck get = %v, want red", got)
	}

	exec := discoverSet(is, reflect.TypeOf(b), "size", int64(3))
	if exec == nil {
		t.Fatal("no duck set executor")
	}
	if _, err := exec.Execute(b, int64(3)); err != nil {
		t.Fatalf("duck set failed: %v", err)
	}
	if b.items["size"] != int64(3) {
		t.Errorf("duck set did not store: %v", b.items)
	}
}

func TestBeanGetterAndBooleanAccessor(t *testing.T) {
	is := newTestIntrospector()
	a := &account{Name: "ada", Balance: 5}

	if got := mustGet(t, is, a, "label"); got != "label:ada" {
		t.Errorf("bean get = %v, want label:ada", got)
	}
	// "active" resolves through IsActive because the result is bool.
	if got := mustGet(t, is, a, "active"); got != true {
		t.Errorf("boolean accessor = %v, want true", got)
	}
	// IsCode returns int, so it is not an accessor and there is no Code
	// field either.
	if exec := discoverGet(is, reflect.TypeOf(a), "code"); exec != nil {
		t.Error("non-bool Is method must not serve as a boolean accessor")
	}
}

// legacy carries only the flipped-case accessor spelling.
type legacy struct{}

func (l *legacy) Getbar() string { return "flip" }

func TestAccessorCaseFlipIsTriedSecond(t *testing.T) {
	is := newTestIntrospector()

	// "Bar" first tries GetBar, then the case-flipped Getbar.
	if got := mustGet(t, is, &legacy{}, "Bar"); got != "flip" {
		t.Errorf("case-flip accessor = %v, want flip", got)
	}
	// "bar" capitalizes to GetBar both times and never reaches Getbar: the
	// flip is a strict second attempt, not a general case search.
	if exec := discoverGet(is, reflect.TypeOf(&legacy{}), "bar"); exec != nil {
		t.Error("lower-case property must not reach the flipped accessor")
	}
}

func TestFieldGetExactAndCapitalized(t *testing.T) {
	is := newTestIntrospector()
	a := &account{Name: "ada", Balance: 5}

	if got := mustGet(t, is, a, "Name"); got != "ada" {
		t.Errorf("field by exact name = %v, want ada", got)
	}
	if got := mustGet(t, is, a, "balance"); got != 5 {
		t.Errorf("field by capitalized name = %v, want 5", got)
	}
	if exec := discoverGet(is, reflect.TypeOf(a), "tag"); exec != nil {
		t.Error("unexported field must stay invisible")
	}
}

func TestFieldWriteRequiresPointerReceiver(t *testing.T) {
	is := newTestIntrospector()

	if exec := discoverSet(is, reflect.TypeOf(account{}), "Name", "x"); exec != nil {
		t.Error("value receiver fields are not writable")
	}

	a := &account{}
	exec := discoverSet(is, reflect.TypeOf(a), "balance", int64(12))
	if exec == nil {
		t.Fatal("no field set executor for pointer receiver")
	}
	if _, err := exec.Execute(a, int64(12)); err != nil {
		t.Fatalf("field set failed: %v", err)
	}
	if a.Balance != 12 {
		t.Errorf("Balance = %d, want 12", a.Balance)
	}
}

func TestBeanSetterWins(t *testing.T) {
	is := newTestIntrospector()
	a := &account{}

	// "label" has both SetLabel and no field; the mutator is used.
	exec := discoverSet(is, reflect.TypeOf(a), "label", "tagged")
	if exec == nil {
		t.Fatal("no bean set executor")
	}
	if _, err := exec.Execute(a, "tagged"); err != nil {
		t.Fatalf("bean set failed: %v", err)
	}
	if a.Name != "tagged" {
		t.Errorf("mutator not applied: %q", a.Name)
	}
}

func TestMapEntryBeatsAccessor(t *testing.T) {
	is := newTestIntrospector()
	m := attrs{"Name": "from-entry"}

	// Key access outranks the GetName method on the same type.
	if got := mustGet(t, is, m, "Name"); got != "from-entry" {
		t.Errorf("chain order broken: got %v, want the map entry", got)
	}
}

func TestTryExecuteFastPathLaw(t *testing.T) {
	is := newTestIntrospector()
	exec := discoverGet(is, reflect.TypeOf([]string{}), int64(0))
	if exec == nil {
		t.Fatal("no executor")
	}

	// Same runtime type and key: fast path produces the real value.
	out, err := exec.TryExecute([]string{"z"}, int64(0))
	if err != nil || out != "z" {
		t.Errorf("fast path: got (%v, %v), want (z, nil)", out, err)
	}

	// Different key: refuse, never answer for the wrong member.
	if out, _ := exec.TryExecute([]string{"z"}, int64(1)); out != TryFailed {
		t.Errorf("different key must fail the fast path, got %v", out)
	}

	// Different runtime type: refuse without panicking.
	if out, _ := exec.TryExecute(map[string]int{}, int64(0)); out != TryFailed {
		t.Errorf("different type must fail the fast path, got %v", out)
	}

	if out, _ := exec.TryExecute(nil, int64(0)); out != TryFailed {
		t.Errorf("nil receiver must fail the fast path, got %v", out)
	}
}

func TestSetTryExecuteChecksValueShape(t *testing.T) {
	is := newTestIntrospector()
	a := &account{}
	exec := discoverSet(is, reflect.TypeOf(a), "label", "first")
	if exec == nil {
		t.Fatal("no executor")
	}
	// SetLabel takes a string; an int value cannot ride the fast path.
	if out, _ := exec.TryExecute(a, "label", int64(9)); out != TryFailed {
		t.Errorf("mismatched value must fail the fast path, got %v", out)
	}
	if out, err := exec.TryExecute(a, "label", "second"); err != nil || out != "second" {
		t.Errorf("fast path set: got (%v, %v)", out, err)
	}
}

func TestTryFailedIsUnique(t *testing.T) {
	if TryFailed == nil {
		t.Fatal("sentinel must not be nil")
	}
	if TryFailed == interface{}(&tryFailedMarker{}) {
		t.Error("sentinel must be identity-compared, not type-compared")
	}
}
