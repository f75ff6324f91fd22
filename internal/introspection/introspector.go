package introspection

import (
	"reflect"
	"sync"

	"github.com/rs/zerolog"
)

// Resolver maps a type name to its registered factory functions, playing the
// role a class loader plays in the source runtime. Swapping the resolver
// invalidates constructor resolutions but not per-type method maps, which
// stay keyed by reflect.Type identity.
type Resolver interface {
	// ResolveConstructor returns the factory overload set for name, or nil
	// when the name is unknown.
	ResolveConstructor(name string) []reflect.Value
}

// ctorEntry caches one constructor lookup outcome, including definite
// misses, so unknown names cost one search only. gen ties the entry to the
// resolver generation it was computed under.
type ctorEntry struct {
	gen        uint64
	resolution *resolution
}

// Introspector owns the reflective caches: one ClassMap per observed runtime
// type and a name-keyed constructor cache. All structures use their own lock
// so unrelated lookups never serialize on each other.
type Introspector struct {
	log zerolog.Logger

	diagMu       sync.RWMutex
	onDiagnostic DiagnosticFunc

	classMu sync.RWMutex
	classes map[reflect.Type]*ClassMap

	ctorMu   sync.RWMutex
	resolver Resolver
	gen      uint64
	ctors    map[string]*ctorEntry
}

// NewIntrospector builds an empty introspector logging through log.
func NewIntrospector(log zerolog.Logger) *Introspector {
	return &Introspector{
		log:     log,
		classes: make(map[reflect.Type]*ClassMap),
		ctors:   make(map[string]*ctorEntry),
	}
}

// OnDiagnostic registers the structured diagnostics sink. Pass nil to
// unregister. Safe to call while evaluations are in flight.
func (is *Introspector) OnDiagnostic(fn DiagnosticFunc) {
	is.diagMu.Lock()
	is.onDiagnostic = fn
	is.diagMu.Unlock()
}

func (is *Introspector) emit(d Diagnostic) {
	is.log.Debug().
		Str("kind", string(d.Kind)).
		Str("type", d.TypeName).
		Str("signature", d.Signature).
		Strs("candidates", d.Candidates).
		Msg("dispatch diagnostic")
	is.diagMu.RLock()
	fn := is.onDiagnostic
	is.diagMu.RUnlock()
	if fn != nil {
		fn(d)
	}
}

// ClassMapFor returns the (lazily built) class map of t. The map is fully
// constructed before it becomes visible to other goroutines.
func (is *Introspector) ClassMapFor(t reflect.Type) *ClassMap {
	is.classMu.RLock()
	cm, ok := is.classes[t]
	is.classMu.RUnlock()
	if ok {
		return cm
	}

	built := newClassMap(t)
	is.classMu.Lock()
	if prior, exists := is.classes[t]; exists {
		built = prior
	} else {
		is.classes[t] = built
	}
	is.classMu.Unlock()
	return built
}

// MethodBy resolves (type, signature) to a callable overload. A nil result
// with nil error means no applicable method; an *AmbiguousError is returned
// as such for the caller to demote.
func (is *Introspector) MethodBy(t reflect.Type, sig Signature) (*candidate, error) {
	return is.ClassMapFor(t).Lookup(sig)
}

// SetResolver installs the constructor resolver and invalidates every cached
// constructor resolution by bumping the generation. Method maps survive.
func (is *Introspector) SetResolver(r Resolver) {
	is.ctorMu.Lock()
	is.resolver = r
	is.gen++
	is.ctors = make(map[string]*ctorEntry)
	is.ctorMu.Unlock()
}

// Generation returns the current resolver generation. Cached constructor
// executors compare against it before fast-path reuse.
func (is *Introspector) Generation() uint64 {
	is.ctorMu.RLock()
	defer is.ctorMu.RUnlock()
	return is.gen
}

// ConstructorBy resolves a construction signature against the current
// resolver, caching hits, misses and ambiguities per signature key.
func (is *Introspector) ConstructorBy(sig Signature) (*candidate, uint64, error) {
	key := sig.Key()

	is.ctorMu.RLock()
	entry, ok := is.ctors[key]
	gen := is.gen
	resolver := is.resolver
	is.ctorMu.RUnlock()

	if ok && entry.gen == gen {
		if entry.resolution.ambiguous != nil {
			return nil, gen, entry.resolution.ambiguous
		}
		return entry.resolution.candidate, gen, nil
	}

	var candidates []candidate
	if resolver != nil {
		for _, fn := range resolver.ResolveConstructor(sig.name) {
			if fn.Kind() == reflect.Func {
				candidates = append(candidates, funcCandidate(sig.name, fn))
			}
		}
	}
	c, err := resolveOverload(candidates, sig)

	res := &resolution{candidate: c}
	if err != nil {
		amb, isAmb := err.(*AmbiguousError)
		if !isAmb {
			return nil, gen, err
		}
		res = &resolution{ambiguous: amb}
	}

	is.ctorMu.Lock()
	// A resolver swap between the read and this write must not publish a
	// stale entry under the new generation.
	if is.gen == gen {
		is.ctors[key] = &ctorEntry{gen: gen, resolution: res}
	}
	is.ctorMu.Unlock()

	if res.ambiguous != nil {
		return nil, gen, res.ambiguous
	}
	return res.candidate, gen, nil
}
