package introspection

import (
	"reflect"
	"sync"
)

// resolution is the cached outcome of one signature search. Exactly one of
// the three states holds: a resolved candidate, a plain miss, or an
// ambiguity. Entries are fully built before publication.
type resolution struct {
	candidate *candidate
	ambiguous *AmbiguousError
}

// ClassMap owns the overload table of a single runtime type. The member set
// is captured once at construction and never mutated; only the signature
// cache grows afterwards, under the map's own lock.
type ClassMap struct {
	target reflect.Type
	byName map[string][]candidate

	mu       sync.RWMutex
	resolved map[string]*resolution
}

// newClassMap enumerates the exported method set of t. For a pointer type
// this is the pointer method set, which includes the value methods.
func newClassMap(t reflect.Type) *ClassMap {
	cm := &ClassMap{
		target:   t,
		byName:   make(map[string][]candidate),
		resolved: make(map[string]*resolution),
	}
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if m.PkgPath != "" {
			continue // unexported
		}
		cm.byName[m.Name] = append(cm.byName[m.Name], methodCandidate(m))
	}
	return cm
}

// Target returns the type this map was built for.
func (cm *ClassMap) Target() reflect.Type { return cm.target }

// MethodNames reports whether any overload with the given name exists.
func (cm *ClassMap) HasMethod(name string) bool {
	_, ok := cm.byName[name]
	return ok
}

// Lookup resolves a signature to the most specific overload, consulting and
// populating the per-map cache. A nil candidate with nil error is a miss;
// ambiguity is cached too so repeated failing searches stay O(1).
func (cm *ClassMap) Lookup(sig Signature) (*candidate, error) {
	key := sig.Key()

	cm.mu.RLock()
	res, ok := cm.resolved[key]
	cm.mu.RUnlock()
	if !ok {
		c, err := resolveOverload(cm.byName[sig.name], sig)
		res = &resolution{candidate: c}
		if err != nil {
			if amb, isAmb := err.(*AmbiguousError); isAmb {
				res = &resolution{ambiguous: amb}
			} else {
				return nil, err
			}
		}
		cm.mu.Lock()
		if prior, exists := cm.resolved[key]; exists {
			res = prior
		} else {
			cm.resolved[key] = res
		}
		cm.mu.Unlock()
	}

	if res.ambiguous != nil {
		return nil, res.ambiguous
	}
	return res.candidate, nil
}
