package objgraph

import (
	"github.com/a-peyrard/objgraph/fn"
	"github.com/a-peyrard/objgraph/slices"
)

// BindingMapping is the frozen lookup table of an object graph. Keys bound more than
// once by the implicit layer are kept aside as ambiguous, they only fail when requested.
type BindingMapping struct {
	resolved  map[BindingKey]*Binding
	ambiguous map[BindingKey][]*Binding
}

// mergeLayers merges bindings layers, from the lowest to the highest priority. A key
// bound twice in the last (explicit) layer is an error, in earlier layers it becomes
// ambiguous. A key bound by a layer overrides whatever earlier layers did with it.
func mergeLayers(layers ...[]*Binding) (*BindingMapping, error) {
	mapping := &BindingMapping{
		resolved:  make(map[BindingKey]*Binding),
		ambiguous: make(map[BindingKey][]*Binding),
	}

	for i, layer := range layers {
		final := i == len(layers)-1
		layerResolved := make(map[BindingKey]*Binding, len(layer))
		layerAmbiguous := make(map[BindingKey][]*Binding)

		for _, binding := range layer {
			key := binding.key
			if colliding, found := layerAmbiguous[key]; found {
				layerAmbiguous[key] = append(colliding, binding)
				continue
			}
			previous, found := layerResolved[key]
			if !found {
				layerResolved[key] = binding
				continue
			}
			if final {
				return nil, &ConflictingExplicitBindingsError{Bindings: []*Binding{previous, binding}}
			}
			delete(layerResolved, key)
			layerAmbiguous[key] = []*Binding{previous, binding}
		}

		for key, binding := range layerResolved {
			mapping.resolved[key] = binding
			delete(mapping.ambiguous, key)
		}
		for key, colliding := range layerAmbiguous {
			delete(mapping.resolved, key)
			mapping.ambiguous[key] = colliding
		}
	}

	return mapping, nil
}

// Get returns the binding of key, needed by site.
func (m *BindingMapping) Get(key BindingKey, site string) (*Binding, error) {
	if binding, found := m.resolved[key]; found {
		return binding, nil
	}
	if colliding, found := m.ambiguous[key]; found {
		return nil, &AmbiguousArgNameError{Key: key, Site: site, Candidates: sortedByLocation(colliding)}
	}
	return nil, &NothingInjectableForArgError{Key: key, Site: site}
}

// Resolved returns the unambiguous bindings, sorted by location.
func (m *BindingMapping) Resolved() []*Binding {
	bindings := make([]*Binding, 0, len(m.resolved))
	for _, binding := range m.resolved {
		bindings = append(bindings, binding)
	}
	return sortedByLocation(bindings)
}

// Ambiguous returns the colliding bindings of every ambiguous key.
func (m *BindingMapping) Ambiguous() map[BindingKey][]*Binding {
	ambiguous := make(map[BindingKey][]*Binding, len(m.ambiguous))
	for key, colliding := range m.ambiguous {
		ambiguous[key] = sortedByLocation(colliding)
	}
	return ambiguous
}

func sortedByLocation(bindings []*Binding) []*Binding {
	return slices.Sorted(bindings, func(b1, b2 *Binding) fn.ComparisonResult {
		if b1.location != b2.location {
			return fn.ComparingBy((*Binding).Location)(b1, b2)
		}
		return fn.ComparingBy((*Binding).String)(b1, b2)
	})
}
