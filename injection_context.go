package objgraph

import (
	"strings"
)

type (
	// ScopeCompatibility tells whether a binding in bindingScope may be injected while
	// building something in contextScope.
	ScopeCompatibility func(bindingScope, contextScope ScopeID) bool

	// resolution identifies one provide call, top-level or made through an injected
	// provider, and owns the singleton locks taken while it runs.
	resolution struct {
		target string
		parent *resolution
	}

	// InjectionContext is the immutable state of one path in a resolution: the
	// bindings traversed so far and the scope of the last one.
	InjectionContext struct {
		site      string
		traversed []*Binding
		sites     []string
		scopeID   ScopeID
		usable    ScopeCompatibility
		owner     *resolution
	}

	injectionContextFactory struct {
		usable ScopeCompatibility
	}
)

func alwaysUsable(ScopeID, ScopeID) bool {
	return true
}

func newInjectionContextFactory(usable ScopeCompatibility) injectionContextFactory {
	if usable == nil {
		usable = alwaysUsable
	}
	return injectionContextFactory{usable: usable}
}

// new creates the root context of a resolution started at site.
func (f injectionContextFactory) new(site string) *InjectionContext {
	return &InjectionContext{
		site:    site,
		sites:   []string{site},
		scopeID: Unscoped,
		usable:  f.usable,
		owner:   &resolution{target: site},
	}
}

// GetChild returns the context used to produce binding, requested by site.
func (c *InjectionContext) GetChild(site string, binding *Binding) (*InjectionContext, error) {
	for i, traversed := range c.traversed {
		if traversed == binding {
			chain := make([]*Binding, 0, len(c.traversed)-i+1)
			chain = append(chain, c.traversed[i:]...)
			return nil, &CyclicInjectionError{Chain: append(chain, binding)}
		}
	}
	if !c.usable(binding.scopeID, c.scopeID) {
		return nil, &BadDependencyScopeError{Binding: binding, FromScope: c.scopeID, Site: site}
	}

	traversed := make([]*Binding, len(c.traversed), len(c.traversed)+1)
	copy(traversed, c.traversed)
	sites := make([]string, len(c.sites), len(c.sites)+1)
	copy(sites, c.sites)

	return &InjectionContext{
		site:      site,
		traversed: append(traversed, binding),
		sites:     append(sites, site),
		scopeID:   binding.scopeID,
		usable:    c.usable,
		owner:     c.owner,
	}, nil
}

func (c *InjectionContext) Site() string {
	return c.site
}

func (c *InjectionContext) ScopeID() ScopeID {
	return c.scopeID
}

// Bindings returns the bindings traversed from the root, oldest first.
func (c *InjectionContext) Bindings() []*Binding {
	bindings := make([]*Binding, len(c.traversed))
	copy(bindings, c.traversed)
	return bindings
}

// Path renders the sites traversed from the root.
func (c *InjectionContext) Path() string {
	return strings.Join(c.sites, " -> ")
}

// forProviderCall returns the context of a call to a provider injected from c. The call
// keeps the traversed bindings, for cycle checks, but runs as a resolution of its own
// started from the one of c.
func (c *InjectionContext) forProviderCall() *InjectionContext {
	call := *c
	call.owner = &resolution{target: c.site, parent: c.owner}
	return &call
}

func (c *InjectionContext) lockOwner() *resolution {
	if c == nil {
		return &resolution{target: "detached"}
	}
	return c.owner
}

// startedFrom reports whether r is ancestor, or was started from it directly or not.
func (r *resolution) startedFrom(ancestor *resolution) bool {
	for current := r; current != nil; current = current.parent {
		if current == ancestor {
			return true
		}
	}
	return false
}
