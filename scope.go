package objgraph

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// ScopeID identifies a scope in the registry of an object graph.
type ScopeID string

const (
	// Prototype builds a new value every time it is injected.
	Prototype ScopeID = "prototype"
	// Singleton builds a value once per object graph.
	Singleton ScopeID = "singleton"
	// Unscoped is the scope of the root injection context, before any binding is traversed.
	Unscoped ScopeID = "unscoped"

	// DefaultScope is used by bindings declared without InScope.
	DefaultScope = Singleton
)

type (
	// Scope decides whether produce is called or a previously produced value is reused.
	Scope interface {
		Provide(ictx *InjectionContext, key BindingKey, produce func() (any, error)) (any, error)
	}

	PrototypeScope struct{}

	// SingletonScope caches one value per binding key. Constructions are serialized by a
	// lock re-entrant for the resolution holding it, concurrent resolutions wait and
	// then observe the cached value.
	SingletonScope struct {
		lock  *reentrantLock
		cache map[BindingKey]any
		order []BindingKey
	}

	// Scopes is the registry of scopes of an object graph.
	Scopes map[ScopeID]Scope
)

func (PrototypeScope) Provide(_ *InjectionContext, _ BindingKey, produce func() (any, error)) (any, error) {
	return produce()
}

func NewSingletonScope() *SingletonScope {
	return &SingletonScope{
		lock:  newReentrantLock(),
		cache: make(map[BindingKey]any),
	}
}

func (s *SingletonScope) Provide(ictx *InjectionContext, key BindingKey, produce func() (any, error)) (any, error) {
	s.lock.Lock(ictx.lockOwner())
	defer s.lock.Unlock()

	if value, found := s.cache[key]; found {
		return value, nil
	}

	value, err := produce()
	if err != nil {
		return nil, err
	}
	s.cache[key] = value
	s.order = append(s.order, key)

	return value, nil
}

// Close closes the cached values implementing io.Closer, most recently built first.
func (s *SingletonScope) Close() error {
	s.lock.Lock(&resolution{target: "close"})
	defer s.lock.Unlock()

	var closeErrors []error
	for i := len(s.order) - 1; i >= 0; i-- {
		key := s.order[i]
		closer, ok := s.cache[key].(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to close %s:\n\t%w", key, err))
		}
	}
	s.cache = make(map[BindingKey]any)
	s.order = nil

	return errors.Join(closeErrors...)
}

// newScopes seeds the registry with the built-in scopes and adds the custom ones.
func newScopes(custom map[ScopeID]Scope) (Scopes, error) {
	scopes := Scopes{
		Prototype: PrototypeScope{},
		Singleton: NewSingletonScope(),
	}
	for _, id := range sortedScopeIDs(custom) {
		if _, reserved := scopes[id]; reserved || id == Unscoped {
			return nil, &OverridingDefaultScopeError{ScopeID: id}
		}
		scopes[id] = custom[id]
	}
	return scopes, nil
}

func (s Scopes) has(id ScopeID) bool {
	_, found := s[id]
	return found
}

func sortedScopeIDs[S any](scopes map[ScopeID]S) []ScopeID {
	ids := make([]ScopeID, 0, len(scopes))
	for id := range scopes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
