// Package era models detector-era modifiers: named switches that select a
// geometry-specific variant of a configuration object when they are active.
//
// The choice between a default definition and its era replacements is a
// tagged variant resolved exactly once, when the configuration is built.
package era

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnknownEra    = errors.New("unknown era modifier")
	ErrAmbiguousEra  = errors.New("more than one era replacement is active")
	ErrDuplicateEra  = errors.New("era modifier already registered")
	ErrEmptyEraName  = errors.New("era modifier name must be set")
	ErrDuplicateRule = errors.New("era replacement already declared")
)

// Modifier is a named era switch.
type Modifier struct {
	name string
}

// New declares a modifier. Prefer the Registry for modifiers read from
// configuration.
func New(name string) Modifier {
	return Modifier{name: name}
}

func (m Modifier) Name() string { return m.name }

func (m Modifier) String() string { return m.name }

var (
	TrackingPhase1      = New("trackingPhase1")
	TrackingPhase2PU140 = New("trackingPhase2PU140")
)

// Registry holds the era modifiers known to a build.
type Registry struct {
	modifiers map[string]Modifier
}

// NewRegistry creates a registry with the given modifiers.
func NewRegistry(mods ...Modifier) (*Registry, error) {
	r := &Registry{modifiers: make(map[string]Modifier, len(mods))}
	for _, m := range mods {
		if m.name == "" {
			return nil, ErrEmptyEraName
		}
		if _, ok := r.modifiers[m.name]; ok {
			return nil, errors.Wrap(ErrDuplicateEra, m.name)
		}
		r.modifiers[m.name] = m
	}

	return r, nil
}

// DefaultRegistry knows the tracking era modifiers used by fast simulation.
func DefaultRegistry() *Registry {
	r, _ := NewRegistry(TrackingPhase1, TrackingPhase2PU140)

	return r
}

func (r *Registry) Lookup(name string) (Modifier, error) {
	m, ok := r.modifiers[name]
	if !ok {
		return Modifier{}, errors.Wrap(ErrUnknownEra, name)
	}

	return m, nil
}

// Names returns the registered modifier names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.modifiers))
	for name := range r.modifiers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// ParseSet resolves a comma separated list of modifier names.
func (r *Registry) ParseSet(list string) (Set, error) {
	var mods []Modifier
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		m, err := r.Lookup(name)
		if err != nil {
			return Set{}, err
		}
		mods = append(mods, m)
	}

	return NewSet(mods...), nil
}

// Set is the immutable set of modifiers active for one build.
type Set struct {
	active map[string]struct{}
}

func NewSet(mods ...Modifier) Set {
	s := Set{active: make(map[string]struct{}, len(mods))}
	for _, m := range mods {
		s.active[m.name] = struct{}{}
	}

	return s
}

func (s Set) Contains(m Modifier) bool {
	_, ok := s.active[m.name]

	return ok
}

func (s Set) Len() int { return len(s.active) }

func (s Set) Names() []string {
	names := make([]string, 0, len(s.active))
	for name := range s.active {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
