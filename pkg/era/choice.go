package era

import "github.com/pkg/errors"

// Branch tells which definition a Choice resolved to. The zero value is the
// default definition.
type Branch struct {
	Modifier Modifier
	Replaced bool
}

func (b Branch) String() string {
	if !b.Replaced {
		return "default"
	}

	return b.Modifier.name
}

type replacement[T any] struct {
	modifier Modifier
	value    T
}

// Choice is a definition together with its era replacements.
type Choice[T any] struct {
	def          T
	replacements []replacement[T]
}

// Default starts a choice whose default definition is v.
func Default[T any](v T) Choice[T] {
	return Choice[T]{def: v}
}

// ReplaceWith returns a new choice where alt wholly replaces the default
// when m is active. A modifier has at most one replacement.
func (c Choice[T]) ReplaceWith(m Modifier, alt T) (Choice[T], error) {
	for _, r := range c.replacements {
		if r.modifier.name == m.name {
			return c, errors.Wrap(ErrDuplicateRule, m.name)
		}
	}

	next := Choice[T]{
		def:          c.def,
		replacements: make([]replacement[T], 0, len(c.replacements)+1),
	}
	next.replacements = append(next.replacements, c.replacements...)
	next.replacements = append(next.replacements, replacement[T]{modifier: m, value: alt})

	return next, nil
}

// Modifiers lists the modifiers that have a replacement.
func (c Choice[T]) Modifiers() []Modifier {
	mods := make([]Modifier, 0, len(c.replacements))
	for _, r := range c.replacements {
		mods = append(mods, r.modifier)
	}

	return mods
}

// Resolve picks exactly one definition for the active set.
func (c Choice[T]) Resolve(active Set) (T, Branch, error) {
	var found *replacement[T]
	for i := range c.replacements {
		r := &c.replacements[i]
		if !active.Contains(r.modifier) {
			continue
		}
		if found != nil {
			var zero T

			return zero, Branch{}, errors.Wrapf(ErrAmbiguousEra, "%s and %s", found.modifier, r.modifier)
		}
		found = r
	}

	if found == nil {
		return c.def, Branch{}, nil
	}

	return found.value, Branch{Modifier: found.modifier, Replaced: true}, nil
}
