package pset

import (
	"github.com/pkg/errors"
)

type overrideOp int

const (
	opSet overrideOp = iota
	opReplace
	opInsert
	opModify
	opType
)

// Override describes one change applied by Clone.
type Override struct {
	op     overrideOp
	name   string
	value  Value
	nested []Override
}

// Set replaces an existing parameter. When both the old and the new value
// are nested bundles the new one is merged field by field into the old one.
func Set(name string, v Value) Override {
	return Override{op: opSet, name: name, value: v}
}

// Replace swaps an existing parameter wholesale, nested bundles included.
func Replace(name string, v Value) Override {
	return Override{op: opReplace, name: name, value: v}
}

// Insert adds a parameter the template does not have.
func Insert(name string, v Value) Override {
	return Override{op: opInsert, name: name, value: v}
}

// Modify applies overrides inside the existing nested bundle name.
func Modify(name string, overrides ...Override) Override {
	return Override{op: opModify, name: name, nested: overrides}
}

// WithType changes the plugin type of the clone.
func WithType(typ string) Override {
	return Override{op: opType, value: String(typ)}
}

// Name returns the parameter touched by the override.
func (o Override) Name() string { return o.name }

// Clone returns a copy of p with the overrides applied in order. p itself is
// never modified.
func (p *PSet) Clone(overrides ...Override) (*PSet, error) {
	out := p.copy()
	for _, o := range overrides {
		err := out.apply("", o)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// MustClone is Clone for static declarations that are known to be valid.
func (p *PSet) MustClone(overrides ...Override) *PSet {
	out, err := p.Clone(overrides...)
	if err != nil {
		panic(err)
	}

	return out
}

// copy is shallow on nested sets, which is safe because nothing mutates a
// published PSet.
func (p *PSet) copy() *PSet {
	if p == nil {
		return New("")
	}
	out := &PSet{
		typ:    p.typ,
		keys:   append([]string{}, p.keys...),
		values: make(map[string]Value, len(p.values)),
	}
	for k, v := range p.values {
		out.values[k] = v
	}

	return out
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}

	return prefix + "." + name
}

func (p *PSet) apply(prefix string, o Override) error {
	path := joinPath(prefix, o.name)

	switch o.op {
	case opType:
		p.typ = o.value.Str()

		return nil
	case opInsert:
		if _, ok := p.values[o.name]; ok {
			return errors.Wrap(ErrParameterExists, path)
		}
		p.keys = append(p.keys, o.name)
		p.values[o.name] = o.value

		return nil
	}

	old, ok := p.values[o.name]
	if !ok {
		return errors.Wrap(ErrUnknownParameter, path)
	}

	switch o.op {
	case opModify:
		if old.Kind() != KindPSet {
			return errors.Wrapf(ErrKindMismatch, "%s is %s, not PSet", path, old.Kind())
		}
		nested := old.nested.copy()
		for _, sub := range o.nested {
			err := nested.apply(path, sub)
			if err != nil {
				return err
			}
		}
		p.values[o.name] = Nested(nested)
	case opReplace:
		if !assignable(old, o.value) {
			return errors.Wrapf(ErrKindMismatch, "%s is %s, cannot replace with %s", path, old.Kind(), o.value.Kind())
		}
		p.values[o.name] = o.value
	case opSet:
		if !assignable(old, o.value) {
			return errors.Wrapf(ErrKindMismatch, "%s is %s, cannot set %s", path, old.Kind(), o.value.Kind())
		}
		if old.Kind() != KindPSet {
			p.values[o.name] = o.value

			return nil
		}
		merged, err := merge(path, old.nested, o.value.nested)
		if err != nil {
			return err
		}
		p.values[o.name] = Nested(merged)
	}

	return nil
}

// assignable reports whether v may take the place of old. An empty list has
// no element kind of its own and takes the kind of the list set over it.
func assignable(old, v Value) bool {
	if old.Kind() == v.Kind() {
		return true
	}

	return isList(old.Kind()) && isList(v.Kind()) && len(old.strs)+len(old.dbls) == 0
}

func isList(k Kind) bool {
	return k == KindStringList || k == KindDoubleList
}

func merge(path string, base, patch *PSet) (*PSet, error) {
	out := base.copy()
	if patch.Type() != "" {
		out.typ = patch.Type()
	}
	for _, name := range patch.keys {
		err := out.apply(path, Set(name, patch.values[name]))
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}
