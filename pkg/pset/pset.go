package pset

import (
	"strings"

	"github.com/pkg/errors"
)

// PSet is an immutable, ordered set of named parameters.
type PSet struct {
	typ    string
	keys   []string
	values map[string]Value
}

// Field is a named value used to build a parameter set.
type Field struct {
	Name  string
	Value Value
}

// F is a shorthand for Field{name, v}.
func F(name string, v Value) Field {
	return Field{Name: name, Value: v}
}

// New creates a parameter set configuring the plugin typ. An empty typ
// describes a plain nested bundle. When a name is given twice the last value
// wins and the first position is kept.
func New(typ string, fields ...Field) *PSet {
	p := &PSet{
		typ:    typ,
		keys:   make([]string, 0, len(fields)),
		values: make(map[string]Value, len(fields)),
	}

	for _, f := range fields {
		if _, ok := p.values[f.Name]; !ok {
			p.keys = append(p.keys, f.Name)
		}
		p.values[f.Name] = f.Value
	}

	return p
}

// Type returns the plugin type, empty for plain bundles.
func (p *PSet) Type() string {
	if p == nil {
		return ""
	}

	return p.typ
}

// Len returns the number of top-level parameters.
func (p *PSet) Len() int {
	if p == nil {
		return 0
	}

	return len(p.keys)
}

// Keys returns the parameter names in declaration order.
func (p *PSet) Keys() []string {
	if p == nil {
		return nil
	}

	return append([]string{}, p.keys...)
}

func (p *PSet) Has(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.values[name]

	return ok
}

func (p *PSet) Get(name string) (Value, bool) {
	if p == nil {
		return Value{}, false
	}
	v, ok := p.values[name]

	return v, ok
}

// Lookup resolves a dotted path through nested bundles.
func (p *PSet) Lookup(path string) (Value, error) {
	parts := strings.Split(path, ".")
	curr := p
	for i, part := range parts {
		v, ok := curr.Get(part)
		if !ok {
			return Value{}, errors.Wrap(ErrParameterNotFound, path)
		}
		if i == len(parts)-1 {
			return v, nil
		}
		if v.Kind() != KindPSet {
			return Value{}, errors.Wrapf(ErrKindMismatch, "%s: %s is %s, not PSet", path, part, v.Kind())
		}
		curr = v.PSet()
	}

	return Value{}, errors.Wrap(ErrParameterNotFound, path)
}

func (p *PSet) typed(name string, kind Kind) (Value, error) {
	v, err := p.Lookup(name)
	if err != nil {
		return Value{}, err
	}
	if v.Kind() != kind {
		return Value{}, errors.Wrapf(ErrKindMismatch, "%s is %s, not %s", name, v.Kind(), kind)
	}

	return v, nil
}

// GetString returns the string parameter at the dotted path name.
func (p *PSet) GetString(name string) (string, error) {
	v, err := p.typed(name, KindString)

	return v.Str(), err
}

func (p *PSet) GetInt(name string) (int64, error) {
	v, err := p.typed(name, KindInt)

	return v.Int(), err
}

func (p *PSet) GetDouble(name string) (float64, error) {
	v, err := p.typed(name, KindDouble)

	return v.Double(), err
}

func (p *PSet) GetBool(name string) (bool, error) {
	v, err := p.typed(name, KindBool)

	return v.Bool(), err
}

func (p *PSet) GetTag(name string) (InputTag, error) {
	v, err := p.typed(name, KindInputTag)

	return v.Tag(), err
}

func (p *PSet) GetStrings(name string) ([]string, error) {
	v, err := p.typed(name, KindStringList)

	return v.Strings(), err
}

func (p *PSet) GetDoubles(name string) ([]float64, error) {
	v, err := p.typed(name, KindDoubleList)

	return v.Doubles(), err
}

func (p *PSet) GetPSet(name string) (*PSet, error) {
	v, err := p.typed(name, KindPSet)

	return v.PSet(), err
}

// Equal compares type and parameters, ignoring declaration order.
func (p *PSet) Equal(other *PSet) bool {
	if p == nil || other == nil {
		return p.Len() == 0 && other.Len() == 0 && p.Type() == other.Type()
	}
	if p.typ != other.typ || len(p.keys) != len(other.keys) {
		return false
	}
	for name, v := range p.values {
		ov, ok := other.values[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}

	return true
}

// Reference is an input tag found somewhere inside a parameter set.
type Reference struct {
	Path string
	Tag  InputTag
}

// References lists every non-empty input tag, depth first in declaration
// order.
func (p *PSet) References() []Reference {
	var refs []Reference
	p.collectReferences("", &refs)

	return refs
}

func (p *PSet) collectReferences(prefix string, refs *[]Reference) {
	if p == nil {
		return
	}
	for _, name := range p.keys {
		v := p.values[name]
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		switch v.Kind() {
		case KindInputTag:
			if !v.tag.IsEmpty() {
				*refs = append(*refs, Reference{Path: path, Tag: v.tag})
			}
		case KindPSet:
			v.nested.collectReferences(path, refs)
		}
	}
}

// Named binds a parameter set to the label other objects use to reference
// its output.
type Named struct {
	Label  string
	Config *PSet
}

// Tag returns an input tag pointing at the object.
func (n Named) Tag() Value {
	return TagOf(InputTag{Label: n.Label})
}
