// Package standard holds the standard (full simulation) tracking
// configuration that fast simulation clones its objects from.
//
// Each tracking iteration is described by a Template: the named objects of
// that iteration (cluster remover, tracking regions, seeding layers, hit
// doublets and triplets or quadruplets, track fit, classifiers and final
// selector). Templates are read-only. A default catalog is embedded in the
// binary; other catalogs are loaded from YAML documents of the form
//
//	step: InitialStep
//	objects:
//	  initialStepTracks:
//	    type: TrackProducer
//	    src: !tag initialStepTrackCandidates
package standard

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/pset"
)

var (
	ErrTemplateNotFound  = errors.New("standard template not found")
	ErrObjectNotFound    = errors.New("standard object not found")
	ErrDuplicateTemplate = errors.New("standard template defined twice")
	ErrDuplicateObject   = errors.New("standard object defined twice")
	ErrStepMustBeSet     = errors.New("standard template step must be set")
)

// Template is the standard configuration of one tracking iteration.
type Template struct {
	step    string
	names   []string
	objects map[string]*pset.PSet
}

// NewTemplate builds a template from named objects, keeping their order.
func NewTemplate(step string, objects ...pset.Named) (*Template, error) {
	if step == "" {
		return nil, ErrStepMustBeSet
	}
	t := &Template{
		step:    step,
		names:   make([]string, 0, len(objects)),
		objects: make(map[string]*pset.PSet, len(objects)),
	}
	for _, obj := range objects {
		if _, ok := t.objects[obj.Label]; ok {
			return nil, errors.Wrapf(ErrDuplicateObject, "%s: %s", step, obj.Label)
		}
		t.names = append(t.names, obj.Label)
		t.objects[obj.Label] = obj.Config
	}

	return t, nil
}

func (t *Template) Step() string { return t.step }

// Names returns the object labels in declaration order.
func (t *Template) Names() []string {
	return append([]string{}, t.names...)
}

// Object returns the named standard object.
func (t *Template) Object(name string) (*pset.PSet, error) {
	obj, ok := t.objects[name]
	if !ok {
		return nil, errors.Wrapf(ErrObjectNotFound, "%s: %s", t.step, name)
	}

	return obj, nil
}

// Catalog indexes templates by step name.
type Catalog struct {
	steps     []string
	templates map[string]*Template
}

// NewCatalog creates a catalog. Step names must be unique.
func NewCatalog(templates ...*Template) (*Catalog, error) {
	c := &Catalog{
		steps:     make([]string, 0, len(templates)),
		templates: make(map[string]*Template, len(templates)),
	}
	for _, t := range templates {
		if _, ok := c.templates[t.step]; ok {
			return nil, errors.Wrap(ErrDuplicateTemplate, t.step)
		}
		c.steps = append(c.steps, t.step)
		c.templates[t.step] = t
	}

	return c, nil
}

// Steps returns the step names in load order.
func (c *Catalog) Steps() []string {
	return append([]string{}, c.steps...)
}

func (c *Catalog) Template(step string) (*Template, error) {
	t, ok := c.templates[step]
	if !ok {
		return nil, errors.Wrap(ErrTemplateNotFound, step)
	}

	return t, nil
}

// Lookup returns one object of one step.
func (c *Catalog) Lookup(step, name string) (*pset.PSet, error) {
	t, err := c.Template(step)
	if err != nil {
		return nil, err
	}

	return t.Object(name)
}
