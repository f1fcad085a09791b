package tracking

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/era"
	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
	"github.com/askiada/go-fasttrack/pkg/pset"
	"github.com/askiada/go-fasttrack/pkg/standard"
)

// SequenceOptionsFn returns the sequence options of one step, for instance a
// drawer writing one file per step.
type SequenceOptionsFn func(def Definition) ([]model.SequenceOption, error)

// Context is the immutable state a step is built against. The zero value is
// not usable, use NewContext.
type Context struct {
	catalog *standard.Catalog
	eras    era.Set
	logger  *slog.Logger
	options SequenceOptionsFn

	objects map[string]*pset.PSet
	order   []string
}

type ContextOption func(ctx *Context)

// WithEras sets the era modifiers active for the build.
func WithEras(eras era.Set) ContextOption {
	return func(ctx *Context) {
		ctx.eras = eras
	}
}

// WithLogger sets the logger receiving stage level events.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(ctx *Context) {
		if logger != nil {
			ctx.logger = logger
		}
	}
}

// WithSequenceOptions attaches extra sequence options to every step.
func WithSequenceOptions(fn SequenceOptionsFn) ContextOption {
	return func(ctx *Context) {
		ctx.options = fn
	}
}

// NewContext creates an empty context over catalog.
func NewContext(catalog *standard.Catalog, opts ...ContextOption) (Context, error) {
	if catalog == nil {
		return Context{}, ErrCatalogMustBeSet
	}

	ctx := Context{
		catalog: catalog,
		eras:    era.NewSet(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		objects: make(map[string]*pset.PSet),
	}
	for _, opt := range opts {
		opt(&ctx)
	}

	return ctx, nil
}

func (c Context) Catalog() *standard.Catalog { return c.catalog }

func (c Context) Eras() era.Set { return c.eras }

func (c Context) Logger() *slog.Logger { return c.logger }

// Define returns a new context holding objs on top of the objects of c.
// Labels must be unique across the whole context.
func (c Context) Define(objs ...pset.Named) (Context, error) {
	next := c
	next.objects = make(map[string]*pset.PSet, len(c.objects)+len(objs))
	for k, v := range c.objects {
		next.objects[k] = v
	}
	next.order = make([]string, len(c.order), len(c.order)+len(objs))
	copy(next.order, c.order)

	for _, obj := range objs {
		if obj.Label == "" || obj.Config == nil {
			return Context{}, errors.Wrapf(ErrInvalidDefinition, "object %q", obj.Label)
		}
		if _, ok := next.objects[obj.Label]; ok {
			return Context{}, errors.Wrap(ErrDuplicateObject, obj.Label)
		}
		next.objects[obj.Label] = obj.Config
		next.order = append(next.order, obj.Label)
	}

	return next, nil
}

// Lookup returns a defined object.
func (c Context) Lookup(label string) (*pset.PSet, bool) {
	obj, ok := c.objects[label]

	return obj, ok
}

// Names returns the labels of the defined objects in definition order.
func (c Context) Names() []string {
	return append([]string{}, c.order...)
}

func (c Context) sequenceOptions(def Definition) ([]model.SequenceOption, error) {
	if c.options == nil {
		return nil, nil
	}
	opts, err := c.options(def)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create sequence options of %s", def.Step)
	}

	return opts, nil
}
