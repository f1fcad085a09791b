package tracking_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-fasttrack/pkg/era"
	"github.com/askiada/go-fasttrack/pkg/pset"
	"github.com/askiada/go-fasttrack/pkg/standard"
	"github.com/askiada/go-fasttrack/pkg/tracking"
)

func newContext(t *testing.T, mods ...era.Modifier) tracking.Context {
	t.Helper()

	catalog, err := standard.Default()
	require.NoError(t, err)
	ctx, err := tracking.NewContext(catalog, tracking.WithEras(era.NewSet(mods...)))
	require.NoError(t, err)

	return ctx
}

func lookup(t *testing.T, step string, variant tracking.Variant) tracking.Definition {
	t.Helper()

	def, err := tracking.Lookup(step, variant)
	require.NoError(t, err)

	return def
}

func build(t *testing.T, def tracking.Definition, mods ...era.Modifier) *tracking.StepResult {
	t.Helper()

	res, err := tracking.Build(newContext(t, mods...), def)
	require.NoError(t, err)

	return res
}

func object(t *testing.T, res *tracking.StepResult, label string) *pset.PSet {
	t.Helper()

	obj, ok := res.Object(label)
	require.True(t, ok, "missing %s", label)

	return obj
}

// flatten renders a set as a plain map so that go-cmp can diff it.
func flatten(p *pset.PSet) map[string]any {
	out := map[string]any{"@type": p.Type()}
	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		if v.Kind() == pset.KindPSet {
			out[k] = flatten(v.PSet())

			continue
		}
		out[k] = v.Interface()
	}

	return out
}

// replaceObject returns a copy of res where the object label is cfg.
func replaceObject(res *tracking.StepResult, label string, cfg *pset.PSet) *tracking.StepResult {
	next := *res
	next.Objects = make([]pset.Named, len(res.Objects))
	for i, obj := range res.Objects {
		if obj.Label == label {
			obj.Config = cfg
		}
		next.Objects[i] = obj
	}

	return &next
}
