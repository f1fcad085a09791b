package tracking_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-fasttrack/pkg/era"
	"github.com/askiada/go-fasttrack/pkg/pipeline/measure"
	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
	"github.com/askiada/go-fasttrack/pkg/pset"
	"github.com/askiada/go-fasttrack/pkg/standard"
	"github.com/askiada/go-fasttrack/pkg/tracking"
)

func TestNewContext(t *testing.T) {
	t.Parallel()

	_, err := tracking.NewContext(nil)
	require.ErrorIs(t, err, tracking.ErrCatalogMustBeSet)

	ctx := newContext(t, era.TrackingPhase1)
	assert.NotNil(t, ctx.Catalog())
	assert.NotNil(t, ctx.Logger())
	assert.True(t, ctx.Eras().Contains(era.TrackingPhase1))
	assert.Empty(t, ctx.Names())
}

func TestContextDefineIsImmutable(t *testing.T) {
	t.Parallel()

	ctx := newContext(t)
	regions := pset.Named{Label: "regions", Config: pset.New("Regions")}

	next, err := ctx.Define(regions)
	require.NoError(t, err)

	_, ok := ctx.Lookup("regions")
	assert.False(t, ok)
	obj, ok := next.Lookup("regions")
	require.True(t, ok)
	assert.Same(t, regions.Config, obj)

	_, err = next.Define(pset.Named{Label: "regions", Config: pset.New("Other")})
	require.ErrorIs(t, err, tracking.ErrDuplicateObject)
	_, err = ctx.Define(regions, regions)
	require.ErrorIs(t, err, tracking.ErrDuplicateObject)
	_, err = ctx.Define(pset.Named{Label: "seeds"})
	require.ErrorIs(t, err, tracking.ErrInvalidDefinition)

	other, err := next.Define(pset.Named{Label: "seeds", Config: pset.New("Seeds")})
	require.NoError(t, err)
	assert.Equal(t, []string{"regions", "seeds"}, other.Names())
	assert.Equal(t, []string{"regions"}, next.Names())
}

func TestBuildReturnsExtendedContext(t *testing.T) {
	t.Parallel()

	ctx := newContext(t)
	def := lookup(t, tracking.InitialStepName, tracking.Legacy)

	res, err := tracking.Build(ctx, def)
	require.NoError(t, err)
	assert.Empty(t, ctx.Names())
	assert.Equal(t, def.Labels(), res.Context.Names())

	// the same step cannot be built twice in one context
	_, err = tracking.Build(res.Context, def)
	require.ErrorIs(t, err, tracking.ErrDuplicateObject)
}

func TestContextSequenceOptions(t *testing.T) {
	t.Parallel()

	catalog, err := standard.Default()
	require.NoError(t, err)

	measures := map[string]*measure.DefaultMeasure{}
	var logs bytes.Buffer
	ctx, err := tracking.NewContext(catalog,
		tracking.WithLogger(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		tracking.WithSequenceOptions(func(def tracking.Definition) ([]model.SequenceOption, error) {
			m := measure.NewDefaultMeasure()
			measures[def.Step] = m

			return []model.SequenceOption{measure.PipelineMeasure(m)}, nil
		}),
	)
	require.NoError(t, err)

	def := lookup(t, tracking.HighPtTripletStepName, tracking.Legacy)
	_, err = tracking.Build(ctx, def)
	require.NoError(t, err)

	m := measures[tracking.HighPtTripletStepName]
	require.NotNil(t, m)
	assert.Equal(t, def.Labels(), m.Names())

	mt, ok := m.GetMetric(def.TracksLabel())
	require.True(t, ok)
	assert.Equal(t, tracking.RoleTracks, mt.Role())
	assert.Equal(t, 1, mt.Overrides())

	mt, ok = m.GetMetric(def.SelectorLabel())
	require.True(t, ok)
	assert.Equal(t, 1, mt.Overrides())

	assert.Contains(t, logs.String(), `"msg":"stage built"`)
	assert.Contains(t, logs.String(), `"step":"HighPtTripletStep"`)
}
