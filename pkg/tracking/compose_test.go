package tracking_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-fasttrack/pkg/era"
	"github.com/askiada/go-fasttrack/pkg/fastsim"
	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
	"github.com/askiada/go-fasttrack/pkg/pset"
	"github.com/askiada/go-fasttrack/pkg/standard"
	"github.com/askiada/go-fasttrack/pkg/tracking"
)

func TestStageOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		step       string
		variant    tracking.Variant
		expression string
	}{
		{
			step:    tracking.InitialStepName,
			variant: tracking.Legacy,
			expression: "initialStepTrackingRegions + initialStepSeeds + initialStepTrackCandidates + initialStepTracks" +
				" + firstStepPrimaryVerticesBeforeMixing" +
				" + (initialStepClassifier1 | initialStepClassifier2 | initialStepClassifier3) + initialStep",
		},
		{
			step:    tracking.HighPtTripletStepName,
			variant: tracking.Phase1,
			expression: "highPtTripletStepMasks + highPtTripletStepTrackingRegions + highPtTripletStepSeeds" +
				" + highPtTripletStepTrackCandidates + highPtTripletStepTracks + highPtTripletStep",
		},
		{
			step:    tracking.LowPtQuadStepName,
			variant: tracking.Legacy,
			expression: "lowPtQuadStepMasks + lowPtQuadStepTrackingRegions + lowPtQuadStepSeeds" +
				" + lowPtQuadStepTrackCandidates + lowPtQuadStepTracks + lowPtQuadStep",
		},
		{
			step:    tracking.DetachedQuadStepName,
			variant: tracking.Legacy,
			expression: "detachedQuadStepMasks + detachedQuadStepTrackingRegions + detachedQuadStepSeeds" +
				" + detachedQuadStepTrackCandidates + detachedQuadStepTracks + detachedQuadStep",
		},
		{
			step:    tracking.DetachedTripletStepName,
			variant: tracking.Phase1,
			expression: "detachedTripletStepMasks + detachedTripletStepTrackingRegions + detachedTripletStepSeeds" +
				" + detachedTripletStepTrackCandidates + detachedTripletStepTracks" +
				" + (detachedTripletStepClassifier1 | detachedTripletStepClassifier2) + detachedTripletStep",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.step+"/"+string(tt.variant), func(t *testing.T) {
			t.Parallel()

			res := build(t, lookup(t, tt.step, tt.variant))
			assert.Equal(t, tt.expression, res.Sequence.Expression())
		})
	}
}

func TestEveryDefinitionFollowsItsLabels(t *testing.T) {
	t.Parallel()

	for _, mods := range [][]era.Modifier{nil, {era.TrackingPhase1}} {
		for _, def := range tracking.Definitions() {
			res, err := tracking.Build(newContext(t, mods...), def)
			require.NoError(t, err, "%s %s", def.Step, def.Variant)

			assert.Equal(t, def.Labels(), res.Sequence.Names(), "%s %s", def.Step, def.Variant)

			// data links only point backwards, so the schedule is a valid order
			order, err := res.Sequence.TopologicalOrder()
			require.NoError(t, err)
			assert.Equal(t, res.Sequence.Names(), order, "%s %s", def.Step, def.Variant)
		}
	}
}

func TestBuildLeavesTemplatesUntouched(t *testing.T) {
	t.Parallel()

	catalog, err := standard.Default()
	require.NoError(t, err)

	snapshot := func() map[string]any {
		out := map[string]any{
			"mask":       flatten(fastsim.FastTrackerRecHitMaskProducer()),
			"seeds":      flatten(fastsim.TrajectorySeedProducer()),
			"candidates": flatten(fastsim.TrackCandidateProducer()),
		}
		for _, step := range catalog.Steps() {
			tmpl, err := catalog.Template(step)
			require.NoError(t, err)
			for _, name := range tmpl.Names() {
				obj, err := tmpl.Object(name)
				require.NoError(t, err)
				out[step+"/"+name] = flatten(obj)
			}
		}

		return out
	}

	before := snapshot()
	for _, mods := range [][]era.Modifier{nil, {era.TrackingPhase1}} {
		ctx, err := tracking.NewContext(catalog, tracking.WithEras(era.NewSet(mods...)))
		require.NoError(t, err)
		for _, def := range tracking.Definitions() {
			_, err := tracking.Build(ctx, def)
			require.NoError(t, err)
		}
	}

	if diff := cmp.Diff(before, snapshot()); diff != "" {
		t.Errorf("templates changed (-before +after):\n%s", diff)
	}
}

func TestMinCrossedLayers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		step    string
		variant tracking.Variant
		want    int64
	}{
		{step: tracking.InitialStepName, variant: tracking.Legacy, want: 3},
		{step: tracking.InitialStepName, variant: tracking.Phase1, want: 3},
		{step: tracking.HighPtTripletStepName, variant: tracking.Legacy, want: 3},
		{step: tracking.HighPtTripletStepName, variant: tracking.Phase1, want: 3},
		{step: tracking.LowPtQuadStepName, variant: tracking.Legacy, want: 3},
		{step: tracking.LowPtQuadStepName, variant: tracking.Phase1, want: 4},
		{step: tracking.DetachedQuadStepName, variant: tracking.Legacy, want: 3},
		{step: tracking.DetachedQuadStepName, variant: tracking.Phase1, want: 4},
		{step: tracking.DetachedTripletStepName, variant: tracking.Phase1, want: 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.step+"/"+string(tt.variant), func(t *testing.T) {
			t.Parallel()

			def := lookup(t, tt.step, tt.variant)
			res := build(t, def)
			got, err := object(t, res, def.CandidatesLabel()).GetInt("MinNumberOfCrossedLayers")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEraSelectorIsExclusive(t *testing.T) {
	t.Parallel()

	for _, def := range tracking.Definitions() {
		if def.Era == nil {
			continue
		}
		def := def
		t.Run(def.Step, func(t *testing.T) {
			t.Parallel()

			count := func(res *tracking.StepResult) int {
				n := 0
				for _, obj := range res.Objects {
					if obj.Label == def.SelectorLabel() {
						n++
					}
				}

				return n
			}

			plain := build(t, def)
			assert.False(t, plain.Branch.Replaced)
			assert.Equal(t, "default", plain.Branch.String())
			assert.Equal(t, 1, count(plain))
			selector := object(t, plain, def.SelectorLabel())
			label, err := selector.GetString("GBRForestLabel")
			if err == nil {
				assert.NotEqual(t, def.Era.Label, label)
			}

			replaced := build(t, def, def.Era.Modifier)
			assert.True(t, replaced.Branch.Replaced)
			assert.Equal(t, def.Era.Modifier.Name(), replaced.Branch.String())
			assert.Equal(t, 1, count(replaced))
			label, err = object(t, replaced, def.SelectorLabel()).GetString("GBRForestLabel")
			require.NoError(t, err)
			assert.Equal(t, def.Era.Label, label)

			// an unrelated era keeps the default
			other := build(t, def, era.TrackingPhase2PU140)
			assert.False(t, other.Branch.Replaced)
			assert.True(t, object(t, other, def.SelectorLabel()).Equal(selector))
		})
	}
}

func TestQualityCuts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		step string
		want []float64
	}{
		{step: tracking.InitialStepName, want: []float64{-0.95, -0.85, -0.75}},
		{step: tracking.HighPtTripletStepName, want: []float64{0.2, 0.3, 0.4}},
		{step: tracking.LowPtQuadStepName, want: []float64{-0.7, -0.35, -0.15}},
		{step: tracking.DetachedQuadStepName, want: []float64{-0.5, 0.0, 0.5}},
		{step: tracking.DetachedTripletStepName, want: []float64{-0.2, 0.3, 0.8}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.step, func(t *testing.T) {
			t.Parallel()

			def := lookup(t, tt.step, tracking.Phase1)
			res := build(t, def, era.TrackingPhase1)
			cuts, err := object(t, res, def.SelectorLabel()).GetDoubles("qualityCuts")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cuts)
		})
	}
}

func TestEraReplacementFromClassifier(t *testing.T) {
	t.Parallel()

	def := lookup(t, tracking.DetachedTripletStepName, tracking.Phase1)
	res := build(t, def, era.TrackingPhase1)

	selector := object(t, res, def.SelectorLabel())
	classifier := object(t, res, def.ClassifierLabel(1))
	assert.Equal(t, classifier.Type(), selector.Type())
	assert.ElementsMatch(t, []string{"GBRForestLabel", "qualityCuts"}, pset.Diff(classifier, selector))

	stage, ok := res.Sequence.Stage(def.SelectorLabel())
	require.True(t, ok)
	assert.Equal(t, model.MergerStageType, stage.Details.Type)
	// the classifier template plus vertices, label and cuts
	assert.Equal(t, 3, stage.Details.Overrides)
}

func TestVertexSourceIsUniform(t *testing.T) {
	t.Parallel()

	for _, def := range tracking.Definitions() {
		res := build(t, def, era.TrackingPhase1)
		for i := 1; i <= def.Classifiers; i++ {
			vertices, err := object(t, res, def.ClassifierLabel(i)).GetTag("vertices")
			require.NoError(t, err)
			assert.Equal(t, tracking.FirstStepVertices, vertices.Label, def.ClassifierLabel(i))
		}
		if def.SelectorVertices {
			vertices, err := object(t, res, def.SelectorLabel()).GetTag("vertices")
			require.NoError(t, err)
			assert.Equal(t, tracking.FirstStepVertices, vertices.Label, def.SelectorLabel())
		}
	}

	// the legacy detached quadruplet selector is the standard one
	def := lookup(t, tracking.DetachedQuadStepName, tracking.Legacy)
	vertices, err := object(t, build(t, def), def.SelectorLabel()).GetTag("vertices")
	require.NoError(t, err)
	assert.Equal(t, "firstStepPrimaryVertices", vertices.Label)
}

func TestSeeds(t *testing.T) {
	t.Parallel()

	t.Run("disabled comparator", func(t *testing.T) {
		t.Parallel()

		def := lookup(t, tracking.InitialStepName, tracking.Legacy)
		seeds := object(t, build(t, def), def.SeedsLabel())

		name, err := seeds.GetString("seedFinderSelector.pixelTripletGeneratorFactory.ComponentName")
		require.NoError(t, err)
		assert.Equal(t, "PixelTripletHLTGenerator", name)
		comparator, err := seeds.GetPSet("seedFinderSelector.pixelTripletGeneratorFactory.SeedComparitorPSet")
		require.NoError(t, err)
		assert.Equal(t, []string{"ComponentName", "clusterShapeCacheSrc", "clusterShapeHitFilter"}, comparator.Keys())
		name, err = comparator.GetString("ComponentName")
		require.NoError(t, err)
		assert.Equal(t, "none", name)

		regions, err := seeds.GetTag("trackingRegions")
		require.NoError(t, err)
		assert.Equal(t, def.RegionsLabel(), regions.Label)
		masks, err := seeds.GetTag("hitMasks")
		require.NoError(t, err)
		assert.True(t, masks.IsEmpty())
	})

	t.Run("reset comparator", func(t *testing.T) {
		t.Parallel()

		def := lookup(t, tracking.HighPtTripletStepName, tracking.Legacy)
		seeds := object(t, build(t, def), def.SeedsLabel())

		comparator, err := seeds.GetPSet("seedFinderSelector.CAHitTripletGeneratorFactory.SeedComparitorPSet")
		require.NoError(t, err)
		assert.Equal(t, []string{"ComponentName"}, comparator.Keys())
		masks, err := seeds.GetTag("hitMasks")
		require.NoError(t, err)
		assert.Equal(t, def.MasksLabel(), masks.Label)
	})

	t.Run("seeding layers", func(t *testing.T) {
		t.Parallel()

		def := lookup(t, tracking.LowPtQuadStepName, tracking.Phase1)
		seeds := object(t, build(t, def), def.SeedsLabel())

		layers, err := seeds.GetTag("seedFinderSelector.CAHitQuadrupletGeneratorFactory.SeedingLayers")
		require.NoError(t, err)
		assert.Equal(t, tracking.SeedingLayersProducer, layers.Label)

		selector, err := seeds.GetPSet(fastsim.SeedFinderSelectorKey)
		require.NoError(t, err)
		sf, err := fastsim.SelectedSeedFinder(selector)
		require.NoError(t, err)
		assert.Equal(t, fastsim.CAQuadruplet, sf)

		layerList, err := seeds.GetStrings("layerList")
		require.NoError(t, err)
		assert.Contains(t, layerList, "BPix1+BPix2+BPix3+BPix4")
	})
}

func TestTracksAndMasks(t *testing.T) {
	t.Parallel()

	for _, def := range tracking.Definitions() {
		res := build(t, def)

		builder, err := object(t, res, def.TracksLabel()).GetString("TTRHBuilder")
		require.NoError(t, err)
		assert.Equal(t, tracking.WithoutRefit, builder)

		stage, ok := res.Sequence.Stage(def.TracksLabel())
		require.True(t, ok)
		assert.Equal(t, 1, stage.Details.Overrides, def.TracksLabel())

		stage, ok = res.Sequence.Stage(def.RegionsLabel())
		require.True(t, ok)
		assert.Equal(t, 0, stage.Details.Overrides, def.RegionsLabel())
	}

	def := lookup(t, tracking.LowPtQuadStepName, tracking.Legacy)
	masks := object(t, build(t, def), def.MasksLabel())
	old, err := masks.GetTag("oldHitRemovalInfo")
	require.NoError(t, err)
	assert.Equal(t, "highPtTripletStepMasks", old.Label)
	trajectories, err := masks.GetTag("trajectories")
	require.NoError(t, err)
	assert.Equal(t, "highPtTripletStepTracks", trajectories.Label)
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	_, err := tracking.Build(tracking.Context{}, lookup(t, tracking.InitialStepName, tracking.Legacy))
	require.ErrorIs(t, err, tracking.ErrCatalogMustBeSet)

	def := lookup(t, tracking.InitialStepName, tracking.Legacy)
	def.Seeding.Source = "initialStepHitDoublets"
	_, err = tracking.Build(newContext(t), def)
	require.ErrorIs(t, err, fastsim.ErrUnsupportedProducer)

	def = lookup(t, tracking.InitialStepName, tracking.Legacy)
	def.Step = tracking.DetachedQuadStepName
	_, err = tracking.Build(newContext(t), def)
	require.ErrorIs(t, err, standard.ErrObjectNotFound)

	// a quadruplet factory fed by a triplet producer
	def = lookup(t, tracking.HighPtTripletStepName, tracking.Legacy)
	def.Seeding = tracking.Seeding{Finder: fastsim.CAQuadruplet, Source: "highPtTripletStepHitTriplets"}
	_, err = tracking.Build(newContext(t), def)
	require.ErrorIs(t, err, fastsim.ErrFactoryMismatch)
}
