package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-fasttrack/pkg/pipeline"
	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
	"github.com/askiada/go-fasttrack/pkg/pset"
)

func buildClassifierSequence(t *testing.T, opts ...model.SequenceOption) *pipeline.Sequence {
	t.Helper()

	pipe, err := pipeline.New("Step", opts...)
	require.NoError(t, err)

	regions, err := pipeline.AddRootStage(pipe, "regions", producer("Regions"))
	require.NoError(t, err)
	seeds, err := pipeline.AddStage(pipe, "seeds", regions, producer("Seeds", "regions"), pipeline.StageRole("seeds"))
	require.NoError(t, err)
	tracks, err := pipeline.AddStage(pipe, "tracks", seeds, producer("Tracks", "seeds"), pipeline.StageOverrides(1))
	require.NoError(t, err)
	classifiers, err := pipeline.AddParallel(pipe, tracks,
		pipeline.Branch{Name: "classifier1", Build: producer("Classifier", "tracks")},
		pipeline.Branch{Name: "classifier2", Build: producer("Classifier", "tracks")},
	)
	require.NoError(t, err)
	_, err = pipeline.AddMerger(pipe, "selector", classifiers, producer("Merger", "classifier1", "classifier2"))
	require.NoError(t, err)

	seq, err := pipe.Assemble()
	require.NoError(t, err)

	return seq
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	seq := buildClassifierSequence(t)

	assert.Equal(t, "Step", seq.Name)
	assert.Equal(t, []string{"regions", "seeds", "tracks", "classifier1", "classifier2", "selector"}, seq.Names())
	assert.Equal(t, "regions + seeds + tracks + (classifier1 | classifier2) + selector", seq.Expression())
	require.Len(t, seq.Entries, 5)
	assert.True(t, seq.Entries[3].Parallel)

	stage, ok := seq.Stage("seeds")
	require.True(t, ok)
	assert.Equal(t, "seeds", stage.Details.Role)
	assert.Equal(t, model.NormalStageType, stage.Details.Type)
	assert.Equal(t, 1, stage.Details.Parameters)

	stage, ok = seq.Stage("classifier2")
	require.True(t, ok)
	assert.Equal(t, model.ParallelStageType, stage.Details.Type)
	pos, ok := seq.Position("classifier2")
	require.True(t, ok)
	assert.Equal(t, 3, pos)

	_, ok = seq.Stage("missing")
	assert.False(t, ok)
	assert.Len(t, seq.Stages(), 6)

	order, err := seq.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, seq.Names(), order)

	size, err := seq.Graph().Size()
	require.NoError(t, err)
	assert.Equal(t, 6, size)
}

func TestAssembleAddsDataLinks(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New("Step")
	require.NoError(t, err)
	regions, err := pipeline.AddRootStage(pipe, "regions", producer("Regions"))
	require.NoError(t, err)
	seeds, err := pipeline.AddStage(pipe, "seeds", regions, producer("Seeds", "regions"))
	require.NoError(t, err)
	_, err = pipeline.AddSink(pipe, "candidates", seeds, producer("Candidates", "seeds", "regions", "otherStepTracks"))
	require.NoError(t, err)

	seq, err := pipe.Assemble()
	require.NoError(t, err)

	edge, err := seq.Graph().Edge("regions", "candidates")
	require.NoError(t, err)
	assert.Equal(t, "dashed", edge.Properties.Attributes["style"])
	assert.Equal(t, "src1", edge.Properties.Attributes["label"])

	_, err = seq.Graph().Edge("otherStepTracks", "candidates")
	require.Error(t, err)
}

func TestAssembleForwardReference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(p *pipeline.Pipeline) error
	}{
		{
			name: "later stage",
			build: func(p *pipeline.Pipeline) error {
				regions, err := pipeline.AddRootStage(p, "regions", producer("Regions", "seeds"))
				if err != nil {
					return err
				}
				_, err = pipeline.AddStage(p, "seeds", regions, producer("Seeds"))

				return err
			},
		},
		{
			name: "itself",
			build: func(p *pipeline.Pipeline) error {
				_, err := pipeline.AddRootStage(p, "regions", producer("Regions", "regions"))

				return err
			},
		},
		{
			name: "sibling branch",
			build: func(p *pipeline.Pipeline) error {
				tracks, err := pipeline.AddRootStage(p, "tracks", producer("Tracks"))
				if err != nil {
					return err
				}
				_, err = pipeline.AddParallel(p, tracks,
					pipeline.Branch{Name: "a", Build: producer("Classifier", "tracks")},
					pipeline.Branch{Name: "b", Build: producer("Classifier", "a")},
				)

				return err
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pipe, err := pipeline.New("Step")
			require.NoError(t, err)
			require.NoError(t, tt.build(pipe))

			_, err = pipe.Assemble()
			require.ErrorIs(t, err, pipeline.ErrForwardReference)
		})
	}
}

func TestSequenceOptionHooks(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	buildClassifierSequence(t, rec)

	assert.Equal(t, []string{
		"new",
		"stage start>regions",
		"built regions",
		"stage regions>seeds",
		"built seeds",
		"stage seeds>tracks",
		"built tracks",
		"parallel tracks>classifier1,classifier2,",
		"built classifier1",
		"built classifier2",
		"merger 2>selector",
		"built selector",
		"finish",
	}, rec.calls)
}

func TestSequenceOptionErrors(t *testing.T) {
	t.Parallel()

	_, err := pipeline.New("Step", &recorder{failOn: "new"})
	require.Error(t, err)

	for _, failOn := range []string{"stage start>regions", "built regions"} {
		failOn := failOn
		t.Run(failOn, func(t *testing.T) {
			t.Parallel()

			pipe, err := pipeline.New("Step", &recorder{failOn: failOn})
			require.NoError(t, err)
			_, err = pipeline.AddRootStage(pipe, "regions", producer("Regions"))
			require.Error(t, err)
		})
	}

	pipe, err := pipeline.New("Step", &recorder{failOn: "finish"})
	require.NoError(t, err)
	_, err = pipeline.AddRootStage(pipe, "regions", producer("Regions"))
	require.NoError(t, err)
	_, err = pipe.Assemble()
	require.Error(t, err)
}

func TestSingleBranchParallel(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New("Step")
	require.NoError(t, err)
	tracks, err := pipeline.AddRootStage(pipe, "tracks", producer("Tracks"))
	require.NoError(t, err)
	stages, err := pipeline.AddParallel(pipe, tracks, pipeline.Branch{Name: "classifier", Build: producer("Classifier", "tracks")})
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Equal(t, model.NormalStageType, stages[0].Details.Type)

	seq, err := pipe.Assemble()
	require.NoError(t, err)
	assert.Equal(t, "tracks + classifier", seq.Expression())
}

func TestStageTemplateCountsOverrides(t *testing.T) {
	t.Parallel()

	tmpl := pset.New("TrackProducer",
		pset.F("src", pset.Tag("tracksCandidates")),
		pset.F("TTRHBuilder", pset.String("WithAngleAndTemplate")),
		pset.F("Fitter", pset.String("FlexibleKFFittingSmoother")),
	)

	pipe, err := pipeline.New("Step")
	require.NoError(t, err)
	tracks, err := pipeline.AddRootStage(pipe, "tracks", func() (*pset.PSet, error) {
		return tmpl.Clone(pset.Set("TTRHBuilder", pset.String("WithoutRefit")))
	}, pipeline.StageTemplate(tmpl), pipeline.StageOverrides(7))
	require.NoError(t, err)

	assert.Equal(t, 1, tracks.Details.Overrides)
	assert.Equal(t, 3, tracks.Details.Parameters)
	assert.Same(t, tmpl, tracks.Template)
}
