package pset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-fasttrack/pkg/pset"
)

const classifierDoc = `
type: TrackMVAClassifierPrompt
src: !tag initialStepTracks
vertices: !tag firstStepPrimaryVertices
GBRForestLabel: MVASelectorIter0_13TeV
qualityCuts: [-0.9, -0.8, -0.7]
ignoreVertices: false
mva:
  GBRForestLabel: ""
  minHits: 3
layers: [BPix1+BPix2, BPix1+FPix1_pos]
empty: !vdouble []
`

func TestUnmarshalYAML(t *testing.T) {
	t.Parallel()

	var got pset.PSet
	require.NoError(t, yaml.Unmarshal([]byte(classifierDoc), &got))

	assert.Equal(t, "TrackMVAClassifierPrompt", got.Type())
	assert.Equal(t,
		[]string{"src", "vertices", "GBRForestLabel", "qualityCuts", "ignoreVertices", "mva", "layers", "empty"},
		got.Keys(),
	)

	src, err := got.GetTag("src")
	require.NoError(t, err)
	assert.Equal(t, "initialStepTracks", src.Label)

	cuts, err := got.GetDoubles("qualityCuts")
	require.NoError(t, err)
	assert.Equal(t, []float64{-0.9, -0.8, -0.7}, cuts)

	minHits, err := got.GetInt("mva.minHits")
	require.NoError(t, err)
	assert.Equal(t, int64(3), minHits)

	layers, err := got.GetStrings("layers")
	require.NoError(t, err)
	assert.Len(t, layers, 2)

	empty, err := got.GetDoubles("empty")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMarshalYAMLKeepsKinds(t *testing.T) {
	t.Parallel()

	orig := pset.New("TrackCandidateProducer",
		pset.F("src", pset.Tag("initialStepSeeds")),
		pset.F("MinNumberOfCrossedLayers", pset.Int(3)),
		pset.F("maxChi2", pset.Double(1)),
		pset.F("OverlapCleaning", pset.Bool(true)),
		pset.F("TTRHBuilder", pset.String("123")),
		pset.F("layerList", pset.Strings()),
		pset.F("cuts", pset.Doubles()),
	)

	out, err := yaml.Marshal(orig)
	require.NoError(t, err)

	var back pset.PSet
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.True(t, orig.Equal(&back), string(out))
}

func TestUnmarshalYAMLErrors(t *testing.T) {
	t.Parallel()

	var p pset.PSet
	err := yaml.Unmarshal([]byte("- a\n- b\n"), &p)
	require.ErrorIs(t, err, pset.ErrInvalidDocument)

	err = yaml.Unmarshal([]byte("a: 1\na: 2\n"), &p)
	require.Error(t, err)
}

func TestUnmarshalYAMLEmptyCutsTakeDoubles(t *testing.T) {
	t.Parallel()

	var selector pset.PSet
	require.NoError(t, yaml.Unmarshal([]byte("type: TrackMVAClassifierDetached\nqualityCuts: []\n"), &selector))

	clone, err := selector.Clone(pset.Set("qualityCuts", pset.Doubles(-0.2, 0.3, 0.8)))
	require.NoError(t, err)
	cuts, err := clone.GetDoubles("qualityCuts")
	require.NoError(t, err)
	assert.Equal(t, []float64{-0.2, 0.3, 0.8}, cuts)
}

func TestYAMLNestedTypeParameter(t *testing.T) {
	t.Parallel()

	var got pset.PSet
	require.NoError(t, yaml.Unmarshal([]byte(`
type: SeedingLayersEDProducer
BPix:
  type: pixel
  x: 1
`), &got))
	assert.Equal(t, "SeedingLayersEDProducer", got.Type())

	bpix, err := got.GetPSet("BPix")
	require.NoError(t, err)
	assert.Equal(t, "", bpix.Type())
	assert.Equal(t, []string{"type", "x"}, bpix.Keys())
	typ, err := bpix.GetString("type")
	require.NoError(t, err)
	assert.Equal(t, "pixel", typ)

	orig := pset.New("TrajectorySeedProducer",
		pset.F("seedFinderSelector", pset.Nested(pset.New("SeedFinderSelector",
			pset.F("measurementTracker", pset.String("")),
		))),
		pset.F("BPix", pset.Nested(bpix)),
	)
	out, err := yaml.Marshal(orig)
	require.NoError(t, err)
	assert.Contains(t, string(out), "!plugin")

	var back pset.PSet
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.True(t, orig.Equal(&back), string(out))
}
