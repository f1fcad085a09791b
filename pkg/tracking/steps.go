package tracking

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/era"
	"github.com/askiada/go-fasttrack/pkg/fastsim"
)

const (
	InitialStepName         = "InitialStep"
	HighPtTripletStepName   = "HighPtTripletStep"
	LowPtQuadStepName       = "LowPtQuadStep"
	DetachedQuadStepName    = "DetachedQuadStep"
	DetachedTripletStepName = "DetachedTripletStep"

	// SeedingLayersProducer is the seeding layer source of the CA factories.
	SeedingLayersProducer = "seedingLayersEDProducer"
	firstStepVertices     = "firstStepPrimaryVertices"
)

// FirstStepVertices is the vertex collection classifiers read, cloned by the
// initial step before pile-up mixing.
const FirstStepVertices = firstStepVertices + beforeMixing

// InitialStep has no mask: it runs on all hits. It clones the first step
// vertices that every later classifier reads.
func InitialStep(variant Variant) (Definition, error) {
	def := Definition{
		Step:             InitialStepName,
		Prefix:           "initialStep",
		Variant:          variant,
		MinCrossedLayers: 3,
		RefitBuilder:     WithoutRefit,
		PrimaryVertices:  firstStepVertices,
		Classifiers:      3,
		VertexSource:     FirstStepVertices,
	}

	switch variant {
	case Legacy:
		def.Seeding = Seeding{Finder: fastsim.PixelTriplet, Source: "initialStepHitTriplets"}
	case Phase1:
		def.Seeding = Seeding{
			Finder:        fastsim.CAQuadruplet,
			Source:        "initialStepHitQuadruplets",
			SeedingLayers: SeedingLayersProducer,
		}
		def.Era = &EraSelector{
			Modifier:       era.TrackingPhase1,
			Label:          "MVASelectorInitialStep_Phase1",
			QualityCuts:    [3]float64{-0.95, -0.85, -0.75},
			FromClassifier: true,
		}
	default:
		return Definition{}, errors.Wrapf(ErrUnknownVariant, "%s %s", InitialStepName, variant)
	}

	return def, nil
}

func HighPtTripletStep(variant Variant) (Definition, error) {
	def := Definition{
		Step:             HighPtTripletStepName,
		Prefix:           "highPtTripletStep",
		Variant:          variant,
		Masked:           true,
		Seeding:          Seeding{Finder: fastsim.CATriplet, Source: "highPtTripletStepHitTriplets", Comparator: ResetComparator},
		MinCrossedLayers: 3,
		RefitBuilder:     WithoutRefit,
		VertexSource:     FirstStepVertices,
		SelectorVertices: true,
	}

	switch variant {
	case Legacy:
	case Phase1:
		def.Era = &EraSelector{
			Modifier:    era.TrackingPhase1,
			Label:       "MVASelectorHighPtTripletStep_Phase1",
			QualityCuts: [3]float64{0.2, 0.3, 0.4},
		}
	default:
		return Definition{}, errors.Wrapf(ErrUnknownVariant, "%s %s", HighPtTripletStepName, variant)
	}

	return def, nil
}

func LowPtQuadStep(variant Variant) (Definition, error) {
	def := Definition{
		Step:    LowPtQuadStepName,
		Prefix:  "lowPtQuadStep",
		Variant: variant,
		Masked:  true,
		Seeding: Seeding{
			Finder:        fastsim.CAQuadruplet,
			Source:        "lowPtQuadStepHitQuadruplets",
			SeedingLayers: SeedingLayersProducer,
		},
		RefitBuilder:     WithoutRefit,
		VertexSource:     FirstStepVertices,
		SelectorVertices: true,
	}

	switch variant {
	case Legacy:
		def.MinCrossedLayers = 3
	case Phase1:
		def.MinCrossedLayers = 4
		def.Era = &EraSelector{
			Modifier:    era.TrackingPhase1,
			Label:       "MVASelectorLowPtQuadStep_Phase1",
			QualityCuts: [3]float64{-0.7, -0.35, -0.15},
		}
	default:
		return Definition{}, errors.Wrapf(ErrUnknownVariant, "%s %s", LowPtQuadStepName, variant)
	}

	return def, nil
}

// DetachedQuadStep keeps the standard selector untouched in its legacy
// variant.
func DetachedQuadStep(variant Variant) (Definition, error) {
	def := Definition{
		Step:         DetachedQuadStepName,
		Prefix:       "detachedQuadStep",
		Variant:      variant,
		Masked:       true,
		RefitBuilder: WithoutRefit,
	}

	switch variant {
	case Legacy:
		def.Seeding = Seeding{Finder: fastsim.PixelTriplet, Source: "detachedQuadStepHitTriplets"}
		def.MinCrossedLayers = 3
	case Phase1:
		def.Seeding = Seeding{
			Finder:        fastsim.CAQuadruplet,
			Source:        "detachedQuadStepHitQuadruplets",
			SeedingLayers: SeedingLayersProducer,
		}
		def.MinCrossedLayers = 4
		def.VertexSource = FirstStepVertices
		def.SelectorVertices = true
		def.Era = &EraSelector{
			Modifier:    era.TrackingPhase1,
			Label:       "MVASelectorDetachedQuadStep_Phase1",
			QualityCuts: [3]float64{-0.5, 0.0, 0.5},
		}
	default:
		return Definition{}, errors.Wrapf(ErrUnknownVariant, "%s %s", DetachedQuadStepName, variant)
	}

	return def, nil
}

// DetachedTripletStep exists in the phase1 variant only.
func DetachedTripletStep(variant Variant) (Definition, error) {
	if variant != Phase1 {
		return Definition{}, errors.Wrapf(ErrUnknownVariant, "%s %s", DetachedTripletStepName, variant)
	}

	return Definition{
		Step:    DetachedTripletStepName,
		Prefix:  "detachedTripletStep",
		Variant: Phase1,
		Masked:  true,
		Seeding: Seeding{
			Finder:        fastsim.CATriplet,
			Source:        "detachedTripletStepHitTriplets",
			SeedingLayers: SeedingLayersProducer,
		},
		MinCrossedLayers: 3,
		RefitBuilder:     WithoutRefit,
		Classifiers:      2,
		VertexSource:     FirstStepVertices,
		Era: &EraSelector{
			Modifier:       era.TrackingPhase1,
			Label:          "MVASelectorDetachedTripletStep_Phase1",
			QualityCuts:    [3]float64{-0.2, 0.3, 0.8},
			FromClassifier: true,
		},
	}, nil
}

type stepDeclaration struct {
	name     string
	build    func(Variant) (Definition, error)
	variants []Variant
}

// declarations are listed in process order: every step only reads the
// tracks and masks of the steps above it.
var declarations = []stepDeclaration{
	{name: InitialStepName, build: InitialStep, variants: []Variant{Legacy, Phase1}},
	{name: HighPtTripletStepName, build: HighPtTripletStep, variants: []Variant{Legacy, Phase1}},
	{name: LowPtQuadStepName, build: LowPtQuadStep, variants: []Variant{Legacy, Phase1}},
	{name: DetachedQuadStepName, build: DetachedQuadStep, variants: []Variant{Legacy, Phase1}},
	{name: DetachedTripletStepName, build: DetachedTripletStep, variants: []Variant{Phase1}},
}

// Steps returns the step names in process order.
func Steps() []string {
	names := make([]string, len(declarations))
	for i, d := range declarations {
		names[i] = d.name
	}

	return names
}

// Variants returns the variants a step is declared with.
func Variants(step string) ([]Variant, error) {
	decl, err := declaration(step)
	if err != nil {
		return nil, err
	}

	return append([]Variant{}, decl.variants...), nil
}

// Definitions returns every declared step and variant, in process order.
func Definitions() []Definition {
	var defs []Definition
	for _, decl := range declarations {
		for _, v := range decl.variants {
			def, err := decl.build(v)
			if err != nil {
				panic(err)
			}
			defs = append(defs, def)
		}
	}

	return defs
}

// Lookup returns the definition of step in variant.
func Lookup(step string, variant Variant) (Definition, error) {
	decl, err := declaration(step)
	if err != nil {
		return Definition{}, err
	}

	return decl.build(variant)
}

// Select returns the definitions of steps, in the given order, in variant.
// Steps declared with a single variant use it whatever variant is asked.
// No step selects every declared step in process order. A step may be
// selected once.
func Select(variant Variant, steps ...string) ([]Definition, error) {
	if len(steps) == 0 {
		steps = Steps()
	}

	defs := make([]Definition, 0, len(steps))
	seen := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		if _, ok := seen[step]; ok {
			return nil, errors.Wrap(ErrDuplicateStep, step)
		}
		seen[step] = struct{}{}

		decl, err := declaration(step)
		if err != nil {
			return nil, err
		}
		v := variant
		if len(decl.variants) == 1 {
			v = decl.variants[0]
		}
		def, err := decl.build(v)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	return defs, nil
}

func declaration(step string) (stepDeclaration, error) {
	for _, decl := range declarations {
		if decl.name == step {
			return decl, nil
		}
	}

	return stepDeclaration{}, errors.Wrap(ErrUnknownStep, step)
}
