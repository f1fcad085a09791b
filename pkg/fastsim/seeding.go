package fastsim

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/pset"
)

var (
	ErrUnsupportedProducer    = errors.New("hit set producer has no generator factory")
	ErrUnknownSeedFinder      = errors.New("unknown seed finder")
	ErrConflictingSeedFinders = errors.New("conflicting seed finder factories")
	ErrNoSeedFinder           = errors.New("no seed finder factory configured")
	ErrFactoryMismatch        = errors.New("generator does not fit the factory field")
	ErrLayerSetTooShort       = errors.New("seeding layer set has fewer layers than the seed finder needs")
)

// SeedFinder selects the hit-pattern algorithm used to accept seeds.
type SeedFinder int

const (
	PixelTriplet SeedFinder = iota + 1
	MultiHit
	CATriplet
	CAQuadruplet
)

var seedFinders = []SeedFinder{PixelTriplet, MultiHit, CATriplet, CAQuadruplet}

var seedFinderFields = map[SeedFinder]string{
	PixelTriplet: "pixelTripletGeneratorFactory",
	MultiHit:     "MultiHitGeneratorFactory",
	CATriplet:    "CAHitTripletGeneratorFactory",
	CAQuadruplet: "CAHitQuadrupletGeneratorFactory",
}

var seedFinderNames = map[SeedFinder]string{
	PixelTriplet: "pixel-triplet",
	MultiHit:     "multi-hit",
	CATriplet:    "ca-triplet",
	CAQuadruplet: "ca-quadruplet",
}

// generators accepted by each factory field.
var seedFinderGenerators = map[SeedFinder][]string{
	PixelTriplet: {"PixelTripletHLTGenerator", "PixelTripletLargeTipGenerator"},
	MultiHit:     {"MultiHitGeneratorFromChi2"},
	CATriplet:    {"CAHitTripletGenerator"},
	CAQuadruplet: {"CAHitQuadrupletGenerator"},
}

// producerGenerators maps standard hit-set producers to generator names.
var producerGenerators = map[string]string{
	"PixelTripletHLTEDProducer":      "PixelTripletHLTGenerator",
	"PixelTripletLargeTipEDProducer": "PixelTripletLargeTipGenerator",
	"MultiHitFromChi2EDProducer":     "MultiHitGeneratorFromChi2",
	"CAHitTripletEDProducer":         "CAHitTripletGenerator",
	"CAHitQuadrupletEDProducer":      "CAHitQuadrupletGenerator",
}

// producer plumbing that has no meaning inside a generator factory.
var producerOnlyParameters = map[string]struct{}{
	"doublets":                       {},
	"produceSeedingHitSets":          {},
	"produceIntermediateHitTriplets": {},
}

// ParseSeedFinder accepts the names printed by SeedFinder.String.
func ParseSeedFinder(name string) (SeedFinder, error) {
	for _, sf := range seedFinders {
		if seedFinderNames[sf] == name {
			return sf, nil
		}
	}

	return 0, errors.Wrap(ErrUnknownSeedFinder, name)
}

func (sf SeedFinder) String() string {
	if name, ok := seedFinderNames[sf]; ok {
		return name
	}

	return "unknown"
}

// Field is the seed finder selector parameter holding the factory.
func (sf SeedFinder) Field() string {
	return seedFinderFields[sf]
}

// MinHits is the number of hits the seed finder looks at.
func (sf SeedFinder) MinHits() int {
	if sf == CAQuadruplet {
		return 4
	}

	return 3
}

// HitSetProducerToFactory turns a standard hit triplet or quadruplet
// producer into a generator factory bundle for the seed finder selector.
func HitSetProducerToFactory(producer *pset.PSet) (*pset.PSet, error) {
	generator, ok := producerGenerators[producer.Type()]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedProducer, "%q", producer.Type())
	}

	fields := []pset.Field{pset.F("ComponentName", pset.String(generator))}
	for _, name := range producer.Keys() {
		if _, skip := producerOnlyParameters[name]; skip || name == "ComponentName" {
			continue
		}
		v, _ := producer.Get(name)
		fields = append(fields, pset.F(name, v))
	}

	return pset.New("", fields...), nil
}

// ValidateSeeds checks a trajectory seed producer: exactly one factory in
// its seed finder selector, a generator that fits the factory field and
// seeding layer sets long enough for the chosen algorithm.
func ValidateSeeds(seeds *pset.PSet) error {
	selector, err := seeds.GetPSet(SeedFinderSelectorKey)
	if err != nil {
		return errors.Wrap(err, "seeds")
	}

	sf, err := SelectedSeedFinder(selector)
	if err != nil {
		return err
	}

	generator, err := selector.GetString(sf.Field() + ".ComponentName")
	if err != nil {
		return errors.Wrap(err, sf.Field())
	}
	if !contains(seedFinderGenerators[sf], generator) {
		return errors.Wrapf(ErrFactoryMismatch, "%s cannot run %s", sf.Field(), generator)
	}

	layers, err := seeds.GetStrings("layerList")
	if err != nil {
		return errors.Wrap(err, "seeds")
	}
	for _, set := range layers {
		if n := len(strings.Split(set, "+")); n < sf.MinHits() {
			return errors.Wrapf(ErrLayerSetTooShort, "%s has %d layers, %s needs %d", set, n, sf, sf.MinHits())
		}
	}

	return nil
}

// SelectedSeedFinder returns the only factory configured in a seed finder
// selector. Triplet-style factories exclude each other and a quadruplet
// factory excludes everything else.
func SelectedSeedFinder(selector *pset.PSet) (SeedFinder, error) {
	var found []SeedFinder
	for _, sf := range seedFinders {
		if selector.Has(sf.Field()) {
			found = append(found, sf)
		}
	}

	switch len(found) {
	case 0:
		return 0, ErrNoSeedFinder
	case 1:
		return found[0], nil
	default:
		names := make([]string, 0, len(found))
		for _, sf := range found {
			names = append(names, sf.Field())
		}

		return 0, errors.Wrap(ErrConflictingSeedFinders, strings.Join(names, ", "))
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}

	return false
}
