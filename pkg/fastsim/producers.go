// Package fastsim provides the fast-simulation producer templates that the
// tracking steps clone: the hit mask producer, the trajectory seed producer
// and the track candidate producer, together with the seeding migration
// helpers that turn standard hit-set producers into seed-finder factories.
package fastsim

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/pset"
)

const (
	MaskProducerType           = "FastTrackerRecHitMaskProducer"
	TrajectorySeedProducerType = "TrajectorySeedProducer"
	TrackCandidateProducerType = "TrackCandidateProducer"

	// SeedFinderSelectorKey is the seed producer bundle holding the factory.
	SeedFinderSelectorKey = "seedFinderSelector"
)

// FastTrackerRecHitMaskProducer returns the default hit mask producer.
func FastTrackerRecHitMaskProducer() *pset.PSet {
	return pset.New(MaskProducerType,
		pset.F("recHits", pset.Tag("fastTrackerRecHits")),
		pset.F("oldHitRemovalInfo", pset.Tag("")),
		pset.F("trajectories", pset.Tag("")),
		pset.F("trackClassifier", pset.Tag(":QualityMasks")),
		pset.F("overrideTrkQuals", pset.Tag("")),
		pset.F("TrackQuality", pset.String("highPurity")),
		pset.F("maxChi2", pset.Double(30)),
		pset.F("minNumberOfLayersWithMeasBeforeFiltering_", pset.Int(0)),
	)
}

// MaskProducerFromClusterRemover derives a hit mask producer from a standard
// cluster remover: same trajectories, classifier and quality thresholds, and
// the previous step's mask in place of its cluster removal info.
func MaskProducerFromClusterRemover(clusters *pset.PSet) (*pset.PSet, error) {
	trajectories, err := clusters.GetTag("trajectories")
	if err != nil {
		return nil, errors.Wrap(err, "cluster remover")
	}
	oldInfo, err := clusters.GetTag("oldClusterRemovalInfo")
	if err != nil {
		return nil, errors.Wrap(err, "cluster remover")
	}
	classifier, err := clusters.GetTag("trackClassifier")
	if err != nil {
		return nil, errors.Wrap(err, "cluster remover")
	}

	overrides := []pset.Override{
		pset.Set("trajectories", pset.TagOf(trajectories)),
		pset.Set("oldHitRemovalInfo", pset.TagOf(pset.InputTag{Label: clustersToMasks(oldInfo.Label)})),
		pset.Set("trackClassifier", pset.TagOf(classifier)),
	}

	for _, name := range []string{"TrackQuality", "maxChi2", "minNumberOfLayersWithMeasBeforeFiltering_", "overrideTrkQuals"} {
		v, ok := clusters.Get(name)
		if !ok {
			continue
		}
		overrides = append(overrides, pset.Set(name, v))
	}

	mask, err := FastTrackerRecHitMaskProducer().Clone(overrides...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to derive mask producer")
	}

	return mask, nil
}

func clustersToMasks(label string) string {
	label = strings.ReplaceAll(label, "Clusters", "Masks")

	return strings.ReplaceAll(label, "clusters", "Masks")
}

// TrajectorySeedProducer returns the default seed producer. Its seed finder
// selector carries no factory; steps insert exactly one.
func TrajectorySeedProducer() *pset.PSet {
	return pset.New(TrajectorySeedProducerType,
		pset.F("recHitCombinations", pset.Tag("fastMatchedTrackerRecHitCombinations")),
		pset.F("layerList", pset.Strings()),
		pset.F("trackingRegions", pset.Tag("")),
		pset.F("hitMasks", pset.Tag("")),
		pset.F(SeedFinderSelectorKey, pset.Nested(pset.New("",
			pset.F("measurementTracker", pset.String("")),
		))),
		pset.F("SeedCreatorPSet", pset.Nested(pset.New("",
			pset.F("ComponentName", pset.String("SeedFromConsecutiveHitsCreator")),
			pset.F("propagator", pset.String("PropagatorWithMaterial")),
			pset.F("SeedMomentumForBOFF", pset.Double(5)),
			pset.F("OriginTransverseErrorMultiplier", pset.Double(1)),
			pset.F("MinOneOverPtError", pset.Double(1)),
			pset.F("magneticField", pset.String("")),
			pset.F("TTRHBuilder", pset.String("WithoutRefit")),
			pset.F("forceKinematicWithRegionDirection", pset.Bool(false)),
		))),
	)
}

// TrackCandidateProducer returns the default track candidate producer.
func TrackCandidateProducer() *pset.PSet {
	return pset.New(TrackCandidateProducerType,
		pset.F("src", pset.Tag("")),
		pset.F("recHits", pset.Tag("fastTrackerRecHits")),
		pset.F("simTracks", pset.Tag("fastSimProducer")),
		pset.F("hitMasks", pset.Tag("")),
		pset.F("MinNumberOfCrossedLayers", pset.Int(5)),
		pset.F("MaxNumberOfCrossedLayers", pset.Int(999)),
		pset.F("OverlapCleaning", pset.Bool(false)),
		pset.F("SplitHits", pset.Bool(true)),
		pset.F("propagator", pset.String("PropagatorWithMaterial")),
	)
}
