package tracking

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/era"
	"github.com/askiada/go-fasttrack/pkg/fastsim"
)

// Variant names one build profile of a step.
type Variant string

const (
	Legacy Variant = "legacy"
	Phase1 Variant = "phase1"
)

// Stage roles, also used as pipeline stage roles.
const (
	RoleMasks      = "masks"
	RoleRegions    = "regions"
	RoleSeeds      = "seeds"
	RoleCandidates = "candidates"
	RoleTracks     = "tracks"
	RoleVertices   = "vertices"
	RoleClassifier = "classifier"
	RoleSelector   = "selector"
)

const (
	// WithoutRefit is the builder fast simulation tracks are fitted with.
	WithoutRefit = "WithoutRefit"

	beforeMixing   = "BeforeMixing"
	maxClassifiers = 3
)

// Comparator tells how the seed-shape comparator of the seed finder factory
// is disabled.
type Comparator int

const (
	// DisableComparator renames the comparator to "none" and keeps its other
	// parameters.
	DisableComparator Comparator = iota
	// ResetComparator replaces the comparator with a bundle holding only
	// ComponentName "none".
	ResetComparator
)

// Seeding declares the seed finder of a step.
type Seeding struct {
	Finder fastsim.SeedFinder
	// Source is the standard hit set producer the factory is derived from.
	Source string
	// SeedingLayers is inserted into the factory when set.
	SeedingLayers string
	Comparator    Comparator
}

// EraSelector replaces the selector of a step under an era modifier.
type EraSelector struct {
	Modifier    era.Modifier
	Label       string
	QualityCuts [3]float64
	// FromClassifier clones the replacement from the first classifier of the
	// step instead of from the selector.
	FromClassifier bool
}

// Definition declares how a step is derived from its standard template.
type Definition struct {
	Step    string
	Prefix  string
	Variant Variant
	// Masked adds a hit mask producer derived from the cluster remover.
	Masked           bool
	Seeding          Seeding
	MinCrossedLayers int
	RefitBuilder     string
	// PrimaryVertices is a standard vertex producer cloned into the step
	// before mixing.
	PrimaryVertices string
	Classifiers     int
	VertexSource    string
	// SelectorVertices points the selector at VertexSource too.
	SelectorVertices bool
	Era              *EraSelector
}

// Validate checks the definition is self consistent.
func (d Definition) Validate() error {
	switch {
	case d.Step == "":
		return errors.Wrap(ErrInvalidDefinition, "step must be set")
	case d.Prefix == "":
		return errors.Wrapf(ErrInvalidDefinition, "%s: prefix must be set", d.Step)
	case d.Seeding.Source == "":
		return errors.Wrapf(ErrInvalidDefinition, "%s: seeding source must be set", d.Step)
	case d.Seeding.Finder.Field() == "":
		return errors.Wrapf(ErrInvalidDefinition, "%s: seed finder must be set", d.Step)
	case d.MinCrossedLayers <= 0:
		return errors.Wrapf(ErrInvalidDefinition, "%s: minimum crossed layers must be positive", d.Step)
	case d.RefitBuilder == "":
		return errors.Wrapf(ErrInvalidDefinition, "%s: refit builder must be set", d.Step)
	case d.Classifiers < 0 || d.Classifiers > maxClassifiers:
		return errors.Wrapf(ErrInvalidDefinition, "%s: %d classifiers", d.Step, d.Classifiers)
	case (d.Classifiers > 0 || d.SelectorVertices) && d.VertexSource == "":
		return errors.Wrapf(ErrInvalidDefinition, "%s: vertex source must be set", d.Step)
	}

	if d.Era != nil {
		if d.Era.Modifier.Name() == "" || d.Era.Label == "" {
			return errors.Wrapf(ErrInvalidDefinition, "%s: era selector needs a modifier and a label", d.Step)
		}
		if d.Era.FromClassifier && d.Classifiers == 0 {
			return errors.Wrapf(ErrInvalidDefinition, "%s: era selector cloned from a missing classifier", d.Step)
		}
	}

	return nil
}

func (d Definition) MasksLabel() string { return d.Prefix + "Masks" }

func (d Definition) RegionsLabel() string { return d.Prefix + "TrackingRegions" }

func (d Definition) SeedsLabel() string { return d.Prefix + "Seeds" }

func (d Definition) CandidatesLabel() string { return d.Prefix + "TrackCandidates" }

func (d Definition) TracksLabel() string { return d.Prefix + "Tracks" }

// VerticesLabel is empty when the step clones no vertex producer.
func (d Definition) VerticesLabel() string {
	if d.PrimaryVertices == "" {
		return ""
	}

	return d.PrimaryVertices + beforeMixing
}

// ClassifierLabel numbers classifiers from 1.
func (d Definition) ClassifierLabel(i int) string { return fmt.Sprintf("%sClassifier%d", d.Prefix, i) }

func (d Definition) SelectorLabel() string { return d.Prefix }

// Labels returns the labels of the step objects in sequence order.
func (d Definition) Labels() []string {
	var labels []string
	if d.Masked {
		labels = append(labels, d.MasksLabel())
	}
	labels = append(labels, d.RegionsLabel(), d.SeedsLabel(), d.CandidatesLabel(), d.TracksLabel())
	if d.PrimaryVertices != "" {
		labels = append(labels, d.VerticesLabel())
	}
	for i := 1; i <= d.Classifiers; i++ {
		labels = append(labels, d.ClassifierLabel(i))
	}

	return append(labels, d.SelectorLabel())
}

func (d Definition) clustersTemplate() string { return d.Prefix + "Clusters" }

func (d Definition) seedLayersTemplate() string { return d.Prefix + "SeedLayers" }
