package tracking

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/era"
	"github.com/askiada/go-fasttrack/pkg/fastsim"
	"github.com/askiada/go-fasttrack/pkg/pipeline"
	"github.com/askiada/go-fasttrack/pkg/pset"
)

// StepResult is a built step.
type StepResult struct {
	Definition Definition
	// Objects are the step objects in sequence order.
	Objects  []pset.Named
	Sequence *pipeline.Sequence
	// Branch tells whether the selector was replaced by an era modifier.
	Branch era.Branch
	// Context is the build context extended with Objects.
	Context Context
}

// Object returns the step object labelled name.
func (r *StepResult) Object(name string) (*pset.PSet, bool) {
	for _, obj := range r.Objects {
		if obj.Label == name {
			return obj.Config, true
		}
	}

	return nil, false
}

func (r *StepResult) mustObject(name string) (*pset.PSet, error) {
	obj, ok := r.Object(name)
	if !ok {
		return nil, errors.Wrapf(ErrObjectMissing, "%s: %s", r.Definition.Step, name)
	}

	return obj, nil
}

// Validate checks the built objects against the definition: candidate
// crossed layers, a single vertex collection across classifiers, a single
// selector carrying the definition of the resolved era branch, and the
// seed finder configuration.
func (r *StepResult) Validate() error {
	for _, check := range []func() error{
		r.validateCandidates,
		r.validateVertices,
		r.validateSelector,
		r.validateSeeds,
	} {
		err := check()
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *StepResult) validateCandidates() error {
	def := r.Definition
	candidates, err := r.mustObject(def.CandidatesLabel())
	if err != nil {
		return err
	}
	got, err := candidates.GetInt("MinNumberOfCrossedLayers")
	if err != nil {
		return errors.Wrap(err, def.CandidatesLabel())
	}
	if got != int64(def.MinCrossedLayers) {
		return errors.Wrapf(ErrMinCrossedLayers, "%s: %d, want %d", def.CandidatesLabel(), got, def.MinCrossedLayers)
	}

	return nil
}

func (r *StepResult) validateVertices() error {
	def := r.Definition
	if def.VertexSource == "" {
		return nil
	}

	labels := make([]string, 0, def.Classifiers+1)
	for i := 1; i <= def.Classifiers; i++ {
		labels = append(labels, def.ClassifierLabel(i))
	}
	labels = append(labels, def.SelectorLabel())

	for _, label := range labels {
		obj, err := r.mustObject(label)
		if err != nil {
			return err
		}
		if !obj.Has("vertices") {
			continue
		}
		vertices, err := obj.GetTag("vertices")
		if err != nil {
			return errors.Wrap(err, label)
		}
		if vertices.Label != def.VertexSource {
			return errors.Wrapf(ErrMixedVertexSources, "%s reads %s, want %s", label, vertices, def.VertexSource)
		}
	}

	return nil
}

func (r *StepResult) validateSelector() error {
	def := r.Definition
	label := def.SelectorLabel()

	count := 0
	for _, obj := range r.Objects {
		if obj.Label == label {
			count++
		}
	}
	if count != 1 {
		return errors.Wrapf(ErrEraNotExclusive, "%d definitions of %s", count, label)
	}

	selector, _ := r.Object(label)
	if def.Era == nil {
		if r.Branch.Replaced {
			return errors.Wrapf(ErrEraNotExclusive, "%s replaced without an era selector", label)
		}

		return nil
	}

	if !r.Branch.Replaced {
		if got, err := selector.GetString("GBRForestLabel"); err == nil && got == def.Era.Label {
			return errors.Wrapf(ErrEraNotExclusive, "default %s carries the %s label", label, def.Era.Modifier)
		}

		return nil
	}

	if r.Branch.Modifier != def.Era.Modifier {
		return errors.Wrapf(ErrEraNotExclusive, "%s replaced under %s, want %s", label, r.Branch.Modifier, def.Era.Modifier)
	}
	got, err := selector.GetString("GBRForestLabel")
	if err != nil {
		return errors.Wrap(err, label)
	}
	cuts, err := selector.GetDoubles("qualityCuts")
	if err != nil {
		return errors.Wrap(err, label)
	}
	if got != def.Era.Label || len(cuts) != len(def.Era.QualityCuts) {
		return errors.Wrapf(ErrEraNotExclusive, "%s is not the %s replacement", label, def.Era.Modifier)
	}
	for i, cut := range cuts {
		if cut != def.Era.QualityCuts[i] {
			return errors.Wrapf(ErrEraNotExclusive, "%s quality cuts %v, want %v", label, cuts, def.Era.QualityCuts)
		}
	}

	return nil
}

func (r *StepResult) validateSeeds() error {
	seeds, err := r.mustObject(r.Definition.SeedsLabel())
	if err != nil {
		return err
	}
	err = fastsim.ValidateSeeds(seeds)
	if err != nil {
		return errors.Wrap(err, r.Definition.SeedsLabel())
	}

	return nil
}
