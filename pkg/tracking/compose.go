package tracking

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/era"
	"github.com/askiada/go-fasttrack/pkg/fastsim"
	"github.com/askiada/go-fasttrack/pkg/pipeline"
	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
	"github.com/askiada/go-fasttrack/pkg/pset"
	"github.com/askiada/go-fasttrack/pkg/standard"
)

const comparatorKey = "SeedComparitorPSet"

// composer builds the objects of one step.
type composer struct {
	def      Definition
	template *standard.Template
	eras     era.Set

	classifiers []*pset.PSet
	branch      era.Branch
}

// Build composes the step declared by def against ctx. The result carries
// the context extended with the step objects.
func Build(ctx Context, def Definition, opts ...model.SequenceOption) (*StepResult, error) {
	if ctx.catalog == nil {
		return nil, ErrCatalogMustBeSet
	}
	err := def.Validate()
	if err != nil {
		return nil, err
	}

	tmpl, err := ctx.catalog.Template(def.Step)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to build %s", def.Step)
	}

	extra, err := ctx.sequenceOptions(def)
	if err != nil {
		return nil, err
	}
	all := make([]model.SequenceOption, 0, len(opts)+len(extra)+1)
	all = append(all, opts...)
	all = append(all, extra...)
	all = append(all, newLogOption(ctx.logger, def))

	pipe, err := pipeline.New(def.Step, all...)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to build %s", def.Step)
	}

	c := &composer{def: def, template: tmpl, eras: ctx.eras}
	err = c.compose(pipe)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to build %s", def.Step)
	}

	seq, err := pipe.Assemble()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to assemble %s", def.Step)
	}

	res := &StepResult{
		Definition: def,
		Sequence:   seq,
		Branch:     c.branch,
	}
	for _, stage := range seq.Stages() {
		res.Objects = append(res.Objects, pset.Named{Label: stage.Name(), Config: stage.Config})
	}

	err = res.Validate()
	if err != nil {
		return nil, err
	}

	res.Context, err = ctx.Define(res.Objects...)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to define %s", def.Step)
	}

	return res, nil
}

func (c *composer) object(name string) (*pset.PSet, error) {
	return c.template.Object(name)
}

// cloneOf returns a build function cloning the template object name and the
// stage options recording it as the stage template.
func (c *composer) cloneOf(role, name string, overrides ...pset.Override) (pipeline.BuildFn, []pipeline.StageOption, error) {
	tmpl, err := c.object(name)
	if err != nil {
		return nil, nil, err
	}

	build := func() (*pset.PSet, error) {
		return tmpl.Clone(overrides...)
	}

	return build, []pipeline.StageOption{pipeline.StageRole(role), pipeline.StageTemplate(tmpl)}, nil
}

func (c *composer) compose(pipe *pipeline.Pipeline) error {
	def := c.def

	regionsFn, regionsOpts, err := c.cloneOf(RoleRegions, def.RegionsLabel())
	if err != nil {
		return err
	}

	var regions *model.Stage
	if def.Masked {
		masks, err := pipeline.AddRootStage(pipe, def.MasksLabel(), c.masks,
			pipeline.StageRole(RoleMasks), pipeline.StageTemplate(fastsim.FastTrackerRecHitMaskProducer()))
		if err != nil {
			return err
		}
		regions, err = pipeline.AddStage(pipe, def.RegionsLabel(), masks, regionsFn, regionsOpts...)
		if err != nil {
			return err
		}
	} else {
		regions, err = pipeline.AddRootStage(pipe, def.RegionsLabel(), regionsFn, regionsOpts...)
		if err != nil {
			return err
		}
	}

	seeds, err := pipeline.AddStage(pipe, def.SeedsLabel(), regions, c.seeds,
		pipeline.StageRole(RoleSeeds), pipeline.StageTemplate(fastsim.TrajectorySeedProducer()))
	if err != nil {
		return err
	}

	candidates, err := pipeline.AddStage(pipe, def.CandidatesLabel(), seeds, c.candidates,
		pipeline.StageRole(RoleCandidates), pipeline.StageTemplate(fastsim.TrackCandidateProducer()))
	if err != nil {
		return err
	}

	tracksFn, tracksOpts, err := c.cloneOf(RoleTracks, def.TracksLabel(), pset.Set("TTRHBuilder", pset.String(def.RefitBuilder)))
	if err != nil {
		return err
	}
	last, err := pipeline.AddStage(pipe, def.TracksLabel(), candidates, tracksFn, tracksOpts...)
	if err != nil {
		return err
	}

	if def.PrimaryVertices != "" {
		verticesFn, verticesOpts, err := c.cloneOf(RoleVertices, def.PrimaryVertices)
		if err != nil {
			return err
		}
		last, err = pipeline.AddStage(pipe, def.VerticesLabel(), last, verticesFn, verticesOpts...)
		if err != nil {
			return err
		}
	}

	classifiers, err := c.addClassifiers(pipe, last)
	if err != nil {
		return err
	}

	return c.addSelector(pipe, last, classifiers)
}

func (c *composer) masks() (*pset.PSet, error) {
	clusters, err := c.object(c.def.clustersTemplate())
	if err != nil {
		return nil, err
	}

	return fastsim.MaskProducerFromClusterRemover(clusters)
}

// factory derives the seed finder factory from the standard hit set
// producer, with its seed-shape comparator disabled.
func (c *composer) factory() (*pset.PSet, error) {
	seeding := c.def.Seeding

	source, err := c.object(seeding.Source)
	if err != nil {
		return nil, err
	}
	factory, err := fastsim.HitSetProducerToFactory(source)
	if err != nil {
		return nil, err
	}

	var overrides []pset.Override
	switch seeding.Comparator {
	case ResetComparator:
		overrides = append(overrides, pset.Replace(comparatorKey, pset.Nested(pset.New("",
			pset.F("ComponentName", pset.String("none")),
		))))
	default:
		overrides = append(overrides, pset.Modify(comparatorKey, pset.Set("ComponentName", pset.String("none"))))
	}
	if seeding.SeedingLayers != "" {
		overrides = append(overrides, pset.Insert("SeedingLayers", pset.Tag(seeding.SeedingLayers)))
	}

	factory, err = factory.Clone(overrides...)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to derive %s from %s", seeding.Finder.Field(), seeding.Source)
	}

	return factory, nil
}

func (c *composer) seeds() (*pset.PSet, error) {
	layers, err := c.object(c.def.seedLayersTemplate())
	if err != nil {
		return nil, err
	}
	layerList, err := layers.GetStrings("layerList")
	if err != nil {
		return nil, errors.Wrap(err, c.def.seedLayersTemplate())
	}

	factory, err := c.factory()
	if err != nil {
		return nil, err
	}

	overrides := []pset.Override{
		pset.Set("layerList", pset.Strings(layerList...)),
		pset.Set("trackingRegions", pset.Tag(c.def.RegionsLabel())),
	}
	if c.def.Masked {
		overrides = append(overrides, pset.Set("hitMasks", pset.Tag(c.def.MasksLabel())))
	}
	overrides = append(overrides, pset.Modify(fastsim.SeedFinderSelectorKey,
		pset.Insert(c.def.Seeding.Finder.Field(), pset.Nested(factory)),
	))

	return fastsim.TrajectorySeedProducer().Clone(overrides...)
}

func (c *composer) candidates() (*pset.PSet, error) {
	overrides := []pset.Override{
		pset.Set("src", pset.Tag(c.def.SeedsLabel())),
		pset.Set("MinNumberOfCrossedLayers", pset.Int(int64(c.def.MinCrossedLayers))),
	}
	if c.def.Masked {
		overrides = append(overrides, pset.Set("hitMasks", pset.Tag(c.def.MasksLabel())))
	}

	return fastsim.TrackCandidateProducer().Clone(overrides...)
}

func (c *composer) addClassifiers(pipe *pipeline.Pipeline, parent *model.Stage) ([]*model.Stage, error) {
	if c.def.Classifiers == 0 {
		return nil, nil
	}

	vertices := pset.Set("vertices", pset.Tag(c.def.VertexSource))
	branches := make([]pipeline.Branch, c.def.Classifiers)
	c.classifiers = make([]*pset.PSet, c.def.Classifiers)
	for i := range branches {
		label := c.def.ClassifierLabel(i + 1)
		build, opts, err := c.cloneOf(RoleClassifier, label, vertices)
		if err != nil {
			return nil, err
		}
		idx := i
		branches[i] = pipeline.Branch{
			Name: label,
			Build: func() (*pset.PSet, error) {
				cfg, err := build()
				if err != nil {
					return nil, err
				}
				c.classifiers[idx] = cfg

				return cfg, nil
			},
			Opts: opts,
		}
	}

	return pipeline.AddParallel(pipe, parent, branches...)
}

// selectorChoice declares the default selector and, for steps with an era
// selector, its replacement.
func (c *composer) selectorChoice() (era.Choice[*pset.PSet], error) {
	def := c.def

	tmpl, err := c.object(def.SelectorLabel())
	if err != nil {
		return era.Choice[*pset.PSet]{}, err
	}
	var overrides []pset.Override
	if def.SelectorVertices {
		overrides = append(overrides, pset.Set("vertices", pset.Tag(def.VertexSource)))
	}
	selector, err := tmpl.Clone(overrides...)
	if err != nil {
		return era.Choice[*pset.PSet]{}, errors.Wrap(err, def.SelectorLabel())
	}

	choice := era.Default(selector)
	if def.Era == nil {
		return choice, nil
	}

	base := selector
	if def.Era.FromClassifier {
		base = c.classifiers[0]
	}
	alt, err := base.Clone(
		pset.Set("GBRForestLabel", pset.String(def.Era.Label)),
		pset.Set("qualityCuts", pset.Doubles(def.Era.QualityCuts[:]...)),
	)
	if err != nil {
		return era.Choice[*pset.PSet]{}, errors.Wrapf(err, "unable to declare %s replacement of %s", def.Era.Modifier, def.SelectorLabel())
	}

	choice, err = choice.ReplaceWith(def.Era.Modifier, alt)
	if err != nil {
		return era.Choice[*pset.PSet]{}, errors.Wrap(err, def.SelectorLabel())
	}

	return choice, nil
}

func (c *composer) buildSelector() (*pset.PSet, error) {
	choice, err := c.selectorChoice()
	if err != nil {
		return nil, err
	}
	selector, branch, err := choice.Resolve(c.eras)
	if err != nil {
		return nil, errors.Wrap(err, c.def.SelectorLabel())
	}
	c.branch = branch

	return selector, nil
}

func (c *composer) addSelector(pipe *pipeline.Pipeline, last *model.Stage, classifiers []*model.Stage) error {
	label := c.def.SelectorLabel()
	opts := []pipeline.StageOption{pipeline.StageRole(RoleSelector)}
	tmpl, err := c.object(label)
	if err != nil {
		return err
	}
	if c.def.Era == nil || !c.eras.Contains(c.def.Era.Modifier) || !c.def.Era.FromClassifier {
		opts = append(opts, pipeline.StageTemplate(tmpl))
	} else {
		classifier, err := c.object(c.def.ClassifierLabel(1))
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.StageTemplate(classifier))
	}

	if len(classifiers) == 0 {
		_, err = pipeline.AddSink(pipe, label, last, c.buildSelector, opts...)

		return err
	}
	_, err = pipeline.AddMerger(pipe, label, classifiers, c.buildSelector, opts...)

	return err
}
