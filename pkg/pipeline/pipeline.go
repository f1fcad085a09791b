package pipeline

import (
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/internal/store"
	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
	"github.com/askiada/go-fasttrack/pkg/pset"
)

// BuildFn produces the configuration of a stage.
type BuildFn func() (*pset.PSet, error)

// Pipeline is a sequence of stages under construction.
type Pipeline struct {
	name      string
	opts      []model.SequenceOption
	graph     graph.Graph[string, *model.Stage]
	entries   []Entry
	position  map[string]int
	closed    bool
	assembled bool
}

func stageHash(s *model.Stage) string {
	return s.Details.Name
}

// New creates a new pipeline.
func New(name string, opts ...model.SequenceOption) (*Pipeline, error) {
	if name == "" {
		return nil, ErrNameMustBeSet
	}

	pipe := &Pipeline{
		name:     name,
		opts:     opts,
		graph:    graph.NewWithStore(stageHash, store.NewMemoryStore[string, *model.Stage](), graph.Directed(), graph.PreventCycles()),
		position: make(map[string]int),
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply sequence option")
		}
	}

	return pipe, nil
}

// Name returns the name the sequence will carry.
func (p *Pipeline) Name() string {
	return p.name
}

func (p *Pipeline) checkOpen() error {
	if p.assembled {
		return ErrAlreadyAssembled
	}
	if p.closed {
		return ErrSequenceClosed
	}

	return nil
}

func (p *Pipeline) newStage(typ model.StageType, name string, opts ...StageOption) (*model.Stage, error) {
	if name == "" {
		return nil, ErrNameMustBeSet
	}
	if _, ok := p.position[name]; ok {
		return nil, errors.Wrap(ErrDuplicateStage, name)
	}

	stage := &model.Stage{
		Details: &model.StageInfo{
			Type: typ,
			Name: name,
		},
	}
	for _, opt := range opts {
		opt(stage)
	}

	return stage, nil
}

func (p *Pipeline) checkParents(parents ...*model.Stage) error {
	if len(parents) == 0 {
		return ErrParentMustBeSet
	}
	for _, parent := range parents {
		if parent == nil || parent.Details == nil {
			return ErrParentMustBeSet
		}
		if _, ok := p.position[parent.Name()]; !ok {
			return errors.Wrap(ErrUnknownParent, parent.Name())
		}
	}

	return nil
}

// configure runs the build function of a stage. Nothing is registered, so
// a failure leaves the pipeline untouched.
func (p *Pipeline) configure(stage *model.Stage, buildFn BuildFn) (time.Duration, error) {
	if buildFn == nil {
		return 0, errors.Wrap(ErrBuildMustBeSet, stage.Name())
	}

	start := time.Now()
	cfg, err := buildFn()
	if err != nil {
		return 0, errors.Wrapf(err, "unable to build %s", stage.Name())
	}
	if cfg == nil {
		return 0, errors.Wrap(ErrNilConfiguration, stage.Name())
	}
	elapsed := time.Since(start)

	stage.Config = cfg
	stage.Details.Parameters = cfg.Len()
	if stage.Template != nil {
		stage.Details.Overrides = len(pset.Diff(stage.Template, cfg))
	}

	return elapsed, nil
}

// register adds a configured stage to the graph below its parents. On error
// the graph is left as it was.
func (p *Pipeline) register(stage *model.Stage, parents ...*model.Stage) error {
	err := p.graph.AddVertex(stage,
		graph.VertexAttribute("role", stage.Details.Role),
		graph.VertexAttribute("type", stage.Config.Type()),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to add %s", stage.Name())
	}
	for i, parent := range parents {
		err := p.graph.AddEdge(parent.Name(), stage.Name())
		if err != nil {
			p.unregister([]*model.Stage{stage}, parents[:i]...)

			return errors.Wrapf(err, "unable to link %s to %s", parent.Name(), stage.Name())
		}
	}

	return nil
}

// unregister removes stages and their links to parents from the graph.
func (p *Pipeline) unregister(stages []*model.Stage, parents ...*model.Stage) {
	for _, stage := range stages {
		for _, parent := range parents {
			_ = p.graph.RemoveEdge(parent.Name(), stage.Name())
		}
		_ = p.graph.RemoveVertex(stage.Name())
	}
}

// commit registers configured stages as one entry of the sequence and runs
// the built hooks. Either every stage joins the sequence or none does.
func (p *Pipeline) commit(parallel bool, stages []*model.Stage, elapsed []time.Duration, parents ...*model.Stage) error {
	for i, stage := range stages {
		err := p.register(stage, parents...)
		if err != nil {
			p.unregister(stages[:i], parents...)

			return err
		}
	}

	for i, stage := range stages {
		for _, opt := range p.opts {
			err := opt.OnStageBuilt(stage.Details, elapsed[i])
			if err != nil {
				p.unregister(stages, parents...)

				return errors.Wrap(err, "unable to run on stage built function")
			}
		}
	}
	p.addEntry(parallel, stages...)

	return nil
}

// Assemble freezes the pipeline into a sequence. It adds a data link for
// every input tag naming a stage of the sequence and fails when such a tag
// points at a stage that does not run strictly before the referencing one.
func (p *Pipeline) Assemble() (*Sequence, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	if p.assembled {
		return nil, ErrAlreadyAssembled
	}
	if len(p.entries) == 0 {
		return nil, errors.Wrap(ErrEmptySequence, p.name)
	}

	err := p.linkReferences()
	if err != nil {
		return nil, err
	}

	p.assembled = true
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return nil, errors.Wrap(err, "unable to finish sequence option")
		}
	}

	return &Sequence{
		Name:     p.name,
		Entries:  p.entries,
		graph:    p.graph,
		position: p.position,
	}, nil
}

func (p *Pipeline) linkReferences() error {
	for idx, entry := range p.entries {
		for _, stage := range entry.Stages {
			for _, ref := range stage.Config.References() {
				target, ok := p.position[ref.Tag.Label]
				if !ok {
					continue
				}
				if target >= idx {
					return errors.Wrapf(ErrForwardReference, "%s.%s -> %s", stage.Name(), ref.Path, ref.Tag.Label)
				}

				err := p.graph.AddEdge(ref.Tag.Label, stage.Name(),
					graph.EdgeAttribute("style", "dashed"),
					graph.EdgeAttribute("label", ref.Path),
				)
				if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
					return errors.Wrapf(err, "unable to link %s to %s", ref.Tag.Label, stage.Name())
				}
			}
		}
	}

	return nil
}
