package pipeline

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
)

// Branch is one stage of a parallel group.
type Branch struct {
	Name  string
	Build BuildFn
	Opts  []StageOption
}

func prepareParallel(pipe *Pipeline, parent *model.Stage, stages []*model.Stage) error {
	infos := make([]*model.StageInfo, len(stages))
	for i, stage := range stages {
		infos[i] = stage.Details
	}

	for _, opt := range pipe.opts {
		err := opt.PrepareParallel(parent.Details, infos)
		if err != nil {
			return errors.Wrap(err, "unable to run prepare parallel function")
		}
	}

	return nil
}

// AddParallel branches independent stages off parent. They share one
// position in the sequence, so none of them may consume another's output.
// A group of one branch is scheduled like a normal stage.
func AddParallel(p *Pipeline, parent *model.Stage, branches ...Branch) ([]*model.Stage, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	err := p.checkOpen()
	if err != nil {
		return nil, err
	}
	if len(branches) == 0 {
		return nil, ErrEmptyParallel
	}
	err = p.checkParents(parent)
	if err != nil {
		return nil, err
	}

	typ := model.ParallelStageType
	if len(branches) == 1 {
		typ = model.NormalStageType
	}

	stages := make([]*model.Stage, len(branches))
	seen := make(map[string]struct{}, len(branches))
	for i, branch := range branches {
		if _, ok := seen[branch.Name]; ok {
			return nil, errors.Wrap(ErrDuplicateStage, branch.Name)
		}
		seen[branch.Name] = struct{}{}

		stage, err := p.newStage(typ, branch.Name, branch.Opts...)
		if err != nil {
			return nil, err
		}
		stages[i] = stage
	}

	// every branch is configured before any joins the graph
	elapsed := make([]time.Duration, len(stages))
	for i, stage := range stages {
		elapsed[i], err = p.configure(stage, branches[i].Build)
		if err != nil {
			return nil, err
		}
	}
	err = prepareParallel(p, parent, stages)
	if err != nil {
		return nil, err
	}
	err = p.commit(len(stages) > 1, stages, elapsed, parent)
	if err != nil {
		return nil, err
	}

	return stages, nil
}
