package pipeline

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
)

func prepareMerger(pipe *Pipeline, parents []*model.Stage, stage *model.Stage) error {
	infos := make([]*model.StageInfo, len(parents))
	for i, parent := range parents {
		infos[i] = parent.Details
	}

	for _, opt := range pipe.opts {
		err := opt.PrepareMerger(infos, stage.Details)
		if err != nil {
			return errors.Wrap(err, "unable to run prepare merger function")
		}
	}

	return nil
}

// AddMerger adds a stage joining the outputs of several parents, typically
// the branches of a parallel group.
func AddMerger(p *Pipeline, name string, parents []*model.Stage, buildFn BuildFn, opts ...StageOption) (*model.Stage, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	err := p.checkOpen()
	if err != nil {
		return nil, err
	}
	err = p.checkParents(parents...)
	if err != nil {
		return nil, err
	}

	stage, err := p.newStage(model.MergerStageType, name, opts...)
	if err != nil {
		return nil, err
	}
	elapsed, err := p.configure(stage, buildFn)
	if err != nil {
		return nil, err
	}
	err = prepareMerger(p, parents, stage)
	if err != nil {
		return nil, errors.Wrap(err, "unable to prepare merger")
	}
	err = p.commit(false, []*model.Stage{stage}, []time.Duration{elapsed}, parents...)
	if err != nil {
		return nil, err
	}

	return stage, nil
}
