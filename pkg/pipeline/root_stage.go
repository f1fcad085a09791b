package pipeline

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
)

func prepareRootStage(pipe *Pipeline, stage *model.Stage) error {
	for _, opt := range pipe.opts {
		err := opt.PrepareStage(model.StartStage.Details, stage.Details)
		if err != nil {
			return errors.Wrap(err, "unable to run prepare stage function")
		}
	}

	return nil
}

// AddRootStage adds the first stage of the sequence. It has no parent and
// there is only one.
func AddRootStage(p *Pipeline, name string, buildFn BuildFn, opts ...StageOption) (*model.Stage, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	err := p.checkOpen()
	if err != nil {
		return nil, err
	}
	if len(p.entries) > 0 {
		return nil, errors.Wrap(ErrRootAlreadySet, name)
	}

	stage, err := p.newStage(model.RootStageType, name, opts...)
	if err != nil {
		return nil, err
	}
	elapsed, err := p.configure(stage, buildFn)
	if err != nil {
		return nil, err
	}
	err = prepareRootStage(p, stage)
	if err != nil {
		return nil, err
	}
	err = p.commit(false, []*model.Stage{stage}, []time.Duration{elapsed})
	if err != nil {
		return nil, err
	}

	return stage, nil
}
