package pipeline

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
)

func prepareStage(pipe *Pipeline, parent, stage *model.Stage) error {
	for _, opt := range pipe.opts {
		err := opt.PrepareStage(parent.Details, stage.Details)
		if err != nil {
			return errors.Wrap(err, "unable to run prepare stage function")
		}
	}

	return nil
}

// AddStage adds a stage running after parent.
func AddStage(p *Pipeline, name string, parent *model.Stage, buildFn BuildFn, opts ...StageOption) (*model.Stage, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	err := p.checkOpen()
	if err != nil {
		return nil, err
	}
	err = p.checkParents(parent)
	if err != nil {
		return nil, err
	}

	stage, err := p.newStage(model.NormalStageType, name, opts...)
	if err != nil {
		return nil, err
	}
	elapsed, err := p.configure(stage, buildFn)
	if err != nil {
		return nil, err
	}
	err = prepareStage(p, parent, stage)
	if err != nil {
		return nil, err
	}
	err = p.commit(false, []*model.Stage{stage}, []time.Duration{elapsed}, parent)
	if err != nil {
		return nil, err
	}

	return stage, nil
}
