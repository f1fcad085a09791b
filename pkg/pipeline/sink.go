package pipeline

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
)

// AddSink adds the terminal stage. Nothing can be added after it.
func AddSink(p *Pipeline, name string, parent *model.Stage, buildFn BuildFn, opts ...StageOption) (*model.Stage, error) {
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

	stage, err := p.newStage(model.SinkStageType, name, opts...)
	if err != nil {
		return nil, err
	}
	elapsed, err := p.configure(stage, buildFn)
	if err != nil {
		return nil, err
	}
	for _, opt := range p.opts {
		err := opt.PrepareSink(parent.Details, stage.Details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run prepare sink function")
		}
	}
	err = p.commit(false, []*model.Stage{stage}, []time.Duration{elapsed}, parent)
	if err != nil {
		return nil, err
	}
	p.closed = true

	return stage, nil
}
