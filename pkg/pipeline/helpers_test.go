package pipeline_test

import (
	"fmt"
	"sync"
	"time"

	"github.com/askiada/go-fasttrack/pkg/pipeline"
	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
	"github.com/askiada/go-fasttrack/pkg/pset"
)

func producer(typ string, inputs ...string) pipeline.BuildFn {
	return func() (*pset.PSet, error) {
		fields := make([]pset.Field, 0, len(inputs))
		for i, in := range inputs {
			fields = append(fields, pset.F(fmt.Sprintf("src%d", i), pset.Tag(in)))
		}

		return pset.New(typ, fields...), nil
	}
}

func failing(err error) pipeline.BuildFn {
	return func() (*pset.PSet, error) {
		return nil, err
	}
}

// recorder is a sequence option logging every hook call.
type recorder struct {
	mu     sync.Mutex
	calls  []string
	failOn string
}

func (r *recorder) record(call string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	if call == r.failOn {
		return fmt.Errorf("hook %s failed", call)
	}

	return nil
}

func (r *recorder) New() error {
	return r.record("new")
}

func (r *recorder) PrepareStage(parent, stage *model.StageInfo) error {
	return r.record("stage " + parent.Name + ">" + stage.Name)
}

func (r *recorder) PrepareParallel(parent *model.StageInfo, branches []*model.StageInfo) error {
	call := "parallel " + parent.Name + ">"
	for _, b := range branches {
		call += b.Name + ","
	}

	return r.record(call)
}

func (r *recorder) PrepareMerger(parents []*model.StageInfo, stage *model.StageInfo) error {
	return r.record(fmt.Sprintf("merger %d>%s", len(parents), stage.Name))
}

func (r *recorder) PrepareSink(parent, stage *model.StageInfo) error {
	return r.record("sink " + parent.Name + ">" + stage.Name)
}

func (r *recorder) OnStageBuilt(stage *model.StageInfo, _ time.Duration) error {
	return r.record("built " + stage.Name)
}

func (r *recorder) Finish() error {
	return r.record("finish")
}

var _ model.SequenceOption = (*recorder)(nil)
