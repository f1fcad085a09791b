package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/pipeline/measure"
	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m       measure.Measure
	order   []string
	parents map[string]struct{}
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStage(model.StartStage.Details)
	if err != nil {
		return errors.Wrap(err, "unable to add start stage to drawer")
	}
	err = pd.AddStage(model.EndStage.Details)
	if err != nil {
		return errors.Wrap(err, "unable to add end stage to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) link(parentStage, stage *model.StageInfo) error {
	err := pd.AddLink(parentStage.Name, stage.Name)
	if err != nil {
		return err
	}
	pd.parents[parentStage.Name] = struct{}{}

	return nil
}

func (pd *pipelineDrawer) add(parentStages []*model.StageInfo, stage *model.StageInfo) error {
	err := pd.AddStage(stage)
	if err != nil {
		return err
	}
	pd.order = append(pd.order, stage.Name)

	for _, parentStage := range parentStages {
		err := pd.link(parentStage, stage)
		if err != nil {
			return err
		}
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStage(parentStage, stage *model.StageInfo) error {
	return pd.add([]*model.StageInfo{parentStage}, stage)
}

func (pd *pipelineDrawer) PrepareParallel(parentStage *model.StageInfo, branches []*model.StageInfo) error {
	for _, branch := range branches {
		err := pd.add([]*model.StageInfo{parentStage}, branch)
		if err != nil {
			return err
		}
	}

	return nil
}

func (pd *pipelineDrawer) PrepareMerger(parentStages []*model.StageInfo, stage *model.StageInfo) error {
	return pd.add(parentStages, stage)
}

func (pd *pipelineDrawer) PrepareSink(parentStage, stage *model.StageInfo) error {
	return pd.add([]*model.StageInfo{parentStage}, stage)
}

func (pd *pipelineDrawer) OnStageBuilt(_ *model.StageInfo, _ time.Duration) error {
	return nil
}

// Finish links the last stages to the end node, labels the stages with the
// measure if any, and draws.
func (pd *pipelineDrawer) Finish() error {
	for _, name := range pd.order {
		if _, ok := pd.parents[name]; ok {
			continue
		}
		err := pd.AddLink(name, model.EndStage.Details.Name)
		if err != nil {
			return errors.Wrap(err, "unable to link end stage")
		}
	}

	if pd.m != nil {
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw sequence")
	}

	return nil
}

// PipelineDrawer draws the sequence once it is assembled. The measure may be
// nil; when set it must also be passed to the pipeline as an option, before
// the drawer.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.SequenceOption {
	return &pipelineDrawer{Drawer: drawer, m: measure, parents: make(map[string]struct{})}
}
