package measure

import (
	"time"

	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New() error {
	return nil
}

func (pm *pipelineMeasure) PrepareStage(parentStage, stage *model.StageInfo) error {
	mt := pm.AddMetric(stage.Name)
	if parentStage != model.StartStage.Details {
		mt.AddInput(parentStage.Name)
	}

	return nil
}

func (pm *pipelineMeasure) PrepareParallel(parentStage *model.StageInfo, branches []*model.StageInfo) error {
	for _, branch := range branches {
		pm.AddMetric(branch.Name).AddInput(parentStage.Name)
	}

	return nil
}

func (pm *pipelineMeasure) PrepareMerger(parentStages []*model.StageInfo, stage *model.StageInfo) error {
	mt := pm.AddMetric(stage.Name)
	for _, parent := range parentStages {
		mt.AddInput(parent.Name)
	}

	return nil
}

func (pm *pipelineMeasure) PrepareSink(parentStage, stage *model.StageInfo) error {
	pm.AddMetric(stage.Name).AddInput(parentStage.Name)

	return nil
}

func (pm *pipelineMeasure) OnStageBuilt(stage *model.StageInfo, buildDuration time.Duration) error {
	mt := pm.AddMetric(stage.Name)
	mt.AddDuration(buildDuration)
	mt.SetShape(stage.Role, stage.Overrides, stage.Parameters)

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	return nil
}

func PipelineMeasure(measure Measure) model.SequenceOption {
	return &pipelineMeasure{measure}
}
