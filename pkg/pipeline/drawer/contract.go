package drawer

import (
	"github.com/askiada/go-fasttrack/pkg/pipeline/measure"
	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
)

// Drawer is an interface that defines the methods for drawing a sequence.
type Drawer interface {
	// AddStage adds a stage to the drawer.
	AddStage(stage *model.StageInfo) error
	// AddLink adds a link between parent and child stages.
	AddLink(parentStageName, childStageName string) error
	// AddMeasure labels the stages with their metrics.
	AddMeasure(measure measure.Measure) error
	// Draw renders the sequence graph.
	Draw() error
}
