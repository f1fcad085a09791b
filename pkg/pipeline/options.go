package pipeline

import (
	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
	"github.com/askiada/go-fasttrack/pkg/pset"
)

type StageOption func(stage *model.Stage)

// StageRole tags a stage, for instance "seeds" or "classifier".
func StageRole(role string) StageOption {
	return func(stage *model.Stage) {
		stage.Details.Role = role
	}
}

// StageOverrides records how many template parameters the stage changes.
// It is ignored when the stage also has a template.
func StageOverrides(total int) StageOption {
	return func(stage *model.Stage) {
		stage.Details.Overrides = total
	}
}

// StageTemplate records the object the stage is cloned from. Once built, the
// stage's override count is the number of parameters differing from it.
func StageTemplate(tmpl *pset.PSet) StageOption {
	return func(stage *model.Stage) {
		stage.Template = tmpl
	}
}
