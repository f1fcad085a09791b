package model

import "github.com/askiada/go-fasttrack/pkg/pset"

type StageType string

const (
	RootStageType     StageType = "root"
	NormalStageType   StageType = "stage"
	ParallelStageType StageType = "parallel"
	MergerStageType   StageType = "merger"
	SinkStageType     StageType = "sink"
)

// StageInfo describes a stage independently of its configuration.
type StageInfo struct {
	Type StageType
	Name string
	// Role is a free form tag such as "seeds" or "classifier".
	Role string
	// Overrides is the number of parameters changed from the template.
	Overrides int
	// Parameters is the number of top-level parameters once built.
	Parameters int
}

var (
	StartStage = &Stage{Details: &StageInfo{Name: "start"}}
	EndStage   = &Stage{Details: &StageInfo{Name: "end"}}
)

// Stage is one named configuration object scheduled in a sequence.
type Stage struct {
	Details *StageInfo
	Config  *pset.PSet
	// Template is the object the configuration was cloned from, if any.
	Template *pset.PSet
}

// Name is a shorthand for Details.Name.
func (s *Stage) Name() string {
	return s.Details.Name
}
