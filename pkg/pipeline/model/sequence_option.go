package model

import "time"

// SequenceOption defines the interface for sequence options.
type SequenceOption interface {
	// New initialises the sequence option.
	New() error

	// PrepareStage runs before a root or normal stage is built. parent is
	// StartStage for root stages.
	PrepareStage(parent, stage *StageInfo) error
	// PrepareParallel runs before the branches of a parallel group are built.
	PrepareParallel(parent *StageInfo, branches []*StageInfo) error
	// PrepareMerger runs before a stage joining several parents is built.
	PrepareMerger(parents []*StageInfo, stage *StageInfo) error
	// PrepareSink runs before the terminal stage is built.
	PrepareSink(parent, stage *StageInfo) error
	// OnStageBuilt runs once the configuration of a stage exists.
	OnStageBuilt(stage *StageInfo, buildDuration time.Duration) error

	// Finish runs after the sequence is assembled.
	Finish() error
}
