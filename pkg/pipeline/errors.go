package pipeline

import (
	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet = errors.New("p must be set")
	ErrNameMustBeSet     = errors.New("stage name must be set")
	ErrBuildMustBeSet    = errors.New("build function must be set")
	ErrParentMustBeSet   = errors.New("parent must be set")
	ErrUnknownParent     = errors.New("parent is not a stage of this sequence")
	ErrEmptyParallel     = errors.New("parallel group needs at least one branch")
	ErrDuplicateStage    = errors.New("stage already exists")
	ErrRootAlreadySet    = errors.New("sequence already has a root stage")
	ErrForwardReference  = errors.New("stage references a stage that does not run before it")
	ErrEmptySequence     = errors.New("sequence has no stage")
	ErrSequenceClosed    = errors.New("sequence already ends with a sink")
	ErrAlreadyAssembled  = errors.New("sequence already assembled")
	ErrNilConfiguration  = errors.New("stage built no configuration")
)
