package tracking

import "github.com/pkg/errors"

var (
	ErrCatalogMustBeSet     = errors.New("standard catalog must be set")
	ErrInvalidDefinition    = errors.New("invalid step definition")
	ErrDuplicateObject      = errors.New("object already defined")
	ErrUnknownStep          = errors.New("unknown tracking step")
	ErrDuplicateStep        = errors.New("tracking step selected twice")
	ErrUnknownVariant       = errors.New("unknown step variant")
	ErrNoSteps              = errors.New("process has no steps")
	ErrForwardStepReference = errors.New("object references a later step")
	ErrObjectMissing        = errors.New("object missing from step")
	ErrMinCrossedLayers     = errors.New("minimum crossed layers differ from the definition")
	ErrMixedVertexSources   = errors.New("classifiers of a step read different vertex collections")
	ErrEraNotExclusive      = errors.New("era selector is not exclusive")
)
