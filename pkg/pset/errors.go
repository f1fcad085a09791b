package pset

import "github.com/pkg/errors"

var (
	ErrUnknownParameter   = errors.New("parameter does not exist in template")
	ErrParameterExists    = errors.New("parameter already exists")
	ErrParameterNotFound  = errors.New("parameter not found")
	ErrKindMismatch       = errors.New("parameter kind mismatch")
	ErrDuplicateParameter = errors.New("duplicate parameter")
	ErrInvalidDocument    = errors.New("invalid parameter set document")
)
