// Package pset provides immutable parameter sets, the configuration objects
// that describe every producer and selector of a tracking sequence.
//
// A parameter set is an ordered bundle of typed parameters (strings, numbers,
// booleans, input tags, lists and nested bundles) plus an optional plugin
// type naming the external producer it configures. Parameter sets are never
// mutated once built. Deriving a variant goes through Clone with a list of
// overrides: scalars are replaced wholesale, nested bundles are merged field
// by field unless the override asks for a wholesale replacement. Overrides
// may only touch parameters that already exist in the template; adding a new
// parameter has to be declared explicitly with Insert.
//
// Input tags are nominal references to the output of another named object.
// They are resolved by whoever schedules the objects, never by this package.
package pset
