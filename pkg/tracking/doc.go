// Package tracking composes the fast-simulation tracking iterations.
//
// Each iteration is declared by a Definition and built against the standard
// templates of a Context. Build clones and overrides the template objects in
// a fixed order:
//
//	masks + regions + seeds + candidates + tracks [+ vertices] [+ classifiers] + selector
//
// and assembles them into a pipeline.Sequence. Classifiers run as a parallel
// group feeding the selector. The selector may be replaced wholesale under an
// era modifier; the replacement is resolved once, when the step is built.
//
// Contexts are immutable. Building a step returns the context extended with
// the step's objects, so that steps chain without shared state:
//
//	ctx := tracking.NewContext(catalog, tracking.WithEras(era.NewSet(era.TrackingPhase1)))
//	proc, err := tracking.BuildProcess(ctx, "iterTracking", defs...)
package tracking
