// Package pipeline assembles named configuration objects into an ordered
// execution sequence.
//
// A sequence starts with a root stage and grows one stage at a time. Each
// stage names its parents: a normal stage has one, a parallel group branches
// several independent stages off the same parent, and a merger joins several
// parents back into one stage. A sink closes the sequence. Every stage is
// built when it is added, so a broken configuration is reported at the point
// where it enters the sequence.
//
// Stages and their links are kept in a directed acyclic graph. When the
// sequence is assembled, every input tag of a stage that names another stage
// of the same sequence becomes a data link as well, and a tag pointing at a
// stage that is not scheduled earlier is rejected. This keeps the invariant
// that objects only consume the output of objects that already ran.
//
// Sequence options hook into every stage as it is prepared and built. The
// drawer option renders the graph to DOT and the measure option records how
// much each stage deviates from its template and how long it took to build.
package pipeline
