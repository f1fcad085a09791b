package pipeline

import (
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
)

// Entry is one position of a sequence: a single stage or a parallel group.
type Entry struct {
	Stages   []*model.Stage
	Parallel bool
}

// Names returns the stage names of the entry in declaration order.
func (e Entry) Names() []string {
	names := make([]string, len(e.Stages))
	for i, stage := range e.Stages {
		names[i] = stage.Name()
	}

	return names
}

func (e Entry) String() string {
	if !e.Parallel {
		return strings.Join(e.Names(), " + ")
	}

	return "(" + strings.Join(e.Names(), " | ") + ")"
}

// Sequence is an assembled, read-only schedule of stages.
type Sequence struct {
	Name     string
	Entries  []Entry
	graph    graph.Graph[string, *model.Stage]
	position map[string]int
}

// Names returns every stage name in schedule order.
func (s *Sequence) Names() []string {
	var names []string
	for _, entry := range s.Entries {
		names = append(names, entry.Names()...)
	}

	return names
}

// Stages returns every stage in schedule order.
func (s *Sequence) Stages() []*model.Stage {
	var stages []*model.Stage
	for _, entry := range s.Entries {
		stages = append(stages, entry.Stages...)
	}

	return stages
}

// Stage looks a stage up by name.
func (s *Sequence) Stage(name string) (*model.Stage, bool) {
	idx, ok := s.position[name]
	if !ok {
		return nil, false
	}
	for _, stage := range s.Entries[idx].Stages {
		if stage.Name() == name {
			return stage, true
		}
	}

	return nil, false
}

// Position returns the index of the entry holding the named stage.
func (s *Sequence) Position(name string) (int, bool) {
	idx, ok := s.position[name]

	return idx, ok
}

// Expression renders the schedule, for instance "a + b + (c | d) + e".
func (s *Sequence) Expression() string {
	parts := make([]string, len(s.Entries))
	for i, entry := range s.Entries {
		parts[i] = entry.String()
	}

	return strings.Join(parts, " + ")
}

// TopologicalOrder sorts the stages along structural and data links. Ties
// are broken by schedule position, so the result is stable.
func (s *Sequence) TopologicalOrder() ([]string, error) {
	order, err := graph.StableTopologicalSort(s.graph, func(a, b string) bool {
		if s.position[a] != s.position[b] {
			return s.position[a] < s.position[b]
		}

		return a < b
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to sort %s", s.Name)
	}

	return order, nil
}

// Graph exposes the stage graph. Callers must not modify it.
func (s *Sequence) Graph() graph.Graph[string, *model.Stage] {
	return s.graph
}
