// Package measure records, for every stage of a sequence, how far its
// configuration deviates from the template it was cloned from and how long
// it took to build.
package measure

import (
	"sync"
)

type DefaultMeasure struct {
	mu    sync.Mutex
	order []string
	steps map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		steps: make(map[string]Metric),
	}
}

// AddMetric returns the metric of a stage, creating it on first use.
func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.steps[name]; ok {
		return mt
	}
	mt := &DefaultMetric{}
	m.steps[name] = mt
	m.order = append(m.order, name)

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) (Metric, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt, ok := m.steps[name]

	return mt, ok
}

func (m *DefaultMeasure) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string{}, m.order...)
}

var _ Measure = (*DefaultMeasure)(nil)
