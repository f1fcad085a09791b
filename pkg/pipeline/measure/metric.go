package measure

import (
	"sync"
	"time"
)

type DefaultMetric struct {
	mu         sync.Mutex
	inputs     []string
	elapsed    time.Duration
	total      int64
	role       string
	overrides  int
	parameters int
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.elapsed += elapsed
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.elapsed) / float64(mt.total)))
}

func (mt *DefaultMetric) TotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.elapsed
}

func (mt *DefaultMetric) SetShape(role string, overrides, parameters int) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.role = role
	mt.overrides = overrides
	mt.parameters = parameters
}

func (mt *DefaultMetric) Role() string {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.role
}

func (mt *DefaultMetric) Overrides() int {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.overrides
}

func (mt *DefaultMetric) Parameters() int {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.parameters
}

func (mt *DefaultMetric) AddInput(parentName string) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	for _, in := range mt.inputs {
		if in == parentName {
			return
		}
	}
	mt.inputs = append(mt.inputs, parentName)
}

func (mt *DefaultMetric) Inputs() []string {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return append([]string{}, mt.inputs...)
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Hour)
	case d > time.Minute:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}
