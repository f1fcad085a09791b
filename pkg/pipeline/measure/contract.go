package measure

import "time"

type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) (Metric, bool)
	// Names lists the metrics in the order they were added.
	Names() []string
}

type Metric interface {
	AddDuration(elapsed time.Duration)
	AVGDuration() time.Duration
	TotalDuration() time.Duration
	SetShape(role string, overrides, parameters int)
	Role() string
	Overrides() int
	Parameters() int
	AddInput(parentName string)
	Inputs() []string
}
