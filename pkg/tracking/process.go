package tracking

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-fasttrack/pkg/era"
	"github.com/askiada/go-fasttrack/pkg/pset"
)

// DefaultProcessName names the sequence of all tracking iterations.
const DefaultProcessName = "iterTracking"

// Process is a chain of built steps.
type Process struct {
	Name  string
	Eras  era.Set
	Steps []*StepResult

	ctx Context
}

// BuildProcess builds defs in order, each against the context left by the
// previous one. An object may only reference objects of its own or of an
// earlier step.
func BuildProcess(ctx Context, name string, defs ...Definition) (*Process, error) {
	if len(defs) == 0 {
		return nil, ErrNoSteps
	}
	if name == "" {
		name = DefaultProcessName
	}

	proc := &Process{Name: name, Eras: ctx.Eras()}
	for _, def := range defs {
		res, err := Build(ctx, def)
		if err != nil {
			return nil, err
		}
		proc.Steps = append(proc.Steps, res)
		ctx = res.Context
	}
	proc.ctx = ctx

	err := proc.checkStepOrder()
	if err != nil {
		return nil, err
	}

	ctx.logger.Info("process built",
		slog.String("process", proc.Name),
		slog.Int("steps", len(proc.Steps)),
		slog.Int("objects", len(ctx.order)),
		slog.Any("eras", ctx.eras.Names()),
	)

	return proc, nil
}

func (p *Process) checkStepOrder() error {
	owner := make(map[string]int)
	for i, step := range p.Steps {
		for _, obj := range step.Objects {
			owner[obj.Label] = i
		}
	}

	for i, step := range p.Steps {
		for _, obj := range step.Objects {
			for _, ref := range obj.Config.References() {
				j, ok := owner[ref.Tag.Label]
				if ok && j > i {
					return errors.Wrapf(ErrForwardStepReference, "%s.%s -> %s of %s",
						obj.Label, ref.Path, ref.Tag.Label, p.Steps[j].Definition.Step)
				}
			}
		}
	}

	return nil
}

// Step returns the built step named name.
func (p *Process) Step(name string) (*StepResult, bool) {
	for _, step := range p.Steps {
		if step.Definition.Step == name {
			return step, true
		}
	}

	return nil, false
}

func (p *Process) Object(label string) (*pset.PSet, bool) {
	return p.ctx.Lookup(label)
}

// Names returns every object label in schedule order.
func (p *Process) Names() []string {
	return p.ctx.Names()
}

// Schedule concatenates the step sequences.
func (p *Process) Schedule() string {
	parts := make([]string, len(p.Steps))
	for i, step := range p.Steps {
		parts[i] = step.Sequence.Expression()
	}

	return strings.Join(parts, " + ")
}

type stepDocument struct {
	Name     string `yaml:"name"`
	Variant  string `yaml:"variant"`
	Era      string `yaml:"era"`
	Sequence string `yaml:"sequence"`
}

type processDocument struct {
	Process string         `yaml:"process"`
	Eras    []string       `yaml:"eras,flow"`
	Steps   []stepDocument `yaml:"steps"`
	Objects *yaml.Node     `yaml:"objects"`
}

// MarshalYAML renders the steps and every object in schedule order.
func (p *Process) MarshalYAML() (interface{}, error) {
	doc := processDocument{
		Process: p.Name,
		Eras:    p.Eras.Names(),
		Objects: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"},
	}

	for _, step := range p.Steps {
		doc.Steps = append(doc.Steps, stepDocument{
			Name:     step.Definition.Step,
			Variant:  string(step.Definition.Variant),
			Era:      step.Branch.String(),
			Sequence: step.Sequence.Expression(),
		})

		for _, obj := range step.Objects {
			value := &yaml.Node{}
			err := value.Encode(obj.Config)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to encode %s", obj.Label)
			}
			doc.Objects.Content = append(doc.Objects.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: obj.Label},
				value,
			)
		}
	}

	return doc, nil
}

// WriteYAML writes the process to w.
func (p *Process) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(p)
	if err != nil {
		return errors.Wrapf(err, "unable to write %s", p.Name)
	}

	return errors.Wrap(enc.Close(), "unable to flush yaml encoder")
}
