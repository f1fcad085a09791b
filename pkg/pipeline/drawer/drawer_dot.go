// Package drawer renders a stage sequence as a Graphviz DOT graph. Stages
// are coloured from blue to red by the number of template parameters they
// override.
package drawer

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-fasttrack/internal/store"
	"github.com/askiada/go-fasttrack/pkg/pipeline/measure"
	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
)

// DOTDrawer is a drawer that writes the sequence graph in DOT format.
type DOTDrawer struct {
	title  string
	graph  graph.Graph[string, string]
	store  store.CustomStore[string, string]
	stages []*model.StageInfo
	open   func() (io.WriteCloser, error)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func newDOTDrawer(title string, open func() (io.WriteCloser, error)) *DOTDrawer {
	s := store.NewMemoryStore[string, string]()

	return &DOTDrawer{
		title: title,
		store: s,
		graph: graph.NewWithStore(graph.StringHash, s, graph.Directed(), graph.PreventCycles()),
		open:  open,
	}
}

// NewDOTDrawer creates a drawer writing to dotFileName.
func NewDOTDrawer(title, dotFileName string) *DOTDrawer {
	return newDOTDrawer(title, func() (io.WriteCloser, error) {
		file, err := os.Create(dotFileName)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to create file %s", dotFileName)
		}

		return file, nil
	})
}

// NewDOTWriter creates a drawer writing to wrt.
func NewDOTWriter(title string, wrt io.Writer) *DOTDrawer {
	return newDOTDrawer(title, func() (io.WriteCloser, error) {
		return nopCloser{wrt}, nil
	})
}

// AddStage adds a stage to the graph.
func (d *DOTDrawer) AddStage(stage *model.StageInfo) error {
	err := d.graph.AddVertex(stage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add vertex")
	}

	d.stages = append(d.stages, stage)

	return nil
}

// AddLink adds a link between parent and child stages.
func (d *DOTDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

// Draw colours the stages and writes the DOT graph.
func (d *DOTDrawer) Draw() error {
	err := d.addHeat()
	if err != nil {
		return errors.Wrap(err, "unable to colour stages")
	}

	wrt, err := d.open()
	if err != nil {
		return err
	}

	order, err := d.store.ListVertices()
	if err != nil {
		_ = wrt.Close()

		return errors.Wrap(err, "unable to list stages")
	}

	err = dot(d.graph, order, wrt, GraphAttribute("label", d.title), GraphAttribute("rankdir", "LR"))
	if err != nil {
		_ = wrt.Close()

		return errors.Wrap(err, "unable to write dot graph")
	}

	return errors.Wrap(wrt.Close(), "unable to close dot graph")
}

const maxRGB = 240

// addHeat colours every stage from blue (no override) to red (most
// overrides of the sequence).
func (d *DOTDrawer) addHeat() error {
	maxValue := 0
	for _, stage := range d.stages {
		if stage.Overrides > maxValue {
			maxValue = stage.Overrides
		}
	}

	for _, stage := range d.stages {
		fraction := 0.0
		if maxValue > 0 {
			fraction = float64(stage.Overrides) / float64(maxValue)
		}

		red := maxRGB * fraction
		blue := -maxRGB*fraction + maxRGB

		colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		err = d.store.UpdateVertex(stage.Name,
			graph.VertexAttribute("color", colour.ToHEX().String()),
			graph.VertexAttribute("shape", shape(stage.Type)),
		)
		if err != nil {
			return errors.Wrapf(err, "unable to update %s", stage.Name)
		}
	}

	return nil
}

func shape(typ model.StageType) string {
	switch typ {
	case model.ParallelStageType:
		return "box3d"
	case model.MergerStageType, model.SinkStageType:
		return "doubleoctagon"
	case model.RootStageType:
		return "house"
	case "":
		return "circle"
	default:
		return "box"
	}
}

// AddMeasure labels every measured stage with its shape and build time.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	for _, name := range msr.Names() {
		mt, ok := msr.GetMetric(name)
		if !ok {
			continue
		}

		xlabel := strconv.Itoa(mt.Parameters()) + " params, " + strconv.Itoa(mt.Overrides()) + " overrides"
		if avg := mt.AVGDuration(); avg != 0 {
			xlabel += ", " + avg.String()
		}

		err := d.store.UpdateVertex(name, graph.VertexAttribute("xlabel", xlabel))
		if err != nil {
			return errors.Wrapf(err, "unable to label %s", name)
		}
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot[K comparable, T any](g graph.Graph[K, T], order []K, wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, order, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute is a functional option for the [dot] function.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

// generateDOT walks the vertices in the given order and the edges in store
// order so that the same sequence always renders the same file.
func generateDOT[K comparable, T any](gra graph.Graph[K, T], order []K, options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	edges, err := gra.Edges()
	if err != nil {
		return desc, errors.Wrap(err, "unable to list edges")
	}

	for _, vertex := range order {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)
		attributes := make(map[string]string, len(sourceProperties.Attributes))
		for k, v := range sourceProperties.Attributes {
			attributes[k] = v
		}

		if xlabel, ok := attributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%+v <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, xlabel)

			delete(attributes, "xlabel")
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: attributes,
			HTMLAttributes:   htmlAttributes,
		})
	}

	for _, edge := range edges {
		desc.Statements = append(desc.Statements, statement{
			Source:         edge.Source,
			Target:         edge.Target,
			EdgeWeight:     edge.Properties.Weight,
			EdgeAttributes: edge.Properties.Attributes,
		})
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
