package pset

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// TypeKey is the reserved mapping key carrying the plugin type.
	TypeKey = "type"

	tagInputTag   = "!tag"
	tagStringList = "!vstring"
	tagDoubleList = "!vdouble"
	// tagPlugin marks a nested set carrying a plugin type.
	tagPlugin = "!plugin"
)

// MarshalYAML renders the set as an ordered mapping node.
func (p *PSet) MarshalYAML() (interface{}, error) {
	return p.node(), nil
}

func (p *PSet) node() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if p.Type() != "" {
		n.Content = append(n.Content, scalar("!!str", TypeKey), scalar("!!str", p.typ))
	}
	for _, name := range p.Keys() {
		n.Content = append(n.Content, scalar("!!str", name), valueNode(p.values[name]))
	}

	return n
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func formatDouble(d float64) string {
	switch {
	case math.IsInf(d, 1):
		return ".inf"
	case math.IsInf(d, -1):
		return "-.inf"
	case math.IsNaN(d):
		return ".nan"
	}
	s := strconv.FormatFloat(d, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

func valueNode(v Value) *yaml.Node {
	switch v.Kind() {
	case KindString:
		n := scalar("!!str", v.str)
		n.Style = yaml.DoubleQuotedStyle

		return n
	case KindInt:
		return scalar("!!int", strconv.FormatInt(v.num, 10))
	case KindDouble:
		return scalar("!!float", formatDouble(v.dbl))
	case KindBool:
		return scalar("!!bool", strconv.FormatBool(v.flag))
	case KindInputTag:
		return scalar(tagInputTag, v.tag.String())
	case KindStringList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: tagStringList, Style: yaml.FlowStyle}
		for _, s := range v.strs {
			n.Content = append(n.Content, scalar("!!str", s))
		}

		return n
	case KindDoubleList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: tagDoubleList, Style: yaml.FlowStyle}
		for _, d := range v.dbls {
			n.Content = append(n.Content, scalar("!!float", formatDouble(d)))
		}

		return n
	case KindPSet:
		n := v.nested.node()
		if v.nested.Type() != "" {
			n.Tag = tagPlugin
		}

		return n
	default:
		return scalar("!!null", "null")
	}
}

// UnmarshalYAML decodes a mapping node into the set. Untagged scalars take
// their kind from the YAML resolver, !tag marks an input tag, mappings become
// nested sets and sequences become string or double lists. The type key is
// the plugin type of the object itself and of nested sets tagged !plugin; in
// any other nested set it is a plain parameter.
func (p *PSet) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := decodePSet(node, true)
	if err != nil {
		return err
	}
	*p = *decoded

	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	return n
}

func decodePSet(node *yaml.Node, allowType bool) (*PSet, error) {
	node = resolveAlias(node)
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = resolveAlias(node.Content[0])
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.Wrapf(ErrInvalidDocument, "line %d: expected mapping", node.Line)
	}

	out := New("")
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, raw := node.Content[i], resolveAlias(node.Content[i+1])
		if key.Value == TypeKey && allowType && raw.Kind == yaml.ScalarNode && raw.ShortTag() == "!!str" {
			out.typ = raw.Value

			continue
		}
		if out.Has(key.Value) {
			return nil, errors.Wrapf(ErrDuplicateParameter, "line %d: %s", key.Line, key.Value)
		}
		v, err := decodeValue(raw)
		if err != nil {
			return nil, errors.Wrap(err, key.Value)
		}
		out.keys = append(out.keys, key.Value)
		out.values[key.Value] = v
	}

	return out, nil
}

func decodeValue(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.MappingNode:
		nested, err := decodePSet(n, n.Tag == tagPlugin)
		if err != nil {
			return Value{}, err
		}

		return Nested(nested), nil
	case yaml.SequenceNode:
		return decodeList(n)
	case yaml.ScalarNode:
		return decodeScalar(n)
	default:
		return Value{}, errors.Wrapf(ErrInvalidDocument, "line %d: unsupported node", n.Line)
	}
}

func decodeScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case tagInputTag:
		return Tag(n.Value), nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return Value{}, errors.Wrapf(ErrInvalidDocument, "line %d: %v", n.Line, err)
		}

		return Int(i), nil
	case "!!float":
		var d float64
		err := n.Decode(&d)
		if err != nil {
			return Value{}, errors.Wrapf(ErrInvalidDocument, "line %d: %v", n.Line, err)
		}

		return Double(d), nil
	case "!!bool":
		var b bool
		err := n.Decode(&b)
		if err != nil {
			return Value{}, errors.Wrapf(ErrInvalidDocument, "line %d: %v", n.Line, err)
		}

		return Bool(b), nil
	case "!!null":
		return String(""), nil
	default:
		return String(n.Value), nil
	}
}

func decodeList(n *yaml.Node) (Value, error) {
	doubles := n.Tag == tagDoubleList
	if n.Tag != tagStringList && !doubles && len(n.Content) > 0 {
		first := resolveAlias(n.Content[0])
		doubles = first.ShortTag() == "!!float" || first.ShortTag() == "!!int"
	}

	if doubles {
		list := make([]float64, 0, len(n.Content))
		for _, item := range n.Content {
			var d float64
			err := resolveAlias(item).Decode(&d)
			if err != nil {
				return Value{}, errors.Wrapf(ErrInvalidDocument, "line %d: %v", item.Line, err)
			}
			list = append(list, d)
		}

		return Doubles(list...), nil
	}

	list := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.ScalarNode {
			return Value{}, errors.Wrapf(ErrInvalidDocument, "line %d: expected scalar list item", item.Line)
		}
		list = append(list, item.Value)
	}

	return Strings(list...), nil
}
