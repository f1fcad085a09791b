package pset

import (
	"strconv"
	"strings"
)

// Kind is the type of a parameter value.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindDouble
	KindBool
	KindInputTag
	KindStringList
	KindDoubleList
	KindPSet
)

var kindNames = map[Kind]string{
	KindInvalid:    "invalid",
	KindString:     "string",
	KindInt:        "int",
	KindDouble:     "double",
	KindBool:       "bool",
	KindInputTag:   "InputTag",
	KindStringList: "vstring",
	KindDoubleList: "vdouble",
	KindPSet:       "PSet",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// InputTag names the output of another object: label, optional product
// instance and optional process name.
type InputTag struct {
	Label    string
	Instance string
	Process  string
}

// ParseInputTag parses the "label:instance:process" form.
func ParseInputTag(s string) InputTag {
	parts := strings.SplitN(s, ":", 3)
	tag := InputTag{Label: parts[0]}
	if len(parts) > 1 {
		tag.Instance = parts[1]
	}
	if len(parts) > 2 {
		tag.Process = parts[2]
	}

	return tag
}

func (t InputTag) String() string {
	switch {
	case t.Process != "":
		return t.Label + ":" + t.Instance + ":" + t.Process
	case t.Instance != "":
		return t.Label + ":" + t.Instance
	default:
		return t.Label
	}
}

// IsEmpty reports whether the tag points nowhere.
func (t InputTag) IsEmpty() bool {
	return t.Label == "" && t.Instance == "" && t.Process == ""
}

// Value is a single typed parameter value.
type Value struct {
	kind   Kind
	str    string
	num    int64
	dbl    float64
	flag   bool
	tag    InputTag
	strs   []string
	dbls   []float64
	nested *PSet
}

func String(s string) Value { return Value{kind: KindString, str: s} }

func Int(i int64) Value { return Value{kind: KindInt, num: i} }

func Double(d float64) Value { return Value{kind: KindDouble, dbl: d} }

func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Tag builds an input tag value from its "label:instance:process" form.
func Tag(s string) Value { return Value{kind: KindInputTag, tag: ParseInputTag(s)} }

func TagOf(tag InputTag) Value { return Value{kind: KindInputTag, tag: tag} }

func Strings(s ...string) Value {
	return Value{kind: KindStringList, strs: append([]string{}, s...)}
}

func Doubles(d ...float64) Value {
	return Value{kind: KindDoubleList, dbls: append([]float64{}, d...)}
}

// Nested wraps a parameter set so it can be used as a parameter value.
// A nil set is treated as an empty one.
func Nested(p *PSet) Value {
	if p == nil {
		p = New("")
	}

	return Value{kind: KindPSet, nested: p}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Str() string { return v.str }

func (v Value) Int() int64 { return v.num }

func (v Value) Double() float64 { return v.dbl }

func (v Value) Bool() bool { return v.flag }

func (v Value) Tag() InputTag { return v.tag }

func (v Value) Strings() []string { return append([]string{}, v.strs...) }

func (v Value) Doubles() []float64 { return append([]float64{}, v.dbls...) }

func (v Value) PSet() *PSet { return v.nested }

// Interface returns the plain Go value, mostly useful for printing.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindDouble:
		return v.dbl
	case KindBool:
		return v.flag
	case KindInputTag:
		return v.tag
	case KindStringList:
		return v.Strings()
	case KindDoubleList:
		return v.Doubles()
	case KindPSet:
		return v.nested
	default:
		return nil
	}
}

// Equal reports whether both values have the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindInt:
		return v.num == other.num
	case KindDouble:
		return v.dbl == other.dbl
	case KindBool:
		return v.flag == other.flag
	case KindInputTag:
		return v.tag == other.tag
	case KindStringList:
		if len(v.strs) != len(other.strs) {
			return false
		}
		for i := range v.strs {
			if v.strs[i] != other.strs[i] {
				return false
			}
		}

		return true
	case KindDoubleList:
		if len(v.dbls) != len(other.dbls) {
			return false
		}
		for i := range v.dbls {
			if v.dbls[i] != other.dbls[i] {
				return false
			}
		}

		return true
	case KindPSet:
		return v.nested.Equal(other.nested)
	default:
		return true
	}
}
