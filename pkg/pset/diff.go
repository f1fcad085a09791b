package pset

// Diff lists the dotted paths where b departs from a: changed values,
// parameters present on one side only, and "type" when the plugin type
// differs. Nested sets are compared recursively. Paths of a come first, in
// declaration order, followed by the parameters only b has.
func Diff(a, b *PSet) []string {
	var paths []string
	diff("", a, b, &paths)

	return paths
}

func diff(prefix string, a, b *PSet, paths *[]string) {
	if a.Type() != b.Type() {
		*paths = append(*paths, joinPath(prefix, TypeKey))
	}

	for _, name := range a.Keys() {
		av, _ := a.Get(name)
		bv, ok := b.Get(name)
		path := joinPath(prefix, name)
		switch {
		case !ok:
			*paths = append(*paths, path)
		case av.Kind() == KindPSet && bv.Kind() == KindPSet:
			diff(path, av.PSet(), bv.PSet(), paths)
		case !av.Equal(bv):
			*paths = append(*paths, path)
		}
	}

	for _, name := range b.Keys() {
		if !a.Has(name) {
			*paths = append(*paths, joinPath(prefix, name))
		}
	}
}
