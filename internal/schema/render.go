package schema

// Row is one line of the schema tree projection, annotated for display.
// Depth is used purely for indentation: the root row has depth 0 and every
// recursion level (into an object field or an array's item schema) adds 1.
type Row struct {
	Label string
	Kind  Kind
	Path  string
	Depth int
}

// Walk traverses the schema in pre-order and calls visit for every node,
// one Row per node. The root row carries the given label; optional object
// fields get a "?" suffix on their key; array item rows are labeled "[]".
// Traversal stops early when visit returns false. Walk is stateless, so a
// caller can restart it at any time.
func Walk(s *Schema, label string, visit func(Row) bool) {
	walk(s, label, 0, visit)
}

func walk(s *Schema, label string, depth int, visit func(Row) bool) bool {
	if s == nil {
		return true
	}
	if !visit(Row{Label: label, Kind: s.kind, Path: s.path, Depth: depth}) {
		return false
	}
	for _, f := range s.fields {
		key := f.Key
		if f.Optional {
			key += "?"
		}
		if !walk(f.Schema, key, depth+1, visit) {
			return false
		}
	}
	if s.item != nil {
		if !walk(s.item, "[]", depth+1, visit) {
			return false
		}
	}
	return true
}

// Rows collects the full tree projection of the schema. The root is
// conventionally labeled "root".
func Rows(s *Schema, label string) []Row {
	var rows []Row
	Walk(s, label, func(r Row) bool {
		rows = append(rows, r)
		return true
	})
	return rows
}
