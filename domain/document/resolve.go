package document

// Resolve evaluates a path expression against the document rooted at
// *root and returns every matched slot in canonical order: pre-order
// from the root outward, object members in lexical key order, array
// elements in ascending index order. An expression that matches nothing
// returns an empty slice; missing containers are never created.
func Resolve(root *any, p Path) []Slot {
	slots := []Slot{RootSlot(root)}
	for _, seg := range p.segments {
		var next []Slot
		for _, s := range slots {
			next = appendMatches(next, s, seg)
		}
		if len(next) == 0 {
			return nil
		}
		slots = next
	}
	return slots
}

func appendMatches(out []Slot, s Slot, seg segment) []Slot {
	switch seg.kind {
	case segChild:
		if obj, ok := s.Get().(map[string]any); ok {
			if _, exists := obj[seg.name]; exists {
				out = append(out, memberSlot(obj, seg.name))
			}
		}

	case segIndex:
		if arr, ok := s.Get().([]any); ok && seg.index < len(arr) {
			out = append(out, elementSlot(arr, seg.index))
		}

	case segWildcard:
		switch v := s.Get().(type) {
		case map[string]any:
			for _, k := range sortedKeys(v) {
				out = append(out, memberSlot(v, k))
			}
		case []any:
			for i := range v {
				out = append(out, elementSlot(v, i))
			}
		}

	case segRecursive:
		out = appendRecursive(out, s, seg.name)

	case segFilter:
		switch v := s.Get().(type) {
		case []any:
			for i, el := range v {
				if filterMatches(el, seg) {
					out = append(out, elementSlot(v, i))
				}
			}
		case map[string]any:
			for _, k := range sortedKeys(v) {
				if filterMatches(v[k], seg) {
					out = append(out, memberSlot(v, k))
				}
			}
		}
	}
	return out
}

// appendRecursive walks the subtree under s in pre-order and collects
// every member slot whose name matches (every member and element slot
// when name is "*"). A matched node's own subtree is still descended
// into, so nested occurrences at any depth are found.
func appendRecursive(out []Slot, s Slot, name string) []Slot {
	switch v := s.Get().(type) {
	case map[string]any:
		for _, k := range sortedKeys(v) {
			child := memberSlot(v, k)
			if name == "*" || k == name {
				out = append(out, child)
			}
			out = appendRecursive(out, child, name)
		}
	case []any:
		for i := range v {
			child := elementSlot(v, i)
			if name == "*" {
				out = append(out, child)
			}
			out = appendRecursive(out, child, name)
		}
	}
	return out
}

// filterMatches reports whether el is an object whose field satisfies
// the filter predicate. Cross-category comparisons are undefined and
// never match, for == and != alike.
func filterMatches(el any, seg segment) bool {
	obj, ok := el.(map[string]any)
	if !ok {
		return false
	}
	fv, exists := obj[seg.field]
	if !exists {
		return false
	}
	eq, comparable := Equal(fv, seg.literal)
	if !comparable {
		return false
	}
	if seg.negate {
		return !eq
	}
	return eq
}
