package octree

// Stats summarizes the shape of a tree.
type Stats struct {
	Items    int
	Nodes    int
	Branches int
	// Overflow counts items stored at the root because they do not fit the world box.
	Overflow int
	MaxDepth int
	// Allocated counts live arena slots and always equals Nodes.
	Allocated int
}

// Stats walks the whole tree and reports its shape.
func (t *Octree[K]) Stats() Stats {
	root := t.nodes[rootID]
	s := Stats{
		Nodes:     1,
		MaxDepth:  1,
		Allocated: len(t.nodes) - len(t.free),
	}
	if root.isBranch {
		s.Branches++
	}

	it := t.DebugItems()
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		s.MaxDepth = max(s.MaxDepth, item.Depth)
		switch item.Kind {
		case DebugNode:
			s.Nodes++
			if item.IsBranch {
				s.Branches++
			}
		case DebugLeaf:
			s.Items++
			if item.Depth == 1 && !root.bb.Contains(item.BB) {
				s.Overflow++
			}
		}
	}
	return s
}
