package quadtree

// Stats describes the shape of a tree. Refs counts stored key references,
// so Refs > Items means items straddle quadrant boundaries.
type Stats struct {
	Nodes    int `json:"nodes"`
	Leaves   int `json:"leaves"`
	Empty    int `json:"emptyLeaves"`
	MaxDepth int `json:"maxDepth"`
	Items    int `json:"items"`
	Refs     int `json:"refs"`
}

// Stats walks the tree. Many empty leaves after heavy removal indicate the
// tree would benefit from a Rebuild.
func (t *Tree[K]) Stats() Stats {
	s := Stats{Items: t.Len()}
	t.root.stats(&s)
	return s
}

func (n *node[K]) stats(s *Stats) {
	s.Nodes++
	s.MaxDepth = max(s.MaxDepth, n.depth)
	if n.children == nil {
		s.Leaves++
		s.Refs += len(n.keys)
		if len(n.keys) == 0 {
			s.Empty++
		}
		return
	}
	for _, child := range n.children {
		child.stats(s)
	}
}
