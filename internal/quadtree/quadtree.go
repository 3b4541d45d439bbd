// Package quadtree is a region quadtree over bounded, identity-bearing items.
//
// The tree stores keys, not items. Each key is indexed with the bounds given
// at insertion and remembered alongside an insertion sequence number, which
// is the draw order used to rank results. Callers that mutate an item's
// geometry must call Update; there is no automatic synchronisation.
package quadtree

import (
	"cmp"
	"slices"

	"github.com/inamate/sketchboard/internal/geom"
)

const (
	DefaultCapacity = 10
	DefaultMaxDepth = 5
)

// Option configures a Tree.
type Option func(*options)

type options struct {
	capacity int
	maxDepth int
}

// WithCapacity sets how many items a leaf holds before it splits.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithMaxDepth sets the depth below which leaves may split.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxDepth = n
		}
	}
}

// Entry pairs a key with the bounds to index it under.
type Entry[K comparable] struct {
	Key    K
	Bounds geom.Rect
}

type item struct {
	bounds  geom.Rect
	seq     uint64
	indexed bool
}

// Tree is a quadtree keyed by K. It is not safe for concurrent use.
type Tree[K comparable] struct {
	root     *node[K]
	capacity int
	maxDepth int
	items    map[K]item
	seq      uint64
}

type node[K comparable] struct {
	bounds   geom.Rect
	depth    int
	keys     []K
	children []*node[K] // nil for a leaf, otherwise exactly four
}

// New creates an empty tree covering bounds.
func New[K comparable](bounds geom.Rect, opts ...Option) *Tree[K] {
	o := options{capacity: DefaultCapacity, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return &Tree[K]{
		root:     &node[K]{bounds: bounds},
		capacity: o.capacity,
		maxDepth: o.maxDepth,
		items:    make(map[K]item),
	}
}

// Bounds returns the universe covered by the tree.
func (t *Tree[K]) Bounds() geom.Rect {
	return t.root.bounds
}

// Len returns the number of indexed keys.
func (t *Tree[K]) Len() int {
	n := 0
	for _, it := range t.items {
		if it.indexed {
			n++
		}
	}
	return n
}

// Contains reports whether key is currently indexed.
func (t *Tree[K]) Contains(key K) bool {
	return t.items[key].indexed
}

// Insert indexes key under bounds. A key that is already known is replaced
// and keeps its draw position. Bounds that miss the tree's universe leave the
// key unindexed and Insert returns false.
func (t *Tree[K]) Insert(key K, bounds geom.Rect) bool {
	it, known := t.items[key]
	if known {
		if it.indexed {
			t.root.remove(key, it.bounds)
		}
	} else {
		t.seq++
		it.seq = t.seq
	}

	it.bounds = bounds
	it.indexed = geom.RectsIntersect(t.root.bounds, bounds)
	t.items[key] = it
	if !it.indexed {
		return false
	}

	t.root.insert(t, key, bounds)
	return true
}

// Update re-indexes key after its geometry changed. It is Remove followed by
// Insert, except that the key keeps its draw position.
func (t *Tree[K]) Update(key K, bounds geom.Rect) bool {
	return t.Insert(key, bounds)
}

// Remove drops key from every leaf that references it. It reports whether
// any leaf held the key. Emptied leaves are not merged.
func (t *Tree[K]) Remove(key K) bool {
	it, ok := t.items[key]
	if !ok {
		return false
	}
	delete(t.items, key)
	if !it.indexed {
		return false
	}
	return t.root.remove(key, it.bounds)
}

// Query returns the keys whose bounds intersect region, each once, in draw
// order.
func (t *Tree[K]) Query(region geom.Rect) []K {
	seen := make(map[K]struct{})
	var found []K
	t.root.query(region, func(key K) {
		if _, dup := seen[key]; dup {
			return
		}
		if !geom.RectsIntersect(t.items[key].bounds, region) {
			return
		}
		seen[key] = struct{}{}
		found = append(found, key)
	})
	t.sortByDrawOrder(found)
	return found
}

// QueryPoint returns the topmost key whose bounds contain p and for which hit
// reports a precise hit. Candidates are tried from the last drawn backwards
// and the search stops at the first hit.
func (t *Tree[K]) QueryPoint(p geom.Point, hit func(K) bool) (K, bool) {
	seen := make(map[K]struct{})
	var candidates []K
	t.root.queryPoint(p, func(key K) {
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		if geom.PointInRect(p, t.items[key].bounds) {
			candidates = append(candidates, key)
		}
	})
	t.sortByDrawOrder(candidates)

	for i := len(candidates) - 1; i >= 0; i-- {
		if hit == nil || hit(candidates[i]) {
			return candidates[i], true
		}
	}
	var zero K
	return zero, false
}

// Clear removes every key and collapses the tree to a single leaf.
func (t *Tree[K]) Clear() {
	t.root = &node[K]{bounds: t.root.bounds}
	t.items = make(map[K]item)
	t.seq = 0
}

// Rebuild resets the tree to cover bounds and indexes entries in order.
func (t *Tree[K]) Rebuild(bounds geom.Rect, entries []Entry[K]) {
	t.root = &node[K]{bounds: bounds}
	t.items = make(map[K]item, len(entries))
	t.seq = 0
	for _, e := range entries {
		t.Insert(e.Key, e.Bounds)
	}
}

func (t *Tree[K]) sortByDrawOrder(keys []K) {
	slices.SortFunc(keys, func(a, b K) int {
		return cmp.Compare(t.items[a].seq, t.items[b].seq)
	})
}

func (n *node[K]) insert(t *Tree[K], key K, bounds geom.Rect) {
	if n.children != nil {
		for _, child := range n.children {
			if geom.RectsIntersect(child.bounds, bounds) {
				child.insert(t, key, bounds)
			}
		}
		return
	}

	n.keys = append(n.keys, key)
	if len(n.keys) > t.capacity && n.depth < t.maxDepth {
		n.split(t)
	}
}

// split turns a leaf into four equal quadrants and redistributes all held
// keys into them.
func (n *node[K]) split(t *Tree[K]) {
	halfW := n.bounds.Width / 2
	halfH := n.bounds.Height / 2
	x, y := n.bounds.X, n.bounds.Y
	depth := n.depth + 1

	n.children = []*node[K]{
		{bounds: geom.Rect{X: x, Y: y, Width: halfW, Height: halfH}, depth: depth},
		{bounds: geom.Rect{X: x + halfW, Y: y, Width: halfW, Height: halfH}, depth: depth},
		{bounds: geom.Rect{X: x, Y: y + halfH, Width: halfW, Height: halfH}, depth: depth},
		{bounds: geom.Rect{X: x + halfW, Y: y + halfH, Width: halfW, Height: halfH}, depth: depth},
	}

	held := n.keys
	n.keys = nil
	for _, key := range held {
		n.insert(t, key, t.items[key].bounds)
	}
}

func (n *node[K]) remove(key K, bounds geom.Rect) bool {
	if !geom.RectsIntersect(n.bounds, bounds) {
		return false
	}
	if n.children != nil {
		removed := false
		for _, child := range n.children {
			if child.remove(key, bounds) {
				removed = true
			}
		}
		return removed
	}

	i := slices.Index(n.keys, key)
	if i < 0 {
		return false
	}
	n.keys = slices.Delete(n.keys, i, i+1)
	return true
}

func (n *node[K]) query(region geom.Rect, visit func(K)) {
	if !geom.RectsIntersect(n.bounds, region) {
		return
	}
	for _, key := range n.keys {
		visit(key)
	}
	for _, child := range n.children {
		child.query(region, visit)
	}
}

func (n *node[K]) queryPoint(p geom.Point, visit func(K)) {
	if !geom.PointInRect(p, n.bounds) {
		return
	}
	for i := len(n.keys) - 1; i >= 0; i-- {
		visit(n.keys[i])
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		n.children[i].queryPoint(p, visit)
	}
}
