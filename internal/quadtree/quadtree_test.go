package quadtree

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/inamate/sketchboard/internal/geom"
)

var universe = geom.Rect{X: 0, Y: 0, Width: 1000, Height: 1000}

func TestScenarioThreeRects(t *testing.T) {
	tree := New[string](universe)
	tree.Insert("a", geom.Rect{X: 0, Y: 0, Width: 10, Height: 10})
	tree.Insert("b", geom.Rect{X: 5, Y: 5, Width: 10, Height: 10})
	tree.Insert("c", geom.Rect{X: 100, Y: 100, Width: 10, Height: 10})

	got := tree.Query(geom.Rect{X: 0, Y: 0, Width: 20, Height: 20})
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Query = %v, want [a b]", got)
	}

	key, ok := tree.QueryPoint(geom.Pt(7, 7), nil)
	if !ok || key != "b" {
		t.Errorf("QueryPoint = %q, %v; want b", key, ok)
	}
}

func TestQueryPointTopmost(t *testing.T) {
	tree := New[int](universe, WithCapacity(1))
	for i, r := range []geom.Rect{
		{X: 0, Y: 0, Width: 50, Height: 50},
		{X: 10, Y: 10, Width: 50, Height: 50},
		{X: 20, Y: 20, Width: 50, Height: 50},
	} {
		tree.Insert(i, r)
	}

	key, ok := tree.QueryPoint(geom.Pt(30, 30), nil)
	if !ok || key != 2 {
		t.Fatalf("QueryPoint = %d, %v; want 2", key, ok)
	}

	// A precise hit test that rejects the topmost falls through to the next.
	key, ok = tree.QueryPoint(geom.Pt(30, 30), func(k int) bool { return k != 2 })
	if !ok || key != 1 {
		t.Fatalf("QueryPoint with filter = %d, %v; want 1", key, ok)
	}

	if _, ok := tree.QueryPoint(geom.Pt(30, 30), func(int) bool { return false }); ok {
		t.Fatal("QueryPoint found a key although hit rejected all")
	}
}

func TestUpdateKeepsDrawOrder(t *testing.T) {
	tree := New[string](universe, WithCapacity(2))
	tree.Insert("bottom", geom.Rect{X: 0, Y: 0, Width: 20, Height: 20})
	tree.Insert("top", geom.Rect{X: 5, Y: 5, Width: 20, Height: 20})

	// Moving the bottom item must not lift it above the top one.
	tree.Update("bottom", geom.Rect{X: 1, Y: 1, Width: 20, Height: 20})

	key, _ := tree.QueryPoint(geom.Pt(10, 10), nil)
	if key != "top" {
		t.Errorf("topmost after update = %q, want top", key)
	}
	got := tree.Query(universe)
	if !slices.Equal(got, []string{"bottom", "top"}) {
		t.Errorf("draw order after update = %v", got)
	}
}

func TestUpdateIdempotent(t *testing.T) {
	tree := New[int](universe, WithCapacity(3))
	rng := rand.New(rand.NewPCG(1, 2))
	bounds := randomRects(rng, 200)
	for i, b := range bounds {
		tree.Insert(i, b)
	}

	region := geom.Rect{X: 200, Y: 200, Width: 300, Height: 300}
	before := tree.Query(region)
	for i, b := range bounds {
		tree.Update(i, b)
	}
	after := tree.Query(region)

	if !slices.Equal(before, after) {
		t.Errorf("Query changed after no-op updates:\nbefore %v\nafter  %v", before, after)
	}
}

func TestRemoveThenQuery(t *testing.T) {
	tree := New[string](universe, WithCapacity(1))
	r := geom.Rect{X: 490, Y: 490, Width: 20, Height: 20} // straddles the first split
	tree.Insert("x", r)
	tree.Insert("y", geom.Rect{X: 0, Y: 0, Width: 5, Height: 5})
	tree.Insert("z", geom.Rect{X: 900, Y: 900, Width: 5, Height: 5})

	if !tree.Remove("x") {
		t.Fatal("Remove(x) = false")
	}
	if tree.Remove("x") {
		t.Fatal("second Remove(x) = true")
	}
	if got := tree.Query(r); slices.Contains(got, "x") {
		t.Errorf("Query after remove returned x: %v", got)
	}
	if _, ok := tree.QueryPoint(geom.Pt(500, 500), nil); ok {
		t.Error("QueryPoint after remove found a key")
	}
	if tree.Contains("x") {
		t.Error("Contains(x) after remove")
	}
}

func TestQueryCompleteness(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	tree := New[int](universe)
	bounds := randomRects(rng, 2000)
	for i, b := range bounds {
		tree.Insert(i, b)
	}

	for q := 0; q < 200; q++ {
		region := geom.Rect{
			X:      rng.Float64() * 1000,
			Y:      rng.Float64() * 1000,
			Width:  rng.Float64() * 300,
			Height: rng.Float64() * 300,
		}
		var want []int
		for i, b := range bounds {
			if geom.RectsIntersect(b, region) {
				want = append(want, i)
			}
		}
		got := tree.Query(region)
		if !slices.Equal(got, want) {
			t.Fatalf("Query(%v): got %d keys, want %d", region, len(got), len(want))
		}
	}

	s := tree.Stats()
	if s.Items != len(bounds) {
		t.Errorf("Stats.Items = %d, want %d", s.Items, len(bounds))
	}
	if s.MaxDepth > DefaultMaxDepth {
		t.Errorf("Stats.MaxDepth = %d exceeds %d", s.MaxDepth, DefaultMaxDepth)
	}
	if s.Refs < s.Items {
		t.Errorf("Stats.Refs = %d < Items = %d", s.Refs, s.Items)
	}
}

func TestInsertOutsideUniverse(t *testing.T) {
	tree := New[string](universe)
	if tree.Insert("far", geom.Rect{X: 5000, Y: 5000, Width: 10, Height: 10}) {
		t.Fatal("Insert outside universe = true")
	}
	if tree.Len() != 0 {
		t.Errorf("Len = %d, want 0", tree.Len())
	}
	if got := tree.Query(geom.Rect{X: 4000, Y: 4000, Width: 2000, Height: 2000}); len(got) != 0 {
		t.Errorf("Query = %v, want empty", got)
	}

	// Growing the universe picks it up on rebuild.
	tree.Rebuild(geom.Rect{X: 0, Y: 0, Width: 10000, Height: 10000}, []Entry[string]{
		{Key: "far", Bounds: geom.Rect{X: 5000, Y: 5000, Width: 10, Height: 10}},
	})
	if !tree.Contains("far") {
		t.Error("far not indexed after Rebuild")
	}
}

func TestMaxDepthStopsSplitting(t *testing.T) {
	tree := New[int](universe, WithCapacity(2), WithMaxDepth(3))
	for i := 0; i < 50; i++ {
		tree.Insert(i, geom.Rect{X: 1, Y: 1, Width: 1, Height: 1})
	}
	s := tree.Stats()
	if s.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", s.MaxDepth)
	}
	if got := tree.Query(geom.Rect{X: 0, Y: 0, Width: 3, Height: 3}); len(got) != 50 {
		t.Errorf("Query returned %d keys, want 50", len(got))
	}
}

func TestClear(t *testing.T) {
	tree := New[int](universe, WithCapacity(1))
	for i := 0; i < 10; i++ {
		tree.Insert(i, geom.Rect{X: float64(i * 50), Y: 10, Width: 5, Height: 5})
	}
	tree.Clear()
	if tree.Len() != 0 {
		t.Errorf("Len after Clear = %d", tree.Len())
	}
	if s := tree.Stats(); s.Nodes != 1 {
		t.Errorf("Nodes after Clear = %d, want 1", s.Nodes)
	}
	if tree.Bounds() != universe {
		t.Errorf("Bounds after Clear = %v", tree.Bounds())
	}
}

func randomRects(rng *rand.Rand, n int) []geom.Rect {
	out := make([]geom.Rect, n)
	for i := range out {
		out[i] = geom.Rect{
			X:      rng.Float64() * 980,
			Y:      rng.Float64() * 980,
			Width:  1 + rng.Float64()*60,
			Height: 1 + rng.Float64()*60,
		}
	}
	return out
}

func BenchmarkQuery(b *testing.B) {
	rng := rand.New(rand.NewPCG(3, 4))
	tree := New[int](universe)
	for i, r := range randomRects(rng, 5000) {
		tree.Insert(i, r)
	}
	region := geom.Rect{X: 400, Y: 400, Width: 100, Height: 100}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Query(region)
	}
}
