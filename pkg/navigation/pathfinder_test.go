package navigation

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// newTestGraph builds a single-floor graph with nodes n0..n(size-1).
func newTestGraph(t testing.TB, size int, edges [][3]int) *Graph {
	t.Helper()
	g := &Graph{
		nodes:     make(map[string]*Node),
		adjacency: make(map[string][]Edge),
	}
	for i := 0; i < size; i++ {
		id := fmt.Sprintf("n%d", i)
		g.nodes[id] = &Node{ID: id, Name: id, Floor: "Ground"}
		g.order = append(g.order, id)
	}
	for _, e := range edges {
		if err := g.addEdge(fmt.Sprintf("n%d", e[0]), fmt.Sprintf("n%d", e[1]), e[2]); err != nil {
			t.Fatalf("addEdge failed: %v", err)
		}
	}
	return g
}

// decodeEdges turns generated integers into edges over size nodes with weights 1..5.
func decodeEdges(size int, raw []int) [][3]int {
	edges := make([][3]int, 0, len(raw))
	for _, x := range raw {
		u := x % size
		v := (x / size) % size
		if u == v {
			continue
		}
		w := 1 + (x/(size*size))%5
		edges = append(edges, [3]int{u, v, w})
	}
	return edges
}

// bruteForce enumerates every simple path and returns the cheapest distance.
// Restricted nodes may only appear as the destination.
func bruteForce(g *Graph, start, dest string, restricted map[string]struct{}) (int, bool) {
	best, found := math.MaxInt, false
	visited := map[string]bool{start: true}

	var walk func(id string, dist int)
	walk = func(id string, dist int) {
		if id == dest {
			if dist < best {
				best, found = dist, true
			}
			return
		}
		for _, e := range g.Neighbors(id) {
			if visited[e.To] {
				continue
			}
			if _, blocked := restricted[e.To]; blocked && e.To != dest {
				continue
			}
			visited[e.To] = true
			walk(e.To, dist+e.Weight)
			visited[e.To] = false
		}
	}
	walk(start, 0)
	return best, found
}

func pathWeight(g *Graph, path []string) int {
	total := 0
	for i := 1; i < len(path); i++ {
		w, _ := g.Weight(path[i-1], path[i])
		total += w
	}
	return total
}

func TestShortestPath_Chain(t *testing.T) {
	g := newTestGraph(t, 3, [][3]int{{0, 1, 1}, {1, 2, 1}})

	path, dist, _, ok := ShortestPath(g, "n0", "n2", nil)
	if !ok {
		t.Fatal("Expected a path")
	}
	if want := []string{"n0", "n1", "n2"}; !reflect.DeepEqual(path, want) {
		t.Errorf("Path = %v, want %v", path, want)
	}
	if dist != 2 {
		t.Errorf("Distance = %d, want 2", dist)
	}

	nodes := []*Node{g.nodes["n0"], g.nodes["n1"], g.nodes["n2"]}
	result := Annotate(nodes, dist, ModeStandard)
	if result.FloorChanges != 0 {
		t.Errorf("FloorChanges = %d, want 0", result.FloorChanges)
	}
	if result.EstimatedTimeMinutes != 1.0 {
		t.Errorf("EstimatedTimeMinutes = %v, want 1.0", result.EstimatedTimeMinutes)
	}
}

func TestShortestPath_PrefersCheaperDetour(t *testing.T) {
	// n0-n3 direct costs 5, the detour through n1 and n2 costs 3.
	g := newTestGraph(t, 4, [][3]int{{0, 3, 5}, {0, 1, 1}, {1, 2, 1}, {2, 3, 1}})

	path, dist, stats, ok := ShortestPath(g, "n0", "n3", nil)
	if !ok || dist != 3 {
		t.Fatalf("ShortestPath = %v, %d, %v; want distance 3", path, dist, ok)
	}
	if len(path) != 4 {
		t.Errorf("Path = %v, want the detour", path)
	}
	if stats.Settled == 0 || stats.Relaxed == 0 {
		t.Errorf("Expected search work to be counted, got %+v", stats)
	}
}

func TestShortestPath_Restrictions(t *testing.T) {
	g := newTestGraph(t, 4, [][3]int{{0, 1, 1}, {1, 2, 1}, {0, 3, 4}, {3, 2, 4}})

	restricted := map[string]struct{}{"n1": {}}
	path, dist, _, ok := ShortestPath(g, "n0", "n2", restricted)
	if !ok || dist != 8 {
		t.Fatalf("Expected detour of 8 around restricted n1, got %v, %d, %v", path, dist, ok)
	}
	for _, id := range path {
		if id == "n1" {
			t.Errorf("Path %v crosses restricted n1", path)
		}
	}

	// A restricted destination is still reachable.
	path, dist, _, ok = ShortestPath(g, "n0", "n1", restricted)
	if !ok || dist != 1 || !reflect.DeepEqual(path, []string{"n0", "n1"}) {
		t.Errorf("Expected direct path to restricted destination, got %v, %d, %v", path, dist, ok)
	}

	// Restricting every way through leaves no path.
	restricted["n3"] = struct{}{}
	if _, _, _, ok := ShortestPath(g, "n0", "n2", restricted); ok {
		t.Error("Expected no path when all waypoints are restricted")
	}
}

func TestShortestPath_Endpoints(t *testing.T) {
	g := newTestGraph(t, 3, [][3]int{{0, 1, 1}})

	path, dist, _, ok := ShortestPath(g, "n1", "n1", nil)
	if !ok || dist != 0 || !reflect.DeepEqual(path, []string{"n1"}) {
		t.Errorf("Same-node search = %v, %d, %v", path, dist, ok)
	}

	if _, _, _, ok := ShortestPath(g, "n0", "n2", nil); ok {
		t.Error("Expected disconnected n2 to be unreachable")
	}
	if _, _, _, ok := ShortestPath(g, "n0", "ghost", nil); ok {
		t.Error("Expected unknown destination to fail")
	}
	if _, _, _, ok := ShortestPath(g, "ghost", "n0", nil); ok {
		t.Error("Expected unknown start to fail")
	}
}

func TestEstimateMinutes(t *testing.T) {
	tests := []struct {
		distance, floors int
		want             float64
	}{
		{0, 0, 0},
		{2, 0, 1.0},
		{7, 2, 5.5},
		{3, 1, 2.5},
		{11, 3, 8.5},
	}
	for _, tt := range tests {
		if got := EstimateMinutes(tt.distance, tt.floors); got != tt.want {
			t.Errorf("EstimateMinutes(%d, %d) = %v, want %v", tt.distance, tt.floors, got, tt.want)
		}
	}
}

func TestShortestPathProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("distance equals brute-force minimum", prop.ForAll(
		func(size int, raw []int, from, to int) bool {
			g := newTestGraph(t, size, decodeEdges(size, raw))
			start, dest := fmt.Sprintf("n%d", from%size), fmt.Sprintf("n%d", to%size)

			path, dist, _, ok := ShortestPath(g, start, dest, nil)
			want, reachable := bruteForce(g, start, dest, nil)
			if ok != reachable {
				return false
			}
			if !ok {
				return true
			}
			return dist == want && pathWeight(g, path) == dist &&
				path[0] == start && path[len(path)-1] == dest
		},
		gen.IntRange(2, 7),
		gen.SliceOfN(12, gen.IntRange(0, 999)),
		gen.IntRange(0, 6),
		gen.IntRange(0, 6),
	))

	properties.Property("edges are symmetric", prop.ForAll(
		func(size int, raw []int) bool {
			g := newTestGraph(t, size, decodeEdges(size, raw))
			type arc struct {
				from, to string
				w        int
			}
			counts := make(map[arc]int)
			for _, n := range g.Nodes() {
				for _, e := range g.Neighbors(n.ID) {
					counts[arc{n.ID, e.To, e.Weight}]++
				}
			}
			for a, c := range counts {
				if counts[arc{a.to, a.from, a.w}] != c {
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 7),
		gen.SliceOf(gen.IntRange(0, 999)),
	))

	properties.Property("restricting a waypoint then lifting it restores the route", prop.ForAll(
		func(size int, raw []int, from, to, blocked int) bool {
			g := newTestGraph(t, size, decodeEdges(size, raw))
			start, dest := fmt.Sprintf("n%d", from%size), fmt.Sprintf("n%d", to%size)
			r := NewRestrictions()

			before, beforeDist, _, beforeOK := ShortestPath(g, start, dest, r.Snapshot())

			id := fmt.Sprintf("n%d", blocked%size)
			r.Set(id, true)
			during, duringDist, _, duringOK := ShortestPath(g, start, dest, r.Snapshot())
			want, reachable := bruteForce(g, start, dest, r.Snapshot())
			if duringOK != reachable || (duringOK && duringDist != want) {
				return false
			}
			if duringOK && id != dest {
				for _, step := range during[1:] {
					if step == id {
						return false
					}
				}
			}

			r.Set(id, false)
			after, afterDist, _, afterOK := ShortestPath(g, start, dest, r.Snapshot())
			return afterOK == beforeOK && afterDist == beforeDist && reflect.DeepEqual(after, before)
		},
		gen.IntRange(3, 7),
		gen.SliceOfN(14, gen.IntRange(0, 999)),
		gen.IntRange(0, 6),
		gen.IntRange(0, 6),
		gen.IntRange(0, 6),
	))

	properties.Property("time estimate is deterministic", prop.ForAll(
		func(distance, floors int) bool {
			first := EstimateMinutes(distance, floors)
			want := math.Round((0.5*float64(distance)+float64(floors))*10) / 10
			return first == want && EstimateMinutes(distance, floors) == first
		},
		gen.IntRange(0, 10000),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
