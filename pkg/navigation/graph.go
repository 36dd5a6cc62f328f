package navigation

import (
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-wayfinder/pkg/facility"
)

// Graph is an undirected weighted adjacency structure built once from a facility description.
// It is immutable after BuildGraph returns and safe for concurrent readers.
type Graph struct {
	mode      Mode
	nodes     map[string]*Node
	order     []string // node ids in load order
	adjacency map[string][]Edge
	edges     int
}

// BuildGraph creates one node per location, links consecutive corridor entries with weight 1,
// and installs only the vertical connectors that belong to mode.
func BuildGraph(desc *facility.Description, mode Mode) (*Graph, error) {
	if desc == nil || len(desc.Floors) == 0 {
		return nil, fmt.Errorf("%w: no floors", facility.ErrInvalidFacility)
	}

	g := &Graph{
		mode:      mode,
		nodes:     make(map[string]*Node),
		adjacency: make(map[string][]Edge),
	}

	endpoints := make(map[string]map[string]bool)
	for _, c := range desc.Connectors {
		for _, id := range []string{c.From, c.To} {
			if endpoints[id] == nil {
				endpoints[id] = make(map[string]bool)
			}
			endpoints[id][c.Kind] = true
		}
	}

	for _, key := range desc.FloorKeys() {
		floor := desc.Floors[key]
		for _, loc := range floor.Locations {
			if _, dup := g.nodes[loc.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate location %q", facility.ErrInvalidFacility, loc.ID)
			}
			g.nodes[loc.ID] = &Node{
				ID:          loc.ID,
				Name:        loc.Name,
				FullName:    loc.FullName,
				Description: loc.Description,
				Floor:       floor.Name,
				FloorKey:    key,
				Level:       floor.Level,
				Type:        loc.Type,
				Role:        roleOf(loc, endpoints[loc.ID]),
				Services:    loc.Services,
			}
			g.order = append(g.order, loc.ID)
		}
	}

	for _, key := range desc.FloorKeys() {
		for _, chain := range desc.Floors[key].Corridors {
			for i := 1; i < len(chain); i++ {
				if err := g.addEdge(chain[i-1], chain[i], 1); err != nil {
					return nil, err
				}
			}
		}
	}

	want := facility.KindStairs
	if mode == ModeAccessible {
		want = facility.KindElevator
	}
	for _, c := range desc.Connectors {
		if c.Kind != want {
			continue
		}
		if err := g.addEdge(c.From, c.To, c.Weight); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// addEdge inserts both directions of an undirected edge.
func (g *Graph) addEdge(from, to string, weight int) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("%w: edge endpoint %q", ErrUnknownNode, from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("%w: edge endpoint %q", ErrUnknownNode, to)
	}
	if weight <= 0 {
		return fmt.Errorf("%w: edge %s-%s has non-positive weight %d", facility.ErrInvalidFacility, from, to, weight)
	}

	g.adjacency[from] = append(g.adjacency[from], Edge{To: to, Weight: weight})
	g.adjacency[to] = append(g.adjacency[to], Edge{To: from, Weight: weight})
	g.edges++
	return nil
}

// Mode returns the vertical edge set the graph was built with.
func (g *Graph) Mode() Mode {
	return g.mode
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Has reports whether id is part of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Neighbors returns the outgoing edges of id. The slice must not be modified.
func (g *Graph) Neighbors(id string) []Edge {
	return g.adjacency[id]
}

// Nodes returns every node in load order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Weight returns the weight of the cheapest edge between from and to.
func (g *Graph) Weight(from, to string) (int, bool) {
	best, found := 0, false
	for _, e := range g.adjacency[from] {
		if e.To == to && (!found || e.Weight < best) {
			best, found = e.Weight, true
		}
	}
	return best, found
}

// VerticalEdges returns the edges joining nodes on different levels, each reported once.
func (g *Graph) VerticalEdges() [][2]string {
	var out [][2]string
	for _, id := range g.order {
		from := g.nodes[id]
		for _, e := range g.adjacency[id] {
			to := g.nodes[e.To]
			if from.Level != to.Level && id < e.To {
				out = append(out, [2]string{id, e.To})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}
