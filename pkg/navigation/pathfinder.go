package navigation

import "container/heap"

// SearchStats counts the work done by one shortest-path search.
type SearchStats struct {
	Settled int // nodes popped and finalized
	Relaxed int // edges examined
}

// queueItem is a (distance, node) entry in the search frontier.
type queueItem struct {
	dist int
	id   string
}

// frontier implements a min-heap ordered by distance, then node id.
type frontier []queueItem

func (h frontier) Len() int { return len(h) }
func (h frontier) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].id < h[j].id
}
func (h frontier) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *frontier) Push(x any) {
	*h = append(*h, x.(queueItem))
}

func (h *frontier) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ShortestPath runs Dijkstra from start to dest over g. Nodes in restricted are never used
// as waypoints, though dest itself is always reachable. The search stops as soon as dest
// is settled. It returns the node ids along the path and its total weight; ok is false
// when either endpoint is unknown or dest cannot be reached.
func ShortestPath(g *Graph, start, dest string, restricted map[string]struct{}) (path []string, dist int, stats SearchStats, ok bool) {
	if !g.Has(start) || !g.Has(dest) {
		return nil, 0, stats, false
	}
	if start == dest {
		stats.Settled = 1
		return []string{start}, 0, stats, true
	}

	best := map[string]int{start: 0}
	prev := make(map[string]string)
	settled := make(map[string]bool)

	h := &frontier{{dist: 0, id: start}}
	for h.Len() > 0 {
		cur := heap.Pop(h).(queueItem)
		if settled[cur.id] {
			continue
		}
		settled[cur.id] = true
		stats.Settled++

		if cur.id == dest {
			return reconstruct(prev, start, dest), cur.dist, stats, true
		}

		for _, e := range g.Neighbors(cur.id) {
			stats.Relaxed++
			if settled[e.To] {
				continue
			}
			if _, blocked := restricted[e.To]; blocked && e.To != dest {
				continue
			}
			nd := cur.dist + e.Weight
			if d, seen := best[e.To]; seen && nd >= d {
				continue
			}
			best[e.To] = nd
			prev[e.To] = cur.id
			heap.Push(h, queueItem{dist: nd, id: e.To})
		}
	}

	return nil, 0, stats, false
}

// reconstruct walks predecessor links back from dest.
func reconstruct(prev map[string]string, start, dest string) []string {
	var path []string
	for id := dest; ; id = prev[id] {
		path = append(path, id)
		if id == start {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
