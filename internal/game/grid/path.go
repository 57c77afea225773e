package grid

import "container/heap"

// FindPath returns the step-by-step path from start to goal inclusive, or nil
// when no path exists. The search is A* over 4-neighbors with a Manhattan
// heuristic and step-count cost; ties break by insertion order, so equal-cost
// layouts always produce the same path.
//
// The goal tile must be enterable. Occupied and impassable tiles are never
// entered; start occupancy is ignored so a unit can path out of its own tile.
func (g *Grid) FindPath(start, goal Point) []Point {
	if !g.Passable(goal) {
		return nil
	}
	counter := 0
	frontier := &nodeHeap{}
	heap.Init(frontier)
	heap.Push(frontier, &node{priority: 0, order: counter, at: start, path: []Point{start}})
	visited := make(map[Point]bool)
	for frontier.Len() > 0 {
		cur := heap.Pop(frontier).(*node)
		if visited[cur.at] {
			continue
		}
		visited[cur.at] = true
		if cur.at == goal {
			return cur.path
		}
		for _, n := range g.Neighbors(cur.at) {
			if visited[n] || !g.Passable(n) {
				continue
			}
			counter++
			path := make([]Point, len(cur.path), len(cur.path)+1)
			copy(path, cur.path)
			path = append(path, n)
			heap.Push(frontier, &node{
				priority: len(cur.path) + Manhattan(n, goal),
				order:    counter,
				at:       n,
				path:     path,
			})
		}
	}
	return nil
}

// PathCost returns the terrain cost of traversing path, excluding the
// starting tile.
//
// Precondition: every point on path is in bounds. Panics otherwise.
func (g *Grid) PathCost(path []Point) int {
	cost := 0
	for _, p := range path[1:] {
		tile := g.Tile(p)
		if tile == nil {
			panic("grid: PathCost point out of bounds")
		}
		cost += tile.MoveCost
	}
	return cost
}

// Reachable returns every tile reachable from start within the given movement
// allowance, mapped to its cheapest terrain cost. The start tile is included
// at cost 0.
func (g *Grid) Reachable(start Point, allowance int) map[Point]int {
	reachable := map[Point]int{start: 0}
	queue := []Point{start}
	for len(queue) > 0 {
		at := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors(at) {
			tile := g.Tile(n)
			if !tile.CanEnter() {
				continue
			}
			cost := reachable[at] + tile.MoveCost
			if cost > allowance {
				continue
			}
			if prev, ok := reachable[n]; ok && prev <= cost {
				continue
			}
			reachable[n] = cost
			queue = append(queue, n)
		}
	}
	return reachable
}

type node struct {
	priority int
	order    int
	at       Point
	path     []Point
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].order < h[j].order
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) { *h = append(*h, x.(*node)) }

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
