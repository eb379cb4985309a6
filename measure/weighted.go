package measure

import (
	"container/heap"
	"sort"

	"github.com/tempnet/tempnet/graph"
)

// weightedGraph is the static view centrality computations run on. Edge
// weight is derived from occurrence counts as maxCount-count+1, so the most
// frequent interaction has weight 1 and shortest-path algorithms treat
// frequent contact as short distance.
type weightedGraph struct {
	nodes []int
	adj   map[int][]weightedEdge
}

type weightedEdge struct {
	to     int
	weight float64
}

// stepCounts extracts the per-pair occurrence counts of a single time step's
// graph.
func stepCounts(g *graph.Graph) map[[2]int]int {
	counts := make(map[[2]int]int, g.Len())
	for _, edge := range g.Edges() {
		a, b := edge.IncidentNodes()
		counts[[2]int{a, b}] += edge.Count()
	}
	return counts
}

// totalCounts sums occurrence counts per canonical pair across all time
// steps, producing the collapsed graph of the whole observation period.
func totalCounts(tg *graph.TemporalGraph) map[[2]int]int {
	counts := make(map[[2]int]int)
	it := tg.Iterator()
	for it.Next() {
		for pair, count := range stepCounts(it.Graph()) {
			counts[pair] += count
		}
	}
	return counts
}

func newWeightedGraph(counts map[[2]int]int) *weightedGraph {
	maxCount := 0
	for _, count := range counts {
		if count > maxCount {
			maxCount = count
		}
	}

	wg := &weightedGraph{adj: make(map[int][]weightedEdge)}
	for pair, count := range counts {
		weight := float64(maxCount - count + 1)
		wg.adj[pair[0]] = append(wg.adj[pair[0]], weightedEdge{to: pair[1], weight: weight})
		wg.adj[pair[1]] = append(wg.adj[pair[1]], weightedEdge{to: pair[0], weight: weight})
	}
	for id := range wg.adj {
		wg.nodes = append(wg.nodes, id)
	}
	sort.Ints(wg.nodes)
	return wg
}

// betweenness computes normalized weighted betweenness centrality with
// Brandes' algorithm, using Dijkstra for the shortest-path phase. Values are
// scaled by 1/((n-1)(n-2)); graphs with fewer than three nodes yield zeros.
func (wg *weightedGraph) betweenness() map[int]float64 {
	bc := make(map[int]float64, len(wg.nodes))
	for _, id := range wg.nodes {
		bc[id] = 0
	}

	for _, source := range wg.nodes {
		dist := make(map[int]float64)
		sigma := make(map[int]float64)
		preds := make(map[int][]int)
		settled := make(map[int]bool)
		var stack []int

		dist[source] = 0
		sigma[source] = 1
		pq := &distQueue{{node: source, dist: 0}}
		heap.Init(pq)

		for pq.Len() > 0 {
			item := heap.Pop(pq).(distItem)
			if settled[item.node] {
				continue
			}
			settled[item.node] = true
			stack = append(stack, item.node)

			for _, edge := range wg.adj[item.node] {
				next := dist[item.node] + edge.weight
				current, seen := dist[edge.to]
				switch {
				case !seen || next < current:
					dist[edge.to] = next
					sigma[edge.to] = sigma[item.node]
					preds[edge.to] = []int{item.node}
					heap.Push(pq, distItem{node: edge.to, dist: next})
				case next == current:
					// All weights are positive, so a settled node can
					// never be reached again at its final distance.
					sigma[edge.to] += sigma[item.node]
					preds[edge.to] = append(preds[edge.to], item.node)
				}
			}
		}

		// Dependency accumulation in order of non-increasing distance.
		delta := make(map[int]float64)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != source {
				bc[w] += delta[w]
			}
		}
	}

	if n := len(wg.nodes); n > 2 {
		scale := 1 / float64((n-1)*(n-2))
		for id := range bc {
			bc[id] *= scale
		}
	} else {
		for id := range bc {
			bc[id] = 0
		}
	}
	return bc
}

// closeness computes weighted closeness centrality with the
// reachable-component scaling: (r-1)/sum(dist) * (r-1)/(n-1), where r is the
// number of nodes reachable from the node. Isolated components therefore do
// not inflate each other's values.
func (wg *weightedGraph) closeness() map[int]float64 {
	cc := make(map[int]float64, len(wg.nodes))
	n := len(wg.nodes)
	for _, source := range wg.nodes {
		cc[source] = 0
		if n < 2 {
			continue
		}

		dist := wg.shortestFrom(source)
		var sum float64
		for _, d := range dist {
			sum += d
		}
		if reached := len(dist) - 1; reached > 0 && sum > 0 {
			cc[source] = float64(reached) / sum * float64(reached) / float64(n-1)
		}
	}
	return cc
}

// shortestFrom runs Dijkstra from the source and returns the distance to
// every reachable node, the source included with distance zero.
func (wg *weightedGraph) shortestFrom(source int) map[int]float64 {
	dist := make(map[int]float64)
	settled := make(map[int]bool)
	dist[source] = 0
	pq := &distQueue{{node: source, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(distItem)
		if settled[item.node] {
			continue
		}
		settled[item.node] = true

		for _, edge := range wg.adj[item.node] {
			next := dist[item.node] + edge.weight
			if current, seen := dist[edge.to]; !seen || next < current {
				dist[edge.to] = next
				heap.Push(pq, distItem{node: edge.to, dist: next})
			}
		}
	}
	return dist
}

type distItem struct {
	node int
	dist float64
}

type distQueue []distItem

func (q distQueue) Len() int            { return len(q) }
func (q distQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q distQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *distQueue) Push(x interface{}) { *q = append(*q, x.(distItem)) }
func (q *distQueue) Pop() interface{} {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}
