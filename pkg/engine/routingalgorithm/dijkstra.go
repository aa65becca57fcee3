package routingalgorithm

import (
	"errors"
	"fmt"
	"math"

	"roadnet/pkg/datastructure"
	"roadnet/pkg/util"
)

var (
	ErrInvalidSource = errors.New("source node id out of bounds")
	ErrInvalidWeight = errors.New("negative or non-finite edge weight")
)

// Unreachable is the sentinel distance of a vertex the search never reached.
// Callers must treat any entry >= Unreachable as "no path", never as a real
// distance.
const Unreachable = math.MaxFloat64

// Metric selects which of the two edge weights a query accumulates.
type Metric int

const (
	MetricDistance Metric = iota // meter, the primary length weight
	MetricTime                   // second, derived from category speeds
)

// DistanceVector holds one shortest-path result per dense node id. Owned by
// the caller of the query that produced it.
type DistanceVector []float64

func (d DistanceVector) Reachable(nodeID int32) bool {
	return nodeID >= 0 && int(nodeID) < len(d) && d[nodeID] < Unreachable
}

type Graph interface {
	GetNodeOutEdges(nodeID int32) ([]datastructure.Edge, error)
	GetNumNodes() int
}

// RouteAlgorithm answers shortest-path queries over one immutable graph
// store. It never mutates the store; concurrent queries on the same value
// are safe, each run owns its frontier and distance vector.
type RouteAlgorithm struct {
	g Graph
}

func NewRouteAlgorithm(g Graph) *RouteAlgorithm {
	return &RouteAlgorithm{g: g}
}

func (rt *RouteAlgorithm) edgeWeight(e datastructure.Edge, metric Metric) float64 {
	if metric == MetricTime {
		return e.Weight
	}
	return e.Dist
}

// ShortestPath runs label-setting Dijkstra from source over all vertices and
// returns the distance vector under the chosen metric. O((V+E) log V).
func (rt *RouteAlgorithm) ShortestPath(source int32, metric Metric) (DistanceVector, error) {
	dist, _, err := rt.shortestPathTree(source, -1, metric)
	return dist, err
}

// Route computes the shortest path between two vertices: the dense node ids
// along the path plus the accumulated metric. An unreachable target yields an
// empty path and the Unreachable sentinel.
func (rt *RouteAlgorithm) Route(from, to int32, metric Metric) ([]int32, float64, error) {
	if to < 0 || int(to) >= rt.g.GetNumNodes() {
		return nil, Unreachable, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidSource, to, rt.g.GetNumNodes())
	}
	dist, cameFrom, err := rt.shortestPathTree(from, to, metric)
	if err != nil {
		return nil, Unreachable, err
	}
	if dist[to] >= Unreachable {
		return []int32{}, Unreachable, nil
	}

	path := make([]int32, 0)
	for at := to; at != -1; at = cameFrom[at] {
		path = append(path, at)
	}
	return util.ReverseG(path), dist[to], nil
}

// shortestPathTree is the label-setting core. target == -1 runs the search
// to frontier exhaustion; otherwise it stops as soon as target is settled.
func (rt *RouteAlgorithm) shortestPathTree(source, target int32, metric Metric) (DistanceVector, []int32, error) {
	numNodes := rt.g.GetNumNodes()
	if source < 0 || int(source) >= numNodes {
		return nil, nil, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidSource, source, numNodes)
	}

	dist := make(DistanceVector, numNodes)
	cameFrom := make([]int32, numNodes)
	visited := make([]bool, numNodes)
	for i := range dist {
		dist[i] = Unreachable
		cameFrom[i] = -1
	}
	dist[source] = 0

	pq := datastructure.NewMinHeap[int32]()
	pq.Insert(datastructure.PriorityQueueNode[int32]{Rank: 0, Item: source})

	for pq.Size() != 0 {
		node, err := pq.ExtractMin()
		if err != nil {
			break
		}
		u := node.Item
		if visited[u] {
			continue
		}
		visited[u] = true
		if u == target {
			break
		}

		outEdges, err := rt.g.GetNodeOutEdges(u)
		if err != nil {
			return nil, nil, err
		}
		for _, arc := range outEdges {
			w := rt.edgeWeight(arc, metric)
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, nil, fmt.Errorf("%w: edge (%d,%d) weight %f", ErrInvalidWeight, arc.FromNodeID, arc.ToNodeID, w)
			}

			toNID := arc.ToNodeID
			if visited[toNID] {
				continue
			}

			newCost := dist[u] + w
			if dist[toNID] >= Unreachable {
				dist[toNID] = newCost
				cameFrom[toNID] = u
				pq.Insert(datastructure.PriorityQueueNode[int32]{Rank: newCost, Item: toNID})
			} else if newCost < dist[toNID] {
				dist[toNID] = newCost
				cameFrom[toNID] = u
				if pq.Contains(toNID) {
					pq.DecreaseKey(datastructure.PriorityQueueNode[int32]{Rank: newCost, Item: toNID})
				} else {
					pq.Insert(datastructure.PriorityQueueNode[int32]{Rank: newCost, Item: toNID})
				}
			}
		}
	}

	return dist, cameFrom, nil
}
