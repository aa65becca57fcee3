package datastructure

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyGraph      = errors.New("empty graph")
	ErrNodeOutOfBounds = errors.New("node id out of bounds")
)

// GraphStore is the immutable adjacency structure of a materialized road
// network. Edges are laid out CSR style: one flat arena sorted by source
// node, plus an offset array indexed by dense node id. Vertex id is the
// array index, so the density invariant of the id space is checked at
// construction. Safe for any number of concurrent readers.
type GraphStore struct {
	firstOutEdge []int32 // len numNodes+1, firstOutEdge[v]..firstOutEdge[v+1] brackets v's out edges
	outEdges     []Edge
	numNodes     int
}

// NewGraphStore builds the CSR adjacency from a symmetric, deduplicated edge
// set. Construction is a counting sort over the source ids, O(V+E). The
// input slice is not retained.
func NewGraphStore(numNodes int, edges []Edge) (*GraphStore, error) {
	if numNodes == 0 {
		return nil, fmt.Errorf("%w: zero nodes", ErrEmptyGraph)
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("%w: %d nodes but zero edges", ErrEmptyGraph, numNodes)
	}

	firstOutEdge := make([]int32, numNodes+1)
	for _, e := range edges {
		if e.FromNodeID < 0 || int(e.FromNodeID) >= numNodes {
			return nil, fmt.Errorf("%w: edge source %d not in [0,%d)", ErrNodeOutOfBounds, e.FromNodeID, numNodes)
		}
		if e.ToNodeID < 0 || int(e.ToNodeID) >= numNodes {
			return nil, fmt.Errorf("%w: edge target %d not in [0,%d)", ErrNodeOutOfBounds, e.ToNodeID, numNodes)
		}
		firstOutEdge[e.FromNodeID+1]++
	}
	for v := 1; v <= numNodes; v++ {
		firstOutEdge[v] += firstOutEdge[v-1]
	}

	outEdges := make([]Edge, len(edges))
	next := make([]int32, numNodes)
	for _, e := range edges {
		pos := firstOutEdge[e.FromNodeID] + next[e.FromNodeID]
		outEdges[pos] = e
		next[e.FromNodeID]++
	}

	return &GraphStore{
		firstOutEdge: firstOutEdge,
		outEdges:     outEdges,
		numNodes:     numNodes,
	}, nil
}

// GetNodeOutEdges returns the out edges of nodeID as a view into the CSR
// arena. The returned slice is shared and must not be mutated.
func (g *GraphStore) GetNodeOutEdges(nodeID int32) ([]Edge, error) {
	if nodeID < 0 || int(nodeID) >= g.numNodes {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrNodeOutOfBounds, nodeID, g.numNodes)
	}
	return g.outEdges[g.firstOutEdge[nodeID]:g.firstOutEdge[nodeID+1]], nil
}

func (g *GraphStore) Degree(nodeID int32) int {
	if nodeID < 0 || int(nodeID) >= g.numNodes {
		return 0
	}
	return int(g.firstOutEdge[nodeID+1] - g.firstOutEdge[nodeID])
}

func (g *GraphStore) GetNumNodes() int {
	return g.numNodes
}

// GetNumEdges returns the number of stored directed half-edges; an
// undirected segment between distinct nodes counts twice, a self-loop once.
func (g *GraphStore) GetNumEdges() int {
	return len(g.outEdges)
}

// Edges returns the whole CSR arena, ordered by source id. Shared, read-only.
func (g *GraphStore) Edges() []Edge {
	return g.outEdges
}
