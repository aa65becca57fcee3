package builder

import (
	"errors"
	"fmt"
	"math"

	"roadnet/pkg/datastructure"
	"roadnet/pkg/idmap"
	"roadnet/pkg/util"
)

var (
	ErrSchema = errors.New("schema error")
)

// MaterializeEdges translates every raw directed edge through the id map and
// expands it into the symmetric, deduplicated undirected edge set: for each
// (u,v,w) both (u,v,w) and (v,u,w) are emitted, self-loops once. Duplicate
// ordered pairs keep the first-encountered weight in input order; later
// weights for the same pair are dropped.
//
// Every endpoint must already be known to the id map; an unmapped identifier
// is a fatal schema error.
func MaterializeEdges(rawEdges []datastructure.RawEdge, ids *idmap.IDMap) ([]datastructure.Edge, error) {
	seen := make(map[int64]struct{}, len(rawEdges)*2)
	edges := make([]datastructure.Edge, 0, len(rawEdges)*2)

	edgeID := int32(0)
	for _, re := range rawEdges {
		u, err := ids.ToDense(re.SrcID)
		if err != nil {
			return nil, fmt.Errorf("%w: edge endpoint %q has no dense id", ErrSchema, re.SrcID)
		}
		v, err := ids.ToDense(re.DstID)
		if err != nil {
			return nil, fmt.Errorf("%w: edge endpoint %q has no dense id", ErrSchema, re.DstID)
		}
		if re.Length < 0 || math.IsNaN(re.Length) || math.IsInf(re.Length, 0) {
			return nil, fmt.Errorf("%w: edge (%q,%q) has invalid length %f", ErrSchema, re.SrcID, re.DstID, re.Length)
		}

		if _, ok := seen[util.BitPackIntPair(u, v)]; !ok {
			seen[util.BitPackIntPair(u, v)] = struct{}{}
			edges = append(edges, datastructure.NewEdge(edgeID, re.Length, re.Length, v, u, re.RoadClass))
			edgeID++
		}
		if u == v {
			// self-loop, keep the single entry
			continue
		}
		if _, ok := seen[util.BitPackIntPair(v, u)]; !ok {
			seen[util.BitPackIntPair(v, u)] = struct{}{}
			edges = append(edges, datastructure.NewEdge(edgeID, re.Length, re.Length, u, v, re.RoadClass))
			edgeID++
		}
	}

	if len(edges) == 0 && ids.Len() > 0 {
		return nil, fmt.Errorf("%w: %d nodes but no materialized edges", datastructure.ErrEmptyGraph, ids.Len())
	}
	return edges, nil
}
