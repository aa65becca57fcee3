package builder

import (
	"roadnet/pkg/datastructure"
	"roadnet/pkg/idmap"
)

// RoadNetwork bundles the outputs of one construction pass: the id bijection,
// the immutable adjacency store, and the node table attrs re-indexed by dense
// id. Multiple RoadNetwork values (e.g. built from different datasets) can
// coexist; nothing here is process-global.
type RoadNetwork struct {
	IDs   *idmap.IDMap
	Store *datastructure.GraphStore
	Nodes []datastructure.RawNode // indexed by dense id
}

// BuildRoadNetwork runs the whole construction batch: id compaction over the
// edge endpoints (node-table ids are appended after, so isolated nodes get
// the trailing dense ids), edge materialization, optional travel-time
// resolution, and CSR store construction. Any failure aborts the pipeline;
// no partial id map or store escapes.
//
// speeds may be nil, leaving the travel-time weight equal to the length.
func BuildRoadNetwork(rawEdges []datastructure.RawEdge, rawNodes []datastructure.RawNode,
	speeds SpeedTable) (*RoadNetwork, error) {

	seq := make([]string, 0, len(rawEdges)*2+len(rawNodes))
	for _, re := range rawEdges {
		seq = append(seq, re.SrcID, re.DstID)
	}
	for _, rn := range rawNodes {
		seq = append(seq, rn.ID)
	}

	ids, err := idmap.BuildIDMap(seq)
	if err != nil {
		return nil, err
	}

	edges, err := MaterializeEdges(rawEdges, ids)
	if err != nil {
		return nil, err
	}

	if speeds != nil {
		edges, err = ResolveWeights(edges, speeds)
		if err != nil {
			return nil, err
		}
	}

	store, err := datastructure.NewGraphStore(ids.Len(), edges)
	if err != nil {
		return nil, err
	}

	return &RoadNetwork{
		IDs:   ids,
		Store: store,
		Nodes: denseNodeTable(ids, rawNodes),
	}, nil
}

func denseNodeTable(ids *idmap.IDMap, rawNodes []datastructure.RawNode) []datastructure.RawNode {
	nodes := make([]datastructure.RawNode, ids.Len())
	for i, ext := range ids.Externals() {
		nodes[i] = datastructure.NewRawNode(ext, nil)
	}
	for _, rn := range rawNodes {
		dense, err := ids.ToDense(rn.ID)
		if err != nil {
			continue
		}
		nodes[dense].Attrs = rn.Attrs
	}
	return nodes
}

// Snapshot captures the network as the serializable build artifact.
func (rn *RoadNetwork) Snapshot() datastructure.GraphSnapshot {
	return datastructure.GraphSnapshot{
		Externals: rn.IDs.Externals(),
		Nodes:     rn.Nodes,
		Edges:     rn.Store.Edges(),
		NumNodes:  int32(rn.Store.GetNumNodes()),
	}
}

// FromSnapshot rebuilds a RoadNetwork from a saved artifact.
func FromSnapshot(snap datastructure.GraphSnapshot) (*RoadNetwork, error) {
	ids, err := idmap.BuildIDMap(snap.Externals)
	if err != nil {
		return nil, err
	}
	store, err := datastructure.NewGraphStore(int(snap.NumNodes), snap.Edges)
	if err != nil {
		return nil, err
	}
	return &RoadNetwork{
		IDs:   ids,
		Store: store,
		Nodes: snap.Nodes,
	}, nil
}
