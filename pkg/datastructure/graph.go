package datastructure

// RawNode is one row of the input node table. Attrs carries every column
// besides node_id unchanged; the core never interprets them.
type RawNode struct {
	ID    string
	Attrs map[string]string
}

func NewRawNode(id string, attrs map[string]string) RawNode {
	return RawNode{
		ID:    id,
		Attrs: attrs,
	}
}

// RawEdge is one row of the input edge table: a directed road segment with a
// physical length in meters and a road-category attribute.
type RawEdge struct {
	SrcID     string
	DstID     string
	Length    float64
	RoadClass string
}

func NewRawEdge(srcID, dstID string, length float64, roadClass string) RawEdge {
	return RawEdge{
		SrcID:     srcID,
		DstID:     dstID,
		Length:    length,
		RoadClass: roadClass,
	}
}

// Edge is a materialized directed half of an undirected road segment,
// addressed by dense node ids.
//
// Dist is the primary weight (segment length, meter). Weight is the
// secondary weight (travel time, second); until a speed table is resolved it
// mirrors Dist.
type Edge struct {
	EdgeID     int32
	FromNodeID int32
	ToNodeID   int32
	Weight     float64
	Dist       float64
	RoadClass  string
}

func NewEdge(edgeID int32, weight, dist float64, toNodeID, fromNodeID int32, roadClass string) Edge {
	return Edge{
		EdgeID:     edgeID,
		FromNodeID: fromNodeID,
		ToNodeID:   toNodeID,
		Weight:     weight,
		Dist:       dist,
		RoadClass:  roadClass,
	}
}
