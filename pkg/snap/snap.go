package snap

import (
	"errors"
	"strconv"

	"roadnet/pkg/datastructure"
	"roadnet/pkg/geo"

	"github.com/dhconnelly/rtreego"
)

var (
	ErrNoSpatialAttrs = errors.New("no node carries lat/lon attrs")
	ErrNoSnapResult   = errors.New("no node near the query point")
)

const pointTolerance = 1e-7

type nodePoint struct {
	id       int32
	lat, lon float64
}

func (n *nodePoint) Bounds() rtreego.Rect {
	return rtreego.Point{n.lat, n.lon}.ToRect(pointTolerance)
}

// RoadSnapper maps a free coordinate to the nearest road network node. It is
// built over the nodes of one RoadNetwork that carry "lat"/"lon" attrs in
// their passthrough columns; nodes without coordinates are not indexed.
type RoadSnapper struct {
	rtree *rtreego.Rtree
}

func NewRoadSnapper(nodes []datastructure.RawNode) (*RoadSnapper, error) {
	rtree := rtreego.NewTree(2, 25, 50)
	indexed := 0
	for dense, node := range nodes {
		lat, okLat := parseAttrFloat(node.Attrs, "lat")
		lon, okLon := parseAttrFloat(node.Attrs, "lon")
		if !okLat || !okLon {
			continue
		}
		rtree.Insert(&nodePoint{id: int32(dense), lat: lat, lon: lon})
		indexed++
	}
	if indexed == 0 {
		return nil, ErrNoSpatialAttrs
	}
	return &RoadSnapper{rtree: rtree}, nil
}

func parseAttrFloat(attrs map[string]string, key string) (float64, bool) {
	raw, ok := attrs[key]
	if !ok {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// SnapToNode returns the dense id of the nearest indexed node and its
// haversine distance to the query point in meters.
func (rs *RoadSnapper) SnapToNode(lat, lon float64) (int32, float64, error) {
	nearest := rs.rtree.NearestNeighbor(rtreego.Point{lat, lon})
	if nearest == nil {
		return -1, 0, ErrNoSnapResult
	}
	node := nearest.(*nodePoint)
	return node.id, geo.HaversineDistance(lat, lon, node.lat, node.lon), nil
}

// SnapToNodes returns up to k nearest indexed nodes, closest first.
func (rs *RoadSnapper) SnapToNodes(lat, lon float64, k int) []int32 {
	neighbors := rs.rtree.NearestNeighbors(k, rtreego.Point{lat, lon})
	ids := make([]int32, 0, len(neighbors))
	for _, spatial := range neighbors {
		if spatial == nil {
			continue
		}
		ids = append(ids, spatial.(*nodePoint).id)
	}
	return ids
}
