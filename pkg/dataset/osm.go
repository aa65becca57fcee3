package dataset

import (
	"context"
	"io"
	"log"
	"os"
	"strconv"

	"roadnet/pkg/datastructure"
	"roadnet/pkg/geo"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

var validRoadType = map[string]struct{}{
	"motorway":       {},
	"trunk":          {},
	"primary":        {},
	"secondary":      {},
	"tertiary":       {},
	"unclassified":   {},
	"residential":    {},
	"motorway_link":  {},
	"trunk_link":     {},
	"primary_link":   {},
	"secondary_link": {},
	"tertiary_link":  {},
	"living_street":  {},
	"service":        {},
}

type osmWay struct {
	nodeIDs  []int64
	category string
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	if highway == "" {
		return false
	}
	_, ok := validRoadType[highway]
	return ok
}

// LoadOSM derives the same raw edge/node tables the csv loader produces from
// an openstreetmap pbf extract: one directed raw edge per consecutive node
// pair of every accepted highway way, the highway tag as the category,
// haversine segment length in meters, node coordinates as lat/lon attrs.
func LoadOSM(mapFile string) ([]datastructure.RawEdge, []datastructure.RawNode, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	// first pass: collect accepted ways and mark their nodes
	scanner := osmpbf.New(context.Background(), f, 0)
	ways := []osmWay{}
	wayNodeSet := make(map[int64]struct{})
	countWays := 0
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}
		way := o.(*osm.Way)
		if len(way.Nodes) < 2 {
			continue
		}
		if !acceptOsmWay(way) {
			continue
		}
		if (countWays+1)%50000 == 0 {
			log.Printf("reading openstreetmap ways: %d...", countWays+1)
		}
		countWays++

		w := osmWay{category: way.Tags.Find("highway")}
		for _, node := range way.Nodes {
			w.nodeIDs = append(w.nodeIDs, int64(node.ID))
			wayNodeSet[int64(node.ID)] = struct{}{}
		}
		ways = append(ways, w)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, nil, err
	}
	scanner.Close()

	// second pass: coordinates of the marked nodes
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}
	scanner = osmpbf.New(context.Background(), f, 0)
	defer scanner.Close()

	nodeCoord := make(map[int64][2]float64, len(wayNodeSet))
	countNodes := 0
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeNode {
			continue
		}
		if (countNodes+1)%50000 == 0 {
			log.Printf("processing openstreetmap nodes: %d...", countNodes+1)
		}
		countNodes++

		node := o.(*osm.Node)
		if _, ok := wayNodeSet[int64(node.ID)]; ok {
			nodeCoord[int64(node.ID)] = [2]float64{node.Lat, node.Lon}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	rawEdges := []datastructure.RawEdge{}
	rawNodes := []datastructure.RawNode{}
	emittedNodes := make(map[int64]struct{}, len(nodeCoord))
	for _, w := range ways {
		for i := 0; i+1 < len(w.nodeIDs); i++ {
			fromID, toID := w.nodeIDs[i], w.nodeIDs[i+1]
			from, okFrom := nodeCoord[fromID]
			to, okTo := nodeCoord[toID]
			if !okFrom || !okTo {
				// way references a node outside the extract
				continue
			}

			length := geo.HaversineDistance(from[0], from[1], to[0], to[1])
			rawEdges = append(rawEdges, datastructure.NewRawEdge(
				strconv.FormatInt(fromID, 10),
				strconv.FormatInt(toID, 10),
				length,
				w.category,
			))

			for _, nodeID := range []int64{fromID, toID} {
				if _, ok := emittedNodes[nodeID]; ok {
					continue
				}
				emittedNodes[nodeID] = struct{}{}
				coord := nodeCoord[nodeID]
				rawNodes = append(rawNodes, datastructure.NewRawNode(
					strconv.FormatInt(nodeID, 10),
					map[string]string{
						"lat": strconv.FormatFloat(coord[0], 'f', -1, 64),
						"lon": strconv.FormatFloat(coord[1], 'f', -1, 64),
					},
				))
			}
		}
	}

	log.Printf("openstreetmap extract: %d ways, %d edges, %d nodes", len(ways), len(rawEdges), len(rawNodes))
	return rawEdges, rawNodes, nil
}
