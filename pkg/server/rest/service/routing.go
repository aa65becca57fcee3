package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"roadnet/pkg/datastructure"
	"roadnet/pkg/engine/routingalgorithm"
	"roadnet/pkg/util"

	"github.com/twpayne/go-polyline"
)

var (
	ErrUnknownMetric   = errors.New("unknown metric")
	ErrSnapUnavailable = errors.New("nearest-node snapping is not available for this dataset")
)

type IDMap interface {
	ToDense(ext string) (int32, error)
	ToExternal(id int32) (string, error)
	Len() int
}

type GraphStore interface {
	GetNumNodes() int
	GetNumEdges() int
}

type RoutingAlgorithm interface {
	ShortestPath(source int32, metric routingalgorithm.Metric) (routingalgorithm.DistanceVector, error)
	Route(from, to int32, metric routingalgorithm.Metric) ([]int32, float64, error)
}

type DistanceCache interface {
	SaveDistanceVector(graph, metric string, source int32, dist []float64) error
	GetDistanceVector(graph, metric string, source int32) ([]float64, error)
}

type RoadSnapper interface {
	SnapToNode(lat, lon float64) (int32, float64, error)
}

// RoutingService answers queries over one built road network. cache and
// snapper may be nil; queries then always recompute and snapping is
// rejected.
type RoutingService struct {
	graphName string
	ids       IDMap
	store     GraphStore
	routing   RoutingAlgorithm
	cache     DistanceCache
	snapper   RoadSnapper
	nodes     []datastructure.RawNode
}

func NewRoutingService(graphName string, ids IDMap, store GraphStore, routing RoutingAlgorithm,
	cache DistanceCache, snapper RoadSnapper, nodes []datastructure.RawNode) *RoutingService {
	return &RoutingService{
		graphName: graphName,
		ids:       ids,
		store:     store,
		routing:   routing,
		cache:     cache,
		snapper:   snapper,
		nodes:     nodes,
	}
}

func ParseMetric(name string) (routingalgorithm.Metric, error) {
	switch name {
	case "", "distance":
		return routingalgorithm.MetricDistance, nil
	case "time":
		return routingalgorithm.MetricTime, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
}

func metricName(metric routingalgorithm.Metric) string {
	if metric == routingalgorithm.MetricTime {
		return "time"
	}
	return "distance"
}

// SingleSourceDistances runs (or fetches the cached) SSSP from sourceID and
// maps the result back to external identifiers. With targetIDs the result is
// restricted to those nodes, otherwise every node is reported. Unreachable
// nodes are listed separately instead of surfacing the sentinel value.
func (s *RoutingService) SingleSourceDistances(ctx context.Context, sourceID, metric string,
	targetIDs []string) (map[string]float64, []string, error) {

	m, err := ParseMetric(metric)
	if err != nil {
		return nil, nil, err
	}
	source, err := s.ids.ToDense(sourceID)
	if err != nil {
		return nil, nil, err
	}

	dist, err := s.distances(source, m)
	if err != nil {
		return nil, nil, err
	}

	targets := targetIDs
	if len(targets) == 0 {
		targets = make([]string, 0, s.ids.Len())
		for dense := int32(0); dense < int32(s.ids.Len()); dense++ {
			ext, err := s.ids.ToExternal(dense)
			if err != nil {
				return nil, nil, err
			}
			targets = append(targets, ext)
		}
	}

	reachable := make(map[string]float64, len(targets))
	unreachable := []string{}
	for _, ext := range targets {
		dense, err := s.ids.ToDense(ext)
		if err != nil {
			return nil, nil, err
		}
		if dist.Reachable(dense) {
			reachable[ext] = dist[dense]
		} else {
			unreachable = append(unreachable, ext)
		}
	}
	return reachable, unreachable, nil
}

func (s *RoutingService) distances(source int32, m routingalgorithm.Metric) (routingalgorithm.DistanceVector, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetDistanceVector(s.graphName, metricName(m), source); err == nil {
			return routingalgorithm.DistanceVector(cached), nil
		}
	}

	dist, err := s.routing.ShortestPath(source, m)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SaveDistanceVector(s.graphName, metricName(m), source, dist); err != nil {
			// cache failure must not fail the query
			log.Printf("saving distance vector to cache: %v", err)
		}
	}
	return dist, nil
}

// ShortestRoute computes the point-to-point path between two external ids.
// The polyline return is the encoded node geometry, empty when the dataset
// carries no coordinates. An unreachable target yields an empty path and
// found == false.
func (s *RoutingService) ShortestRoute(ctx context.Context, fromID, toID, metric string) ([]string,
	float64, string, bool, error) {

	m, err := ParseMetric(metric)
	if err != nil {
		return nil, 0, "", false, err
	}
	from, err := s.ids.ToDense(fromID)
	if err != nil {
		return nil, 0, "", false, err
	}
	to, err := s.ids.ToDense(toID)
	if err != nil {
		return nil, 0, "", false, err
	}

	path, cost, err := s.routing.Route(from, to, m)
	if err != nil {
		return nil, 0, "", false, err
	}
	if len(path) == 0 {
		return []string{}, 0, "", false, nil
	}

	extPath := make([]string, 0, len(path))
	for _, dense := range path {
		ext, err := s.ids.ToExternal(dense)
		if err != nil {
			return nil, 0, "", false, err
		}
		extPath = append(extPath, ext)
	}

	return extPath, util.RoundFloat(cost, 2), s.encodePathGeometry(path), true, nil
}

func (s *RoutingService) encodePathGeometry(path []int32) string {
	coords := make([][]float64, 0, len(path))
	for _, dense := range path {
		if int(dense) >= len(s.nodes) {
			return ""
		}
		attrs := s.nodes[dense].Attrs
		lat, errLat := strconv.ParseFloat(attrs["lat"], 64)
		lon, errLon := strconv.ParseFloat(attrs["lon"], 64)
		if errLat != nil || errLon != nil {
			return ""
		}
		coords = append(coords, []float64{lat, lon})
	}
	return string(polyline.EncodeCoords(coords))
}

// NearestNode snaps a free coordinate to the closest node of the network.
func (s *RoutingService) NearestNode(ctx context.Context, lat, lon float64) (string, float64, error) {
	if s.snapper == nil {
		return "", 0, ErrSnapUnavailable
	}
	dense, dist, err := s.snapper.SnapToNode(lat, lon)
	if err != nil {
		return "", 0, err
	}
	ext, err := s.ids.ToExternal(dense)
	if err != nil {
		return "", 0, err
	}
	return ext, util.RoundFloat(dist, 2), nil
}

// GraphStats reports the size of the loaded network.
func (s *RoutingService) GraphStats(ctx context.Context) (string, int, int) {
	return s.graphName, s.store.GetNumNodes(), s.store.GetNumEdges()
}
