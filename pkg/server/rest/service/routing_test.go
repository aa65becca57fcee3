package service

import (
	"context"
	"errors"
	"testing"

	"roadnet/pkg/builder"
	"roadnet/pkg/datastructure"
	"roadnet/pkg/engine/routingalgorithm"
	"roadnet/pkg/idmap"
	"roadnet/pkg/snap"

	"github.com/stretchr/testify/assert"
)

func newTestService(t *testing.T) *RoutingService {
	rawEdges := []datastructure.RawEdge{
		datastructure.NewRawEdge("A", "B", 10, "residential"),
		datastructure.NewRawEdge("B", "C", 5, "residential"),
	}
	rawNodes := []datastructure.RawNode{
		datastructure.NewRawNode("A", map[string]string{"lat": "-7.5755", "lon": "110.8243"}),
		datastructure.NewRawNode("B", map[string]string{"lat": "-7.5760", "lon": "110.8250"}),
		datastructure.NewRawNode("C", map[string]string{"lat": "-7.5770", "lon": "110.8260"}),
		datastructure.NewRawNode("D", nil),
	}
	rn, err := builder.BuildRoadNetwork(rawEdges, rawNodes, nil)
	assert.Nil(t, err)

	snapper, err := snap.NewRoadSnapper(rn.Nodes)
	assert.Nil(t, err)

	return NewRoutingService("test", rn.IDs, rn.Store,
		routingalgorithm.NewRouteAlgorithm(rn.Store), nil, snapper, rn.Nodes)
}

func TestSingleSourceDistances(t *testing.T) {
	svc := newTestService(t)

	distances, unreachable, err := svc.SingleSourceDistances(context.Background(), "A", "distance", nil)
	assert.Nil(t, err)
	assert.Equal(t, 0.0, distances["A"])
	assert.Equal(t, 10.0, distances["B"])
	assert.Equal(t, 15.0, distances["C"])
	assert.Equal(t, []string{"D"}, unreachable)
}

func TestSingleSourceDistancesTargets(t *testing.T) {
	svc := newTestService(t)

	distances, unreachable, err := svc.SingleSourceDistances(context.Background(), "A", "", []string{"C", "D"})
	assert.Nil(t, err)
	assert.Equal(t, 1, len(distances))
	assert.Equal(t, 15.0, distances["C"])
	assert.Equal(t, []string{"D"}, unreachable)
}

func TestSingleSourceDistancesUnknownSource(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.SingleSourceDistances(context.Background(), "Z", "distance", nil)
	assert.ErrorIs(t, err, idmap.ErrUnknownID)
}

func TestSingleSourceDistancesUnknownMetric(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.SingleSourceDistances(context.Background(), "A", "hops", nil)
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestShortestRoute(t *testing.T) {
	svc := newTestService(t)

	path, cost, poly, found, err := svc.ShortestRoute(context.Background(), "A", "C", "distance")
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"A", "B", "C"}, path)
	assert.Equal(t, 15.0, cost)
	assert.NotEmpty(t, poly)
}

func TestShortestRouteCostRounded(t *testing.T) {
	rawEdges := []datastructure.RawEdge{
		datastructure.NewRawEdge("A", "B", 10, "residential"),
		datastructure.NewRawEdge("B", "C", 10, "residential"),
	}
	rn, err := builder.BuildRoadNetwork(rawEdges, nil, builder.SpeedTable{"residential": 3})
	assert.Nil(t, err)

	svc := NewRoutingService("test", rn.IDs, rn.Store,
		routingalgorithm.NewRouteAlgorithm(rn.Store), nil, nil, rn.Nodes)

	// 10/3 + 10/3 = 6.666..., reported to two decimals
	_, cost, _, found, err := svc.ShortestRoute(context.Background(), "A", "C", "time")
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, 6.67, cost)
}

func TestShortestRouteUnreachable(t *testing.T) {
	svc := newTestService(t)

	path, _, _, found, err := svc.ShortestRoute(context.Background(), "A", "D", "distance")
	assert.Nil(t, err)
	assert.False(t, found)
	assert.Empty(t, path)
}

func TestNearestNode(t *testing.T) {
	svc := newTestService(t)

	nodeID, dist, err := svc.NearestNode(context.Background(), -7.5756, 110.8244)
	assert.Nil(t, err)
	assert.Equal(t, "A", nodeID)
	assert.Less(t, dist, 100.0)
}

func TestGraphStats(t *testing.T) {
	svc := newTestService(t)

	graph, nodes, edges := svc.GraphStats(context.Background())
	assert.Equal(t, "test", graph)
	assert.Equal(t, 4, nodes)
	assert.Equal(t, 4, edges)
}

type countingCache struct {
	saved map[string][]float64
	hits  int
}

func (c *countingCache) SaveDistanceVector(graph, metric string, source int32, dist []float64) error {
	c.saved[graph+"/"+metric] = dist
	return nil
}

func (c *countingCache) GetDistanceVector(graph, metric string, source int32) ([]float64, error) {
	if dist, ok := c.saved[graph+"/"+metric]; ok {
		c.hits++
		return dist, nil
	}
	return nil, errors.New("not cached")
}

func TestDistanceCacheUsed(t *testing.T) {
	rawEdges := []datastructure.RawEdge{
		datastructure.NewRawEdge("A", "B", 10, "residential"),
	}
	rn, err := builder.BuildRoadNetwork(rawEdges, nil, nil)
	assert.Nil(t, err)

	cache := &countingCache{saved: make(map[string][]float64)}
	svc := NewRoutingService("cached", rn.IDs, rn.Store,
		routingalgorithm.NewRouteAlgorithm(rn.Store), cache, nil, rn.Nodes)

	_, _, err = svc.SingleSourceDistances(context.Background(), "A", "distance", nil)
	assert.Nil(t, err)
	assert.Equal(t, 0, cache.hits)
	assert.Equal(t, 1, len(cache.saved))

	_, _, err = svc.SingleSourceDistances(context.Background(), "A", "distance", nil)
	assert.Nil(t, err)
	assert.Equal(t, 1, cache.hits)
}
