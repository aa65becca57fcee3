package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"roadnet/pkg/idmap"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type stubRoutingService struct{}

func (s *stubRoutingService) SingleSourceDistances(ctx context.Context, sourceID, metric string,
	targetIDs []string) (map[string]float64, []string, error) {
	if sourceID == "Z" {
		return nil, nil, fmt.Errorf("%w: %q", idmap.ErrUnknownID, sourceID)
	}
	return map[string]float64{"A": 0, "B": 10}, []string{"D"}, nil
}

func (s *stubRoutingService) ShortestRoute(ctx context.Context, fromID, toID, metric string) ([]string,
	float64, string, bool, error) {
	return []string{"A", "B"}, 10, "", true, nil
}

func (s *stubRoutingService) NearestNode(ctx context.Context, lat, lon float64) (string, float64, error) {
	return "A", 12.5, nil
}

func (s *stubRoutingService) GraphStats(ctx context.Context) (string, int, int) {
	return "stub", 4, 4
}

func newTestRouter() *chi.Mux {
	r := chi.NewRouter()
	RoutingRouter(r, &stubRoutingService{})
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	bb, err := json.Marshal(body)
	assert.Nil(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(bb))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSingleSourceDistancesHandler(t *testing.T) {
	r := newTestRouter()

	rec := postJSON(t, r, "/api/navigations/single-source-distances",
		map[string]any{"source_id": "A", "metric": "distance"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp SingleSourceDistancesResponse
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10.0, resp.Distances["B"])
	assert.Equal(t, []string{"D"}, resp.Unreachable)
}

func TestSingleSourceDistancesHandlerUnknownSource(t *testing.T) {
	r := newTestRouter()

	rec := postJSON(t, r, "/api/navigations/single-source-distances",
		map[string]any{"source_id": "Z"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSingleSourceDistancesHandlerMissingSource(t *testing.T) {
	r := newTestRouter()

	rec := postJSON(t, r, "/api/navigations/single-source-distances", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSingleSourceDistancesHandlerBadMetric(t *testing.T) {
	r := newTestRouter()

	rec := postJSON(t, r, "/api/navigations/single-source-distances",
		map[string]any{"source_id": "A", "metric": "hops"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShortestRouteHandler(t *testing.T) {
	r := newTestRouter()

	rec := postJSON(t, r, "/api/navigations/shortest-path",
		map[string]any{"from_id": "A", "to_id": "B"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ShortestRouteResponse
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Found)
	assert.Equal(t, []string{"A", "B"}, resp.Path)
}

func TestNearestNodeHandlerValidation(t *testing.T) {
	r := newTestRouter()

	rec := postJSON(t, r, "/api/navigations/nearest-node",
		map[string]any{"lat": 120.0, "lon": 110.8})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGraphStatsHandler(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/graph/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp GraphStatsResponse
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.NodeCount)
}
