package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"roadnet/pkg/engine/routingalgorithm"
	"roadnet/pkg/idmap"
	"roadnet/pkg/server/rest/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type RoutingService interface {
	SingleSourceDistances(ctx context.Context, sourceID, metric string, targetIDs []string) (map[string]float64, []string, error)
	ShortestRoute(ctx context.Context, fromID, toID, metric string) ([]string, float64, string, bool, error)
	NearestNode(ctx context.Context, lat, lon float64) (string, float64, error)
	GraphStats(ctx context.Context) (string, int, int)
}

type RoutingHandler struct {
	svc RoutingService
}

func RoutingRouter(r *chi.Mux, svc RoutingService) {
	handler := &RoutingHandler{svc}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/single-source-distances", handler.SingleSourceDistances)
			r.Post("/shortest-path", handler.ShortestRoute)
			r.Post("/nearest-node", handler.NearestNode)
		})
		r.Get("/api/graph/stats", handler.GraphStats)
	})
}

// SingleSourceDistancesRequest model info
//
//	@Description	request body for a single-source shortest-path query
type SingleSourceDistancesRequest struct {
	SourceID  string   `json:"source_id" validate:"required"`
	Metric    string   `json:"metric" validate:"omitempty,oneof=distance time"`
	TargetIDs []string `json:"target_ids" validate:"omitempty,dive,required"`
}

func (s *SingleSourceDistancesRequest) Bind(r *http.Request) error {
	if s.SourceID == "" {
		return errors.New("invalid request")
	}
	return nil
}

// SingleSourceDistancesResponse model info
//
//	@Description	response body for a single-source shortest-path query
type SingleSourceDistancesResponse struct {
	SourceID    string             `json:"source_id"`
	Metric      string             `json:"metric"`
	Distances   map[string]float64 `json:"distances"`
	Unreachable []string           `json:"unreachable,omitempty"`
}

// SingleSourceDistances
//
//	@Summary		single-source shortest-path distances from one node to every (or selected) node of the road network
//	@Tags			navigations
//	@Param			body	body	SingleSourceDistancesRequest	true	"request body single source shortest path"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/single-source-distances [post]
//	@Success		200	{object}	SingleSourceDistancesResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *RoutingHandler) SingleSourceDistances(w http.ResponseWriter, r *http.Request) {
	data := &SingleSourceDistancesRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if rendered, failed := validateRequest(data); failed {
		render.Render(w, r, rendered)
		return
	}

	metric := data.Metric
	if metric == "" {
		metric = "distance"
	}
	distances, unreachable, err := h.svc.SingleSourceDistances(r.Context(), data.SourceID, metric, data.TargetIDs)
	if err != nil {
		render.Render(w, r, errRenderer(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &SingleSourceDistancesResponse{
		SourceID:    data.SourceID,
		Metric:      metric,
		Distances:   distances,
		Unreachable: unreachable,
	})
}

// ShortestRouteRequest model info
//
//	@Description	request body for a point-to-point shortest path
type ShortestRouteRequest struct {
	FromID string `json:"from_id" validate:"required"`
	ToID   string `json:"to_id" validate:"required"`
	Metric string `json:"metric" validate:"omitempty,oneof=distance time"`
}

func (s *ShortestRouteRequest) Bind(r *http.Request) error {
	if s.FromID == "" || s.ToID == "" {
		return errors.New("invalid request")
	}
	return nil
}

// ShortestRouteResponse model info
//
//	@Description	response body for a point-to-point shortest path
type ShortestRouteResponse struct {
	Path     []string `json:"path"`
	Cost     float64  `json:"cost"`
	Found    bool     `json:"found"`
	Polyline string   `json:"polyline,omitempty"`
}

// ShortestRoute
//
//	@Summary		point-to-point shortest path between two road network nodes
//	@Tags			navigations
//	@Param			body	body	ShortestRouteRequest	true	"request body shortest path"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/shortest-path [post]
//	@Success		200	{object}	ShortestRouteResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *RoutingHandler) ShortestRoute(w http.ResponseWriter, r *http.Request) {
	data := &ShortestRouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if rendered, failed := validateRequest(data); failed {
		render.Render(w, r, rendered)
		return
	}

	path, cost, poly, found, err := h.svc.ShortestRoute(r.Context(), data.FromID, data.ToID, data.Metric)
	if err != nil {
		render.Render(w, r, errRenderer(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &ShortestRouteResponse{
		Path:     path,
		Cost:     cost,
		Found:    found,
		Polyline: poly,
	})
}

// NearestNodeRequest model info
//
//	@Description	request body for nearest-node snapping
type NearestNodeRequest struct {
	Lat float64 `json:"lat" validate:"required,lt=90,gt=-90"`
	Lon float64 `json:"lon" validate:"required,lt=180,gt=-180"`
}

func (s *NearestNodeRequest) Bind(r *http.Request) error {
	if s.Lat == 0 && s.Lon == 0 {
		return errors.New("invalid request")
	}
	return nil
}

// NearestNodeResponse model info
//
//	@Description	response body for nearest-node snapping
type NearestNodeResponse struct {
	NodeID   string  `json:"node_id"`
	Distance float64 `json:"distance"`
}

// NearestNode
//
//	@Summary		snap a coordinate to the nearest road network node
//	@Tags			navigations
//	@Param			body	body	NearestNodeRequest	true	"request body nearest node"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/nearest-node [post]
//	@Success		200	{object}	NearestNodeResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *RoutingHandler) NearestNode(w http.ResponseWriter, r *http.Request) {
	data := &NearestNodeRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if rendered, failed := validateRequest(data); failed {
		render.Render(w, r, rendered)
		return
	}

	nodeID, dist, err := h.svc.NearestNode(r.Context(), data.Lat, data.Lon)
	if err != nil {
		render.Render(w, r, errRenderer(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &NearestNodeResponse{NodeID: nodeID, Distance: dist})
}

// GraphStatsResponse model info
//
//	@Description	response body for graph stats
type GraphStatsResponse struct {
	Graph     string `json:"graph"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

// GraphStats
//
//	@Summary		size of the loaded road network
//	@Tags			graph
//	@Produce		application/json
//	@Router			/graph/stats [get]
//	@Success		200	{object}	GraphStatsResponse
func (h *RoutingHandler) GraphStats(w http.ResponseWriter, r *http.Request) {
	graph, nodes, edges := h.svc.GraphStats(r.Context())
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &GraphStatsResponse{Graph: graph, NodeCount: nodes, EdgeCount: edges})
}

func validateRequest(data any) (render.Renderer, bool) {
	validate := validator.New()
	if err := validate.Struct(data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		return ErrValidation(err, vv), true
	}
	return nil, false
}

// errRenderer maps query failures onto http statuses: anything the caller
// can fix is a 400, the rest is a 500.
func errRenderer(err error) render.Renderer {
	switch {
	case errors.Is(err, idmap.ErrUnknownID),
		errors.Is(err, routingalgorithm.ErrInvalidSource),
		errors.Is(err, service.ErrUnknownMetric):
		return ErrInvalidRequest(err)
	case errors.Is(err, service.ErrSnapUnavailable):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusUnprocessableEntity,
			StatusText:     "Unprocessable request.",
			ErrorText:      err.Error(),
		}
	default:
		return ErrInternalServerErrorRend(errors.New("internal server error"))
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 500,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}

// ErrResponse model info
//
//	@Description	model for error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans))
		errs = append(errs, translatedErr)
	}
	return errs
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}
