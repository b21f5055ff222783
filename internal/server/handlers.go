package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mukesh1352/navcart/internal/domain"
	"github.com/mukesh1352/navcart/internal/pathfind"
	"github.com/mukesh1352/navcart/internal/service"
)

const sameNodeMessage = "Source and target are the same."

// Navigator is the query surface the HTTP API needs.
type Navigator interface {
	Graph(ctx context.Context) (domain.GraphView, error)
	ShortestPath(ctx context.Context, source, target string) (domain.Route, error)
	PlanRoute(ctx context.Context, req domain.TourRequest) (domain.Tour, error)
}

// APIHandlers exposes HTTP handlers for the navigation API.
type APIHandlers struct {
	logger *slog.Logger
	nav    Navigator
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, nav Navigator) *APIHandlers {
	return &APIHandlers{
		logger: logger,
		nav:    nav,
	}
}

func (h *APIHandlers) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	view, err := h.nav.Graph(r.Context())
	response := graphResponse{
		Nodes: make([]nodeResponse, 0, len(view.Nodes)),
		Edges: toEdgeResponses(view.Edges),
	}
	for _, n := range view.Nodes {
		response.Nodes = append(response.Nodes, nodeResponse{ID: n.ID, Label: n.Label})
	}

	status := http.StatusOK
	if err != nil {
		status, response.Error = h.classify(r, err)
	}
	respondJSON(w, status, response)
}

func (h *APIHandlers) handleShortestPath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	source, target := query.Get("source"), query.Get("target")
	if strings.TrimSpace(source) == "" || strings.TrimSpace(target) == "" {
		writeError(w, http.StatusBadRequest, "source and target query parameters are required")
		return
	}

	route, err := h.nav.ShortestPath(r.Context(), source, target)
	if err != nil {
		status, msg := h.classify(r, err)
		writeError(w, status, msg)
		return
	}

	response := pathResponse{
		Path:  route.Path,
		Edges: toEdgeResponses(route.Edges),
		Cost:  route.Cost,
	}
	if route.SameNode() {
		response.Message = sameNodeMessage
	} else {
		response.Labels = route.Labels
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req routeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("rejected route request body", "request_id", RequestID(r.Context()), "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tour, err := h.nav.PlanRoute(r.Context(), domain.TourRequest{
		Start:    req.Start,
		Stops:    req.Stops,
		Checkout: req.Checkout,
		End:      req.End,
	})
	if err != nil {
		status, msg := h.classify(r, err)
		writeError(w, status, msg)
		return
	}

	order := tour.Order
	if order == nil {
		order = []string{}
	}
	respondJSON(w, http.StatusOK, routeResponse{
		Order: order,
		Path:  tour.Path,
		Edges: toEdgeResponses(tour.Edges),
		Cost:  tour.Cost,
	})
}

// classify maps a query error to a status code and a caller-safe message.
// Store failures are checked first because they also carry the degraded
// query outcome.
func (h *APIHandlers) classify(r *http.Request, err error) (int, string) {
	var (
		missing *pathfind.NodeNotFoundError
		noPath  *pathfind.NoPathError
	)
	switch {
	case errors.Is(err, service.ErrStoreUnavailable):
		h.logger.Error("graph store unavailable", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
		return http.StatusServiceUnavailable, "graph store unavailable"
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, pathfind.ErrTooManyStops):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &missing):
		return http.StatusNotFound, fmt.Sprintf("%s node '%s' does not exist in the graph.", capitalize(string(missing.Endpoint)), missing.ID)
	case errors.As(err, &noPath):
		return http.StatusNotFound, fmt.Sprintf("No path found from '%s' to '%s'", noPath.Source, noPath.Target)
	default:
		h.logger.Error("navigation query failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
		return http.StatusInternalServerError, "internal server error"
	}
}

type nodeResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type edgeResponse struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

type graphResponse struct {
	Nodes []nodeResponse `json:"nodes"`
	Edges []edgeResponse `json:"edges"`
	Error string         `json:"error,omitempty"`
}

type pathResponse struct {
	Path    []string       `json:"path"`
	Labels  []string       `json:"labels,omitempty"`
	Edges   []edgeResponse `json:"edges"`
	Cost    float64        `json:"cost"`
	Message string         `json:"message,omitempty"`
}

type routeRequest struct {
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Checkout string   `json:"checkout"`
	Stops    []string `json:"stops"`
}

type routeResponse struct {
	Order []string       `json:"order"`
	Path  []string       `json:"path"`
	Edges []edgeResponse `json:"edges"`
	Cost  float64        `json:"cost"`
}

// --- Helpers ---

func toEdgeResponses(edges []domain.Edge) []edgeResponse {
	out := make([]edgeResponse, 0, len(edges))
	for _, e := range edges {
		out = append(out, edgeResponse{Source: e.Source, Target: e.Target, Weight: e.Weight})
	}
	return out
}

// decodeJSON decodes a single JSON object. An empty body decodes as the zero value.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
