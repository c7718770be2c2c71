package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/portix/portfolio-service/internal/database"
	"github.com/portix/portfolio-service/internal/models"
	"github.com/portix/portfolio-service/internal/portfolio"
	"github.com/sirupsen/logrus"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service *portfolio.Service
	log     *logrus.Logger
}

// NewHandler creates a new Handler
func NewHandler(service *portfolio.Service, log *logrus.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

type errorResponse struct {
	Error   string   `json:"error"`
	Allowed []string `json:"allowed,omitempty"`
}

// ListPositions handles GET /api/positions
func (h *Handler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.service.ListPositions(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to list positions")
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list positions"})
		return
	}
	if positions == nil {
		positions = []*models.Position{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": positions})
}

// CreatePosition handles POST /api/positions
func (h *Handler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var input models.CreatePositionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	position, err := h.service.CreatePosition(r.Context(), &input)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, position)
}

// GetPosition handles GET /api/positions/{slug}
func (h *Handler) GetPosition(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	position, err := h.service.GetPosition(r.Context(), slug)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, position)
}

// UpdatePosition handles PUT /api/positions/{slug}
func (h *Handler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var input models.UpdatePositionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	position, err := h.service.UpdatePosition(r.Context(), slug, &input)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, position)
}

// DeletePosition handles DELETE /api/positions/{slug}
func (h *Handler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	if err := h.service.DeletePosition(r.Context(), slug); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// respondError maps repository failure types onto HTTP statuses: validation
// errors carry the allowed value set, conflicts are distinct from generic
// failures, and everything else is opaque.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var vErr *database.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Message, Allowed: vErr.Allowed})
	case errors.Is(err, database.ErrPositionExists):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, database.ErrPositionNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		h.log.WithError(err).Error("unexpected failure")
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
