package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Position routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/positions", handler.ListPositions).Methods("GET")
	api.HandleFunc("/positions", handler.CreatePosition).Methods("POST")
	api.HandleFunc("/positions/{slug}", handler.GetPosition).Methods("GET")
	api.HandleFunc("/positions/{slug}", handler.UpdatePosition).Methods("PUT")
	api.HandleFunc("/positions/{slug}", handler.DeletePosition).Methods("DELETE")

	return r
}
