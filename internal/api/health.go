package api

import "net/http"

// healthResponse reports service liveness and the active store backend.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Store   string `json:"store"`
}

// HealthHandler returns the health check handler. backend names the event
// store implementation serving requests.
func HealthHandler(backend string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, healthResponse{
			Status:  "healthy",
			Version: "1.0.0",
			Store:   backend,
		})
	}
}
