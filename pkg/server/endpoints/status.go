package endpoints

import (
	"context"
	"net/http"
	"time"

	"github.com/yachtexcel/yachtexcel/pkg/server"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
)

// StatusResponse is the body of GET /.
type StatusResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

const healthTimeout = 5 * time.Second

// RegisterStatusEndpoints registers the unauthenticated status, health and
// metrics endpoints.
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleStatus(s.Version)).Methods("GET")
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore)).Methods("GET")
	if s.Metrics != nil && s.Config().MetricsEnabled {
		s.Router.Handle("/metrics", s.Metrics.Handler()).Methods("GET")
	}
}

func handleStatus(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, StatusResponse{
			Service: "yachtexcel",
			Version: version,
		})
	}
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if healthStore == nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:   "error",
				Database: "unconfigured",
			})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := healthStore.CheckConnectivity(ctx); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:   "error",
				Database: "unreachable",
				Error:    "database connectivity check failed",
			})
			return
		}

		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
	}
}
