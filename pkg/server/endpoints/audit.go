package endpoints

import (
	"net/http"
	"strconv"

	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server"
)

const defaultAuditLimit = 100

// RegisterAuditEndpoints registers the recent audit message listing.
func RegisterAuditEndpoints(s *server.Server) {
	r := protected(s, "/audit")
	r.HandleFunc("", requirePermission(s, role.ResourceSystem, role.ActionRead, handleRecentAudit(s))).Methods("GET")
}

func handleRecentAudit(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AuditStore == nil {
			respondWithError(w, http.StatusNotImplemented, "audit persistence is not enabled")
			return
		}

		limit := defaultAuditLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}
		if limitMax := s.Config().APIListLimitMax; limitMax > 0 && limit > limitMax {
			limit = limitMax
		}

		messages, err := s.AuditStore.Recent(r.Context(), limit)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "audit message")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"items": messages})
	}
}
