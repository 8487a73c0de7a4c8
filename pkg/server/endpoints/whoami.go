package endpoints

import (
	"net/http"
	"time"

	"github.com/yachtexcel/yachtexcel/pkg/server"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	UserID     string    `json:"userId"`
	Email      string    `json:"email,omitempty"`
	Role       string    `json:"role"`
	RoleSource string    `json:"roleSource"`
	ClientIP   string    `json:"clientIp,omitempty"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	r := protected(s, "/whoami")
	r.HandleFunc("", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := caller(r)
		respondWithJSON(w, http.StatusOK, WhoamiResponse{
			UserID:     id.UserID,
			Email:      id.Email,
			Role:       id.Role.String(),
			RoleSource: id.RoleSource,
			ClientIP:   id.ClientIP(),
			ExpiresAt:  id.ExpiresAt,
		})
	}
}
