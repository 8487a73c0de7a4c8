package endpoints

import (
	"github.com/yachtexcel/yachtexcel/pkg/server"
	"github.com/yachtexcel/yachtexcel/pkg/server/middleware"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(s *server.Server) {
	if s.JWTMiddleware == nil {
		// No signing secret: every protected request is rejected.
		s.JWTMiddleware = middleware.NewJWTAuthenticator(nil, s.Resolver, s.Logger)
	}
	s.Router.Use(s.Metrics.Middleware)

	RegisterStatusEndpoints(s)
	RegisterWhoamiEndpoint(s)
	RegisterYachtsEndpoints(s)
	RegisterCrewEndpoints(s)
	RegisterEquipmentEndpoints(s)
	RegisterInventoryEndpoints(s)
	RegisterAIEndpoints(s)
	RegisterDocumentsEndpoints(s)
	RegisterRolesEndpoints(s)
	RegisterNotificationsEndpoints(s)
	RegisterAuditEndpoints(s)
}
