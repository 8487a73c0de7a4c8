package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yachtexcel/yachtexcel/pkg/audit"
	"github.com/yachtexcel/yachtexcel/pkg/identity"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server"
)

// protected returns a subrouter for prefix that requires a valid access
// token.
func protected(s *server.Server, prefix string) *mux.Router {
	r := s.Router.PathPrefix(prefix).Subrouter()
	r.Use(s.JWTMiddleware.Middleware)
	return r
}

// requirePermission wraps h so that it only runs when the caller's role is
// allowed action on resource. Denials are audited and answered with 403.
func requirePermission(s *server.Server, resource role.Resource, action role.Action, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authorization missing")
			return
		}

		if !id.Can(s.Matrix, resource, action) {
			audit.Log(r.Context(), audit.AccessEvent{
				UserID:   id.UserID,
				Role:     id.Role.String(),
				ClientIP: id.ClientIP(),
				Resource: string(resource),
				Action:   string(action),
				Allowed:  false,
			})
			respondWithError(w, http.StatusForbidden,
				"role "+id.Role.String()+" may not "+string(action)+" "+string(resource))
			return
		}

		h(w, r)
	}
}

// caller returns the identity set by the JWT middleware. Handlers behind
// protected always have one.
func caller(r *http.Request) *identity.Identity {
	if id, ok := identity.Get(r.Context()); ok {
		return id
	}
	return &identity.Identity{}
}
