package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/yachtexcel/yachtexcel/pkg/audit"
	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
)

// PermissionsResponse is the caller's effective role and what it allows.
type PermissionsResponse struct {
	UserID      string                          `json:"userId"`
	Role        role.Role                       `json:"role"`
	RoleSource  string                          `json:"roleSource"`
	Permissions map[role.Resource][]role.Action `json:"permissions"`
}

// AssignRoleRequest is the body of PUT /roles/{user_id}.
type AssignRoleRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RegisterRolesEndpoints registers role lookup and assignment endpoints
func RegisterRolesEndpoints(s *server.Server) {
	r := protected(s, "/roles")

	r.HandleFunc("/me/permissions", handleMyPermissions(s)).Methods("GET")
	r.HandleFunc("/{user_id}", requirePermission(s, role.ResourceRoles, role.ActionManage, handleGetRole(s))).Methods("GET")
	r.HandleFunc("/{user_id}", requirePermission(s, role.ResourceRoles, role.ActionManage, handleAssignRole(s))).Methods("PUT")
	r.HandleFunc("/{user_id}", requirePermission(s, role.ResourceRoles, role.ActionManage, handleRevokeRole(s))).Methods("DELETE")
}

func handleMyPermissions(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := caller(r)
		respondWithJSON(w, http.StatusOK, PermissionsResponse{
			UserID:      id.UserID,
			Role:        id.Role,
			RoleSource:  id.RoleSource,
			Permissions: s.Matrix.Permissions(id.Role),
		})
	}
}

func handleGetRole(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := s.RolesStore.GetAssignment(r.Context(), mux.Vars(r)["user_id"])
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "role assignment")
			return
		}
		respondWithJSON(w, http.StatusOK, a)
	}
}

func logRoleChange(r *http.Request, target, oldRole, newRole, op string, err error) {
	id := caller(r)
	event := audit.RoleChangeEvent{
		UserID:       id.UserID,
		ClientIP:     id.ClientIP(),
		TargetUserID: target,
		OldRole:      oldRole,
		NewRole:      newRole,
		Operation:    op,
		Success:      err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(r.Context(), event)
}

// guardTarget rejects changes to a user whose stored role ranks above the
// caller's. It reports whether the handler may continue.
func guardTarget(s *server.Server, w http.ResponseWriter, r *http.Request, target, newRole, op string) bool {
	current, err := s.RolesStore.GetAssignment(r.Context(), target)
	if errors.Is(err, store.ErrNotFound) {
		return true
	}
	if err != nil {
		respondWithStoreError(w, s.Logger, err, "role assignment")
		return false
	}
	if !caller(r).Role.AtLeast(current.Role) {
		err := errors.New("cannot change the role of a user ranked above you")
		logRoleChange(r, target, current.Role.String(), newRole, op, err)
		respondWithError(w, http.StatusForbidden, err.Error())
		return false
	}
	return true
}

// handleAssignRole stores a role for the user. Callers may not grant a role
// above their own or change the role of a user ranked above them.
func handleAssignRole(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := mux.Vars(r)["user_id"]
		var req AssignRoleRequest
		if !decodeJSON(w, r, maxBodyBytes, &req) {
			return
		}

		newRole, err := role.RoleString(strings.ToLower(strings.TrimSpace(req.Role)))
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "invalid role "+req.Role+": must be one of "+strings.Join(role.RoleStrings(), ", "))
			return
		}
		id := caller(r)
		if !id.Role.AtLeast(newRole) {
			err := errors.New("cannot grant a role above your own")
			logRoleChange(r, target, "", newRole.String(), "assign", err)
			respondWithError(w, http.StatusForbidden, err.Error())
			return
		}
		if !guardTarget(s, w, r, target, newRole.String(), "assign") {
			return
		}

		a := &model.RoleAssignment{
			UserID:     target,
			Email:      strings.ToLower(strings.TrimSpace(req.Email)),
			Role:       newRole,
			AssignedBy: id.UserID,
		}
		previous, err := s.RolesStore.AssignRole(r.Context(), a)
		oldRole := ""
		if previous != nil {
			oldRole = previous.Role.String()
		}
		logRoleChange(r, target, oldRole, newRole.String(), "assign", err)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "role assignment")
			return
		}
		respondWithJSON(w, http.StatusOK, a)
	}
}

func handleRevokeRole(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := mux.Vars(r)["user_id"]
		if !guardTarget(s, w, r, target, "", "revoke") {
			return
		}

		removed, err := s.RolesStore.RevokeRole(r.Context(), target)
		oldRole := ""
		if removed != nil {
			oldRole = removed.Role.String()
		}
		logRoleChange(r, target, oldRole, "", "revoke", err)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "role assignment")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
