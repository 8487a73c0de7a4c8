package endpoints

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gorilla/mux"

	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/notify"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server"
)

// RegisterCrewEndpoints registers the endpoints addressing a crew member by
// id. Listing and creation live under /yachts/{id}/crew.
func RegisterCrewEndpoints(s *server.Server) {
	r := protected(s, "/crew")

	r.HandleFunc("/{id}", requirePermission(s, role.ResourceCrew, role.ActionRead, handleGetCrewMember(s))).Methods("GET")
	r.HandleFunc("/{id}", requirePermission(s, role.ResourceCrew, role.ActionWrite, handleUpdateCrewMember(s))).Methods("PUT")
	r.HandleFunc("/{id}", requirePermission(s, role.ResourceCrew, role.ActionDelete, handleDeleteCrewMember(s))).Methods("DELETE")
}

func validateCrewMember(c *model.CrewMember) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := required(map[string]string{"name": c.Name}); err != nil {
		return err
	}
	if c.Status == "" {
		c.Status = model.CrewActive
	}
	if !c.Status.Valid() {
		return fmt.Errorf("invalid status %q", c.Status)
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return fmt.Errorf("invalid email %q", c.Email)
		}
	}
	if c.Phone != "" {
		c.Phone = notify.NormalizePhone(c.Phone)
	}
	return nil
}

func handleListCrew(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageFromRequest(r, s.Config())
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		y, ok := yachtFromPath(s, w, r)
		if !ok {
			return
		}

		crew, err := s.CrewStore.ListCrew(r.Context(), y.ID, page)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "crew member")
			return
		}
		respondWithJSON(w, http.StatusOK, crew)
	}
}

func handleGetCrewMember(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.CrewStore.GetCrewMember(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "crew member")
			return
		}
		respondWithJSON(w, http.StatusOK, c)
	}
}

func handleCreateCrewMember(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c model.CrewMember
		if !decodeJSON(w, r, maxBodyBytes, &c) {
			return
		}
		c.Base = model.Base{}
		c.YachtID = mux.Vars(r)["id"]
		if err := validateCrewMember(&c); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if err := s.CrewStore.CreateCrewMember(r.Context(), &c); err != nil {
			respondWithStoreError(w, s.Logger, err, "yacht")
			return
		}
		respondWithJSON(w, http.StatusCreated, c)
	}
}

func handleUpdateCrewMember(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, err := s.CrewStore.GetCrewMember(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "crew member")
			return
		}

		c := *existing
		if !decodeJSON(w, r, maxBodyBytes, &c) {
			return
		}
		c.Base = existing.Base
		c.YachtID = existing.YachtID
		if err := validateCrewMember(&c); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if err := s.CrewStore.UpdateCrewMember(r.Context(), &c); err != nil {
			respondWithStoreError(w, s.Logger, err, "crew member")
			return
		}
		respondWithJSON(w, http.StatusOK, c)
	}
}

func handleDeleteCrewMember(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.CrewStore.DeleteCrewMember(r.Context(), mux.Vars(r)["id"]); err != nil {
			respondWithStoreError(w, s.Logger, err, "crew member")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
