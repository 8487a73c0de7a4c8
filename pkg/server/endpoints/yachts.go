package endpoints

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
)

// RegisterYachtsEndpoints registers the yacht profile endpoints and the
// per-yacht crew, equipment and inventory collections.
func RegisterYachtsEndpoints(s *server.Server) {
	r := protected(s, "/yachts")

	r.HandleFunc("", requirePermission(s, role.ResourceYachts, role.ActionRead, handleListYachts(s))).Methods("GET")
	r.HandleFunc("", requirePermission(s, role.ResourceYachts, role.ActionWrite, handleCreateYacht(s))).Methods("POST")
	r.HandleFunc("/{id}", requirePermission(s, role.ResourceYachts, role.ActionRead, handleGetYacht(s))).Methods("GET")
	r.HandleFunc("/{id}", requirePermission(s, role.ResourceYachts, role.ActionWrite, handleUpdateYacht(s))).Methods("PUT")
	r.HandleFunc("/{id}", requirePermission(s, role.ResourceYachts, role.ActionDelete, handleDeleteYacht(s))).Methods("DELETE")

	r.HandleFunc("/{id}/crew", requirePermission(s, role.ResourceCrew, role.ActionRead, handleListCrew(s))).Methods("GET")
	r.HandleFunc("/{id}/crew", requirePermission(s, role.ResourceCrew, role.ActionWrite, handleCreateCrewMember(s))).Methods("POST")
	r.HandleFunc("/{id}/equipment", requirePermission(s, role.ResourceEquipment, role.ActionRead, handleListEquipment(s))).Methods("GET")
	r.HandleFunc("/{id}/equipment", requirePermission(s, role.ResourceEquipment, role.ActionWrite, handleCreateEquipment(s))).Methods("POST")
	r.HandleFunc("/{id}/inventory", requirePermission(s, role.ResourceInventory, role.ActionRead, handleListInventory(s))).Methods("GET")
	r.HandleFunc("/{id}/inventory", requirePermission(s, role.ResourceInventory, role.ActionWrite, handleCreateInventoryItem(s))).Methods("POST")
}

func validateYacht(y *model.Yacht) error {
	y.Name = strings.TrimSpace(y.Name)
	y.RegistrationNumber = strings.TrimSpace(y.RegistrationNumber)
	if err := required(map[string]string{
		"name":               y.Name,
		"registrationNumber": y.RegistrationNumber,
	}); err != nil {
		return err
	}
	if y.Status == "" {
		y.Status = model.YachtActive
	}
	if !y.Status.Valid() {
		return fmt.Errorf("invalid status %q", y.Status)
	}
	if y.LengthOverall < 0 || y.Beam < 0 || y.Draft < 0 || y.GrossTonnage < 0 {
		return fmt.Errorf("dimensions must not be negative")
	}
	return nil
}

func handleListYachts(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageFromRequest(r, s.Config())
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		q := r.URL.Query()
		filter := store.YachtFilter{
			OwnerID: q.Get("owner"),
			Status:  model.YachtStatus(q.Get("status")),
			Search:  strings.TrimSpace(q.Get("search")),
		}
		if q.Get("mine") == "true" {
			filter.OwnerID = caller(r).UserID
		}
		if filter.Status != "" && !filter.Status.Valid() {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", filter.Status))
			return
		}

		yachts, err := s.YachtsStore.ListYachts(r.Context(), filter, page)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "yacht")
			return
		}
		respondWithJSON(w, http.StatusOK, yachts)
	}
}

func handleGetYacht(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		y, err := s.YachtsStore.GetYacht(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "yacht")
			return
		}
		respondWithJSON(w, http.StatusOK, y)
	}
}

func handleCreateYacht(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var y model.Yacht
		if !decodeJSON(w, r, maxBodyBytes, &y) {
			return
		}
		y.Base = model.Base{}
		if y.OwnerID == "" {
			y.OwnerID = caller(r).UserID
		}
		if err := validateYacht(&y); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if err := s.YachtsStore.CreateYacht(r.Context(), &y); err != nil {
			respondWithStoreError(w, s.Logger, err, "yacht")
			return
		}
		respondWithJSON(w, http.StatusCreated, y)
	}
}

// handleUpdateYacht applies the fields present in the body to the stored
// yacht. Identity and ownership are kept from the stored record.
func handleUpdateYacht(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, err := s.YachtsStore.GetYacht(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "yacht")
			return
		}

		y := *existing
		if !decodeJSON(w, r, maxBodyBytes, &y) {
			return
		}
		y.Base = existing.Base
		y.OwnerID = existing.OwnerID
		if err := validateYacht(&y); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if err := s.YachtsStore.UpdateYacht(r.Context(), &y); err != nil {
			respondWithStoreError(w, s.Logger, err, "yacht")
			return
		}
		respondWithJSON(w, http.StatusOK, y)
	}
}

func handleDeleteYacht(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.YachtsStore.DeleteYacht(r.Context(), mux.Vars(r)["id"]); err != nil {
			respondWithStoreError(w, s.Logger, err, "yacht")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// yachtFromPath loads the yacht named by the {id} path variable, writing a
// 404 if it does not exist.
func yachtFromPath(s *server.Server, w http.ResponseWriter, r *http.Request) (*model.Yacht, bool) {
	y, err := s.YachtsStore.GetYacht(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithStoreError(w, s.Logger, err, "yacht")
		return nil, false
	}
	return y, true
}
