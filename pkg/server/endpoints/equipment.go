package endpoints

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server"
)

const (
	defaultDueDays = 30
	maxDueDays     = 366
)

// RegisterEquipmentEndpoints registers the equipment endpoints. Listing and
// creation live under /yachts/{id}/equipment.
func RegisterEquipmentEndpoints(s *server.Server) {
	r := protected(s, "/equipment")

	// Before /{id} so "due" is not taken for an id.
	r.HandleFunc("/due", requirePermission(s, role.ResourceEquipment, role.ActionRead, handleServiceDue(s))).Methods("GET")
	r.HandleFunc("/{id}", requirePermission(s, role.ResourceEquipment, role.ActionRead, handleGetEquipment(s))).Methods("GET")
	r.HandleFunc("/{id}", requirePermission(s, role.ResourceEquipment, role.ActionWrite, handleUpdateEquipment(s))).Methods("PUT")
	r.HandleFunc("/{id}", requirePermission(s, role.ResourceEquipment, role.ActionDelete, handleDeleteEquipment(s))).Methods("DELETE")
}

func validateEquipment(e *model.Equipment) error {
	e.Name = strings.TrimSpace(e.Name)
	if err := required(map[string]string{"name": e.Name}); err != nil {
		return err
	}
	if e.Status == "" {
		e.Status = model.EquipmentOperational
	}
	if !e.Status.Valid() {
		return fmt.Errorf("invalid status %q", e.Status)
	}
	if e.LastServiceAt != nil && e.NextServiceDue != nil && e.NextServiceDue.Before(*e.LastServiceAt) {
		return fmt.Errorf("nextServiceDue must not be before lastServiceAt")
	}
	return nil
}

// handleServiceDue lists equipment due for service within ?days=N (default
// 30). Overdue equipment is included.
func handleServiceDue(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageFromRequest(r, s.Config())
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		days := defaultDueDays
		if v := r.URL.Query().Get("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 || n > maxDueDays {
				respondWithError(w, http.StatusBadRequest, fmt.Sprintf("days must be an integer between 0 and %d", maxDueDays))
				return
			}
			days = n
		}

		before := time.Now().UTC().AddDate(0, 0, days)
		due, err := s.EquipmentStore.ListServiceDue(r.Context(), before, page)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "equipment")
			return
		}
		respondWithJSON(w, http.StatusOK, due)
	}
}

func handleListEquipment(s *server.Server) http.HandlerFunc {
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

		equipment, err := s.EquipmentStore.ListEquipment(r.Context(), y.ID, page)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "equipment")
			return
		}
		respondWithJSON(w, http.StatusOK, equipment)
	}
}

func handleGetEquipment(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := s.EquipmentStore.GetEquipment(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "equipment")
			return
		}
		respondWithJSON(w, http.StatusOK, e)
	}
}

func handleCreateEquipment(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e model.Equipment
		if !decodeJSON(w, r, maxBodyBytes, &e) {
			return
		}
		e.Base = model.Base{}
		e.YachtID = mux.Vars(r)["id"]
		if err := validateEquipment(&e); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if err := s.EquipmentStore.CreateEquipment(r.Context(), &e); err != nil {
			respondWithStoreError(w, s.Logger, err, "yacht")
			return
		}
		respondWithJSON(w, http.StatusCreated, e)
	}
}

func handleUpdateEquipment(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, err := s.EquipmentStore.GetEquipment(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "equipment")
			return
		}

		e := *existing
		if !decodeJSON(w, r, maxBodyBytes, &e) {
			return
		}
		e.Base = existing.Base
		e.YachtID = existing.YachtID
		if err := validateEquipment(&e); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if err := s.EquipmentStore.UpdateEquipment(r.Context(), &e); err != nil {
			respondWithStoreError(w, s.Logger, err, "equipment")
			return
		}
		respondWithJSON(w, http.StatusOK, e)
	}
}

func handleDeleteEquipment(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.EquipmentStore.DeleteEquipment(r.Context(), mux.Vars(r)["id"]); err != nil {
			respondWithStoreError(w, s.Logger, err, "equipment")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
