package endpoints

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server"
)

// InventoryItemResponse adds derived stock figures to an item.
type InventoryItemResponse struct {
	model.InventoryItem
	LowStock   bool    `json:"lowStock"`
	StockValue float64 `json:"stockValue"`
}

func inventoryResponse(i model.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{InventoryItem: i, LowStock: i.LowStock(), StockValue: i.StockValue()}
}

// RegisterInventoryEndpoints registers the inventory endpoints. Listing and
// creation live under /yachts/{id}/inventory.
func RegisterInventoryEndpoints(s *server.Server) {
	r := protected(s, "/inventory")

	r.HandleFunc("/low-stock", requirePermission(s, role.ResourceInventory, role.ActionRead, handleLowStock(s))).Methods("GET")
	r.HandleFunc("/{id}", requirePermission(s, role.ResourceInventory, role.ActionRead, handleGetInventoryItem(s))).Methods("GET")
	r.HandleFunc("/{id}", requirePermission(s, role.ResourceInventory, role.ActionWrite, handleUpdateInventoryItem(s))).Methods("PUT")
	r.HandleFunc("/{id}", requirePermission(s, role.ResourceInventory, role.ActionDelete, handleDeleteInventoryItem(s))).Methods("DELETE")
}

func validateInventoryItem(i *model.InventoryItem) error {
	i.Name = strings.TrimSpace(i.Name)
	if err := required(map[string]string{"name": i.Name}); err != nil {
		return err
	}
	if i.Quantity < 0 || i.MinQuantity < 0 {
		return fmt.Errorf("quantities must not be negative")
	}
	if i.UnitPrice < 0 {
		return fmt.Errorf("unitPrice must not be negative")
	}
	if i.Currency != "" {
		i.Currency = strings.ToUpper(i.Currency)
		if len(i.Currency) != 3 {
			return fmt.Errorf("currency must be a three-letter code")
		}
	}
	return nil
}

func respondWithInventory(w http.ResponseWriter, code int, items []model.InventoryItem, total int64, limit, offset int) {
	out := make([]InventoryItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, inventoryResponse(i))
	}
	respondWithJSON(w, code, map[string]interface{}{
		"items":  out,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// handleLowStock lists items at or below their minimum quantity across the
// fleet, or for ?yacht=ID.
func handleLowStock(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageFromRequest(r, s.Config())
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		items, err := s.InventoryStore.ListLowStock(r.Context(), r.URL.Query().Get("yacht"), page)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "inventory item")
			return
		}
		respondWithInventory(w, http.StatusOK, items.Items, items.Total, items.Limit, items.Offset)
	}
}

func handleListInventory(s *server.Server) http.HandlerFunc {
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

		items, err := s.InventoryStore.ListInventory(r.Context(), y.ID, page)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "inventory item")
			return
		}
		respondWithInventory(w, http.StatusOK, items.Items, items.Total, items.Limit, items.Offset)
	}
}

func handleGetInventoryItem(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, err := s.InventoryStore.GetInventoryItem(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "inventory item")
			return
		}
		respondWithJSON(w, http.StatusOK, inventoryResponse(*i))
	}
}

func handleCreateInventoryItem(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var i model.InventoryItem
		if !decodeJSON(w, r, maxBodyBytes, &i) {
			return
		}
		i.Base = model.Base{}
		i.YachtID = mux.Vars(r)["id"]
		if err := validateInventoryItem(&i); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if err := s.InventoryStore.CreateInventoryItem(r.Context(), &i); err != nil {
			respondWithStoreError(w, s.Logger, err, "yacht")
			return
		}
		respondWithJSON(w, http.StatusCreated, inventoryResponse(i))
	}
}

func handleUpdateInventoryItem(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, err := s.InventoryStore.GetInventoryItem(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "inventory item")
			return
		}

		i := *existing
		if !decodeJSON(w, r, maxBodyBytes, &i) {
			return
		}
		i.Base = existing.Base
		i.YachtID = existing.YachtID
		if err := validateInventoryItem(&i); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if err := s.InventoryStore.UpdateInventoryItem(r.Context(), &i); err != nil {
			respondWithStoreError(w, s.Logger, err, "inventory item")
			return
		}
		respondWithJSON(w, http.StatusOK, inventoryResponse(i))
	}
}

func handleDeleteInventoryItem(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.InventoryStore.DeleteInventoryItem(r.Context(), mux.Vars(r)["id"]); err != nil {
			respondWithStoreError(w, s.Logger, err, "inventory item")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
