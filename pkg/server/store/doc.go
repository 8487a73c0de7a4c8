// Package store defines the storage interfaces used by the HTTP endpoints.
//
// Endpoints depend only on these interfaces, so they can be tested with
// mocks. GORM implementations live in the gorm subpackage.
//
// # Available Stores
//
//   - YachtsStore, CrewStore, EquipmentStore, InventoryStore: fleet records
//   - AIProvidersStore, UsageStore: AI configuration and call analytics
//   - RolesStore: stored role assignments
//   - ExtractionsStore: Document AI extraction results
//   - HealthStore: database connectivity
//
// # Errors
//
// Implementations return ErrNotFound and ErrConflict so callers can map
// them without knowing the database:
//
//	y, err := yachts.GetYacht(ctx, id)
//	if errors.Is(err, store.ErrNotFound) {
//	    // 404
//	}
package store
