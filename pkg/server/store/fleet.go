package store

import (
	"context"
	"time"

	"github.com/yachtexcel/yachtexcel/pkg/model"
)

// YachtFilter narrows a yacht listing. Zero fields match everything.
type YachtFilter struct {
	OwnerID string
	Status  model.YachtStatus
	Search  string
}

// YachtsStore abstracts yacht profile storage
type YachtsStore interface {
	ListYachts(ctx context.Context, filter YachtFilter, page Page) (List[model.Yacht], error)
	// GetYacht returns ErrNotFound if the yacht doesn't exist.
	GetYacht(ctx context.Context, id string) (*model.Yacht, error)
	// CreateYacht returns ErrConflict if the registration number is taken.
	CreateYacht(ctx context.Context, y *model.Yacht) error
	UpdateYacht(ctx context.Context, y *model.Yacht) error
	// DeleteYacht removes the yacht and, through the schema, its crew,
	// equipment and inventory.
	DeleteYacht(ctx context.Context, id string) error
}

// CrewStore abstracts crew member storage
type CrewStore interface {
	ListCrew(ctx context.Context, yachtID string, page Page) (List[model.CrewMember], error)
	GetCrewMember(ctx context.Context, id string) (*model.CrewMember, error)
	// CreateCrewMember returns ErrNotFound if the yacht doesn't exist.
	CreateCrewMember(ctx context.Context, c *model.CrewMember) error
	UpdateCrewMember(ctx context.Context, c *model.CrewMember) error
	DeleteCrewMember(ctx context.Context, id string) error
}

// EquipmentStore abstracts equipment storage
type EquipmentStore interface {
	ListEquipment(ctx context.Context, yachtID string, page Page) (List[model.Equipment], error)
	// ListServiceDue lists equipment whose next service is due on or before the given time.
	ListServiceDue(ctx context.Context, before time.Time, page Page) (List[model.Equipment], error)
	GetEquipment(ctx context.Context, id string) (*model.Equipment, error)
	CreateEquipment(ctx context.Context, e *model.Equipment) error
	UpdateEquipment(ctx context.Context, e *model.Equipment) error
	DeleteEquipment(ctx context.Context, id string) error
}

// InventoryStore abstracts inventory storage
type InventoryStore interface {
	ListInventory(ctx context.Context, yachtID string, page Page) (List[model.InventoryItem], error)
	// ListLowStock lists items at or below their minimum quantity,
	// optionally for one yacht.
	ListLowStock(ctx context.Context, yachtID string, page Page) (List[model.InventoryItem], error)
	GetInventoryItem(ctx context.Context, id string) (*model.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, i *model.InventoryItem) error
	UpdateInventoryItem(ctx context.Context, i *model.InventoryItem) error
	DeleteInventoryItem(ctx context.Context, id string) error
}
