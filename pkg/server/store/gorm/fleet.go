package gorm

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
)

var (
	_ store.YachtsStore    = (*YachtsStore)(nil)
	_ store.CrewStore      = (*CrewStore)(nil)
	_ store.EquipmentStore = (*EquipmentStore)(nil)
	_ store.InventoryStore = (*InventoryStore)(nil)
)

// YachtsStore implements store.YachtsStore using GORM
type YachtsStore struct {
	db *gorm.DB
}

func NewYachtsStore(db *gorm.DB) *YachtsStore {
	return &YachtsStore{db: db}
}

func (s *YachtsStore) ListYachts(ctx context.Context, filter store.YachtFilter, page store.Page) (store.List[model.Yacht], error) {
	q := conn(s.db, ctx).Model(&model.Yacht{})
	if filter.OwnerID != "" {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(registration_number) LIKE ?", like, like)
	}
	return list[model.Yacht](q, page, "name, id")
}

func (s *YachtsStore) GetYacht(ctx context.Context, id string) (*model.Yacht, error) {
	var y model.Yacht
	if err := first(conn(s.db, ctx), &y, id); err != nil {
		return nil, err
	}
	return &y, nil
}

func (s *YachtsStore) CreateYacht(ctx context.Context, y *model.Yacht) error {
	return translate(conn(s.db, ctx).Create(y).Error)
}

func (s *YachtsStore) UpdateYacht(ctx context.Context, y *model.Yacht) error {
	return conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Yacht
		if err := first(tx, &existing, y.ID); err != nil {
			return err
		}
		y.CreatedAt = existing.CreatedAt
		return translate(tx.Save(y).Error)
	})
}

// DeleteYacht removes the yacht with its crew, equipment and inventory.
// Extractions are kept and unlinked.
func (s *YachtsStore) DeleteYacht(ctx context.Context, id string) error {
	return conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&model.CrewMember{}, &model.Equipment{}, &model.InventoryItem{}} {
			if err := tx.Where("yacht_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&model.DocumentExtraction{}).Where("yacht_id = ?", id).Update("yacht_id", nil).Error; err != nil {
			return err
		}
		return deleteByID(tx, &model.Yacht{}, id)
	})
}

// CrewStore implements store.CrewStore using GORM
type CrewStore struct {
	db *gorm.DB
}

func NewCrewStore(db *gorm.DB) *CrewStore {
	return &CrewStore{db: db}
}

func (s *CrewStore) ListCrew(ctx context.Context, yachtID string, page store.Page) (store.List[model.CrewMember], error) {
	q := conn(s.db, ctx).Model(&model.CrewMember{}).Where("yacht_id = ?", yachtID)
	return list[model.CrewMember](q, page, "name, id")
}

func (s *CrewStore) GetCrewMember(ctx context.Context, id string) (*model.CrewMember, error) {
	var c model.CrewMember
	if err := first(conn(s.db, ctx), &c, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CrewStore) CreateCrewMember(ctx context.Context, c *model.CrewMember) error {
	return conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		if err := yachtExists(tx, c.YachtID); err != nil {
			return err
		}
		return translate(tx.Create(c).Error)
	})
}

func (s *CrewStore) UpdateCrewMember(ctx context.Context, c *model.CrewMember) error {
	return conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.CrewMember
		if err := first(tx, &existing, c.ID); err != nil {
			return err
		}
		c.YachtID = existing.YachtID
		c.CreatedAt = existing.CreatedAt
		return translate(tx.Save(c).Error)
	})
}

func (s *CrewStore) DeleteCrewMember(ctx context.Context, id string) error {
	return deleteByID(conn(s.db, ctx), &model.CrewMember{}, id)
}

// EquipmentStore implements store.EquipmentStore using GORM
type EquipmentStore struct {
	db *gorm.DB
}

func NewEquipmentStore(db *gorm.DB) *EquipmentStore {
	return &EquipmentStore{db: db}
}

func (s *EquipmentStore) ListEquipment(ctx context.Context, yachtID string, page store.Page) (store.List[model.Equipment], error) {
	q := conn(s.db, ctx).Model(&model.Equipment{}).Where("yacht_id = ?", yachtID)
	return list[model.Equipment](q, page, "name, id")
}

func (s *EquipmentStore) ListServiceDue(ctx context.Context, before time.Time, page store.Page) (store.List[model.Equipment], error) {
	q := conn(s.db, ctx).Model(&model.Equipment{}).
		Where("next_service_due IS NOT NULL AND next_service_due <= ?", before.UTC()).
		Where("status <> ?", model.EquipmentOutOfService)
	return list[model.Equipment](q, page, "next_service_due, id")
}

func (s *EquipmentStore) GetEquipment(ctx context.Context, id string) (*model.Equipment, error) {
	var e model.Equipment
	if err := first(conn(s.db, ctx), &e, id); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *EquipmentStore) CreateEquipment(ctx context.Context, e *model.Equipment) error {
	return conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		if err := yachtExists(tx, e.YachtID); err != nil {
			return err
		}
		return translate(tx.Create(e).Error)
	})
}

func (s *EquipmentStore) UpdateEquipment(ctx context.Context, e *model.Equipment) error {
	return conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Equipment
		if err := first(tx, &existing, e.ID); err != nil {
			return err
		}
		e.YachtID = existing.YachtID
		e.CreatedAt = existing.CreatedAt
		return translate(tx.Save(e).Error)
	})
}

func (s *EquipmentStore) DeleteEquipment(ctx context.Context, id string) error {
	return deleteByID(conn(s.db, ctx), &model.Equipment{}, id)
}

// InventoryStore implements store.InventoryStore using GORM
type InventoryStore struct {
	db *gorm.DB
}

func NewInventoryStore(db *gorm.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

func (s *InventoryStore) ListInventory(ctx context.Context, yachtID string, page store.Page) (store.List[model.InventoryItem], error) {
	q := conn(s.db, ctx).Model(&model.InventoryItem{}).Where("yacht_id = ?", yachtID)
	return list[model.InventoryItem](q, page, "name, id")
}

func (s *InventoryStore) ListLowStock(ctx context.Context, yachtID string, page store.Page) (store.List[model.InventoryItem], error) {
	q := conn(s.db, ctx).Model(&model.InventoryItem{}).Where("quantity <= min_quantity")
	if yachtID != "" {
		q = q.Where("yacht_id = ?", yachtID)
	}
	return list[model.InventoryItem](q, page, "yacht_id, name, id")
}

func (s *InventoryStore) GetInventoryItem(ctx context.Context, id string) (*model.InventoryItem, error) {
	var i model.InventoryItem
	if err := first(conn(s.db, ctx), &i, id); err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *InventoryStore) CreateInventoryItem(ctx context.Context, i *model.InventoryItem) error {
	return conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		if err := yachtExists(tx, i.YachtID); err != nil {
			return err
		}
		return translate(tx.Create(i).Error)
	})
}

func (s *InventoryStore) UpdateInventoryItem(ctx context.Context, i *model.InventoryItem) error {
	return conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.InventoryItem
		if err := first(tx, &existing, i.ID); err != nil {
			return err
		}
		i.YachtID = existing.YachtID
		i.CreatedAt = existing.CreatedAt
		return translate(tx.Save(i).Error)
	})
}

func (s *InventoryStore) DeleteInventoryItem(ctx context.Context, id string) error {
	return deleteByID(conn(s.db, ctx), &model.InventoryItem{}, id)
}
