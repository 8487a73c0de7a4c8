package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
)

// Ensure ExtractionsStore implements store.ExtractionsStore
var _ store.ExtractionsStore = (*ExtractionsStore)(nil)

// ExtractionsStore implements store.ExtractionsStore using GORM
type ExtractionsStore struct {
	db *gorm.DB
}

func NewExtractionsStore(db *gorm.DB) *ExtractionsStore {
	return &ExtractionsStore{db: db}
}

func (s *ExtractionsStore) CreateExtraction(ctx context.Context, d *model.DocumentExtraction) error {
	return conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		if d.YachtID != nil {
			if err := yachtExists(tx, *d.YachtID); err != nil {
				return err
			}
		}
		return translate(tx.Create(d).Error)
	})
}

func (s *ExtractionsStore) GetExtraction(ctx context.Context, id string) (*model.DocumentExtraction, error) {
	var d model.DocumentExtraction
	if err := first(conn(s.db, ctx), &d, id); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *ExtractionsStore) ListExtractions(ctx context.Context, filter store.ExtractionFilter, page store.Page) (store.List[model.DocumentExtraction], error) {
	q := conn(s.db, ctx).Model(&model.DocumentExtraction{})
	if filter.CreatedBy != "" {
		q = q.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.YachtID != "" {
		q = q.Where("yacht_id = ?", filter.YachtID)
	}
	return list[model.DocumentExtraction](q, page, "created_at DESC, id")
}
