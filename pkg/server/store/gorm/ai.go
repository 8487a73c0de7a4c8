package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
)

var (
	_ store.AIProvidersStore = (*AIProvidersStore)(nil)
	_ store.UsageStore       = (*UsageStore)(nil)
)

// AIProvidersStore implements store.AIProvidersStore using GORM
type AIProvidersStore struct {
	db *gorm.DB
}

func NewAIProvidersStore(db *gorm.DB) *AIProvidersStore {
	return &AIProvidersStore{db: db}
}

func withModels(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Models", func(db *gorm.DB) *gorm.DB {
		return db.Order("is_default DESC, name")
	})
}

func (s *AIProvidersStore) ListProviders(ctx context.Context, enabledOnly bool) ([]model.AIProvider, error) {
	q := withModels(conn(s.db, ctx))
	if enabledOnly {
		q = q.Where("enabled = ?", true)
	}
	providers := []model.AIProvider{}
	if err := q.Order("priority, name").Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

func (s *AIProvidersStore) GetProvider(ctx context.Context, id string) (*model.AIProvider, error) {
	var p model.AIProvider
	if err := first(withModels(conn(s.db, ctx)), &p, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *AIProvidersStore) CreateProvider(ctx context.Context, p *model.AIProvider) error {
	return conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		models := p.Models
		p.Models = nil
		if err := translate(tx.Create(p).Error); err != nil {
			return err
		}
		for i := range models {
			if err := addModel(tx, p.ID, &models[i]); err != nil {
				return err
			}
		}
		p.Models = models
		return nil
	})
}

func (s *AIProvidersStore) UpdateProvider(ctx context.Context, p *model.AIProvider) error {
	return conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.AIProvider
		if err := first(tx, &existing, p.ID); err != nil {
			return err
		}
		p.CreatedAt = existing.CreatedAt
		if p.APIKey == "" {
			p.EncryptedAPIKey = existing.EncryptedAPIKey
		}
		return translate(tx.Omit(clause.Associations).Save(p).Error)
	})
}

func (s *AIProvidersStore) DeleteProvider(ctx context.Context, id string) error {
	return conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_id = ?", id).Delete(&model.AIModel{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &model.AIProvider{}, id)
	})
}

func (s *AIProvidersStore) AddModel(ctx context.Context, providerID string, m *model.AIModel) error {
	return conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.AIProvider{}).Where("id = ?", providerID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return store.ErrNotFound
		}
		return addModel(tx, providerID, m)
	})
}

func addModel(tx *gorm.DB, providerID string, m *model.AIModel) error {
	var n int64
	if err := tx.Model(&model.AIModel{}).Where("provider_id = ? AND name = ?", providerID, m.Name).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return store.ErrConflict
	}
	if m.IsDefault {
		if err := tx.Model(&model.AIModel{}).Where("provider_id = ?", providerID).Update("is_default", false).Error; err != nil {
			return err
		}
	}
	m.ProviderID = providerID
	return translate(tx.Create(m).Error)
}

// UsageStore implements store.UsageStore using GORM
type UsageStore struct {
	db *gorm.DB
}

func NewUsageStore(db *gorm.DB) *UsageStore {
	return &UsageStore{db: db}
}

func (s *UsageStore) RecordUsage(ctx context.Context, u *model.AIUsageLog) error {
	return translate(conn(s.db, ctx).Create(u).Error)
}

func (s *UsageStore) SummarizeUsage(ctx context.Context, since time.Time) ([]store.UsageSummary, error) {
	summaries := []store.UsageSummary{}
	err := conn(s.db, ctx).Model(&model.AIUsageLog{}).
		Select(`provider,
			COUNT(*) AS calls,
			SUM(CASE WHEN success THEN 0 ELSE 1 END) AS failures,
			COALESCE(AVG(latency_ms), 0) AS avg_latency_ms,
			COALESCE(SUM(total_tokens), 0) AS total_tokens`).
		Where("created_at >= ?", since.UTC()).
		Group("provider").
		Order("provider").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
