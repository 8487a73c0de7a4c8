package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yachtexcel/yachtexcel/pkg/vault"
)

// Base holds the columns shared by every table.
type Base struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (b *Base) ensureID() {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	b.ensureID()
	return nil
}

var errNoCipher = errors.New("model: no cipher in database context")

func cipherFor(tx *gorm.DB) (vault.SymmetricCipher, error) {
	if tx.Statement != nil && tx.Statement.Context != nil {
		if c, ok := vault.FromContext(tx.Statement.Context); ok {
			return c, nil
		}
	}
	return nil, errNoCipher
}
