package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
)

// Ensure RolesStore implements store.RolesStore
var _ store.RolesStore = (*RolesStore)(nil)

// RolesStore implements store.RolesStore using GORM
type RolesStore struct {
	db *gorm.DB
}

func NewRolesStore(db *gorm.DB) *RolesStore {
	return &RolesStore{db: db}
}

// RolesForUser returns the stored role of the user, if any.
func (s *RolesStore) RolesForUser(ctx context.Context, userID string) ([]role.Role, error) {
	a, err := s.GetAssignment(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []role.Role{a.Role}, nil
}

func (s *RolesStore) GetAssignment(ctx context.Context, userID string) (*model.RoleAssignment, error) {
	var a model.RoleAssignment
	if err := translate(conn(s.db, ctx).Where("user_id = ?", userID).First(&a).Error); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *RolesStore) AssignRole(ctx context.Context, a *model.RoleAssignment) (*model.RoleAssignment, error) {
	var previous *model.RoleAssignment
	err := conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.RoleAssignment
		err := translate(tx.Where("user_id = ?", a.UserID).First(&existing).Error)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return translate(tx.Create(a).Error)
		case err != nil:
			return err
		}

		prev := existing
		previous = &prev
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
		if a.Email == "" {
			a.Email = existing.Email
		}
		return translate(tx.Save(a).Error)
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}

func (s *RolesStore) RevokeRole(ctx context.Context, userID string) (*model.RoleAssignment, error) {
	var removed model.RoleAssignment
	err := conn(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		if err := translate(tx.Where("user_id = ?", userID).First(&removed).Error); err != nil {
			return err
		}
		return deleteByID(tx, &model.RoleAssignment{}, removed.ID)
	})
	if err != nil {
		return nil, err
	}
	return &removed, nil
}
