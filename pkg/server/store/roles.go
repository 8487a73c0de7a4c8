package store

import (
	"context"

	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/role"
)

// RolesStore abstracts stored role assignments. It also serves as the
// database step of role resolution.
type RolesStore interface {
	role.AssignmentSource

	// GetAssignment returns ErrNotFound if the user has no stored role.
	GetAssignment(ctx context.Context, userID string) (*model.RoleAssignment, error)
	// AssignRole creates or replaces the user's assignment and returns the
	// previous one, or nil.
	AssignRole(ctx context.Context, a *model.RoleAssignment) (*model.RoleAssignment, error)
	// RevokeRole returns the removed assignment, or ErrNotFound.
	RevokeRole(ctx context.Context, userID string) (*model.RoleAssignment, error)
}
