package model

import "github.com/yachtexcel/yachtexcel/pkg/role"

// RoleAssignment is the stored role of a user.
type RoleAssignment struct {
	Base
	UserID     string    `gorm:"column:user_id;size:64;not null;uniqueIndex" json:"userId"`
	Email      string    `gorm:"column:email;size:254" json:"email,omitempty"`
	Role       role.Role `gorm:"column:role;type:varchar(16);not null" json:"role"`
	AssignedBy string    `gorm:"column:assigned_by;size:64" json:"assignedBy,omitempty"`
}

func (RoleAssignment) TableName() string {
	return "role_assignments"
}
