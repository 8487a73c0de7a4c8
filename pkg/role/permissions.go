package role

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Resource names a protected area of the API.
type Resource string

// Action is an operation on a Resource.
type Action string

const (
	ResourceYachts        Resource = "yachts"
	ResourceCrew          Resource = "crew"
	ResourceEquipment     Resource = "equipment"
	ResourceInventory     Resource = "inventory"
	ResourceDocuments     Resource = "documents"
	ResourceAIProviders   Resource = "ai_providers"
	ResourceAIConsensus   Resource = "ai_consensus"
	ResourceNotifications Resource = "notifications"
	ResourceRoles         Resource = "roles"
	ResourceAnalytics     Resource = "analytics"
	ResourceSystem        Resource = "system"
)

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
	// ActionManage grants every action on the resource.
	ActionManage Action = "manage"
)

// Matrix maps a resource and action to the minimum role allowed to
// perform it.
type Matrix map[Resource]map[Action]Role

// DefaultMatrix returns a fresh copy of the built-in permission matrix.
func DefaultMatrix() Matrix {
	return Matrix{
		ResourceYachts: {
			ActionRead: RoleViewer, ActionWrite: RoleManager,
			ActionDelete: RoleAdmin, ActionManage: RoleAdmin,
		},
		ResourceCrew: {
			ActionRead: RoleUser, ActionWrite: RoleManager,
			ActionDelete: RoleManager, ActionManage: RoleAdmin,
		},
		ResourceEquipment: {
			ActionRead: RoleViewer, ActionWrite: RoleUser,
			ActionDelete: RoleManager, ActionManage: RoleAdmin,
		},
		ResourceInventory: {
			ActionRead: RoleViewer, ActionWrite: RoleUser,
			ActionDelete: RoleManager, ActionManage: RoleAdmin,
		},
		ResourceDocuments: {
			ActionRead: RoleUser, ActionWrite: RoleUser,
			ActionDelete: RoleManager, ActionManage: RoleAdmin,
		},
		ResourceAIProviders: {
			ActionRead: RoleAdmin, ActionManage: RoleSuperadmin,
		},
		ResourceAIConsensus: {
			ActionRead: RoleUser, ActionManage: RoleAdmin,
		},
		ResourceNotifications: {
			ActionWrite: RoleManager, ActionManage: RoleAdmin,
		},
		ResourceRoles: {
			ActionRead: RoleAdmin, ActionManage: RoleAdmin,
		},
		ResourceAnalytics: {
			ActionRead: RoleManager, ActionManage: RoleAdmin,
		},
		ResourceSystem: {
			ActionRead: RoleAdmin, ActionManage: RoleSuperadmin,
		},
	}
}

// Allows reports whether r may perform action on resource. A role that
// meets the resource's manage threshold may perform any action on it.
func (m Matrix) Allows(r Role, resource Resource, action Action) bool {
	if !r.IsARole() {
		return false
	}
	actions, ok := m[resource]
	if !ok {
		return false
	}
	if min, ok := actions[action]; ok && r.AtLeast(min) {
		return true
	}
	if min, ok := actions[ActionManage]; ok && r.AtLeast(min) {
		return true
	}
	return false
}

// Permissions lists the actions r may perform, per resource.
func (m Matrix) Permissions(r Role) map[Resource][]Action {
	result := make(map[Resource][]Action)
	for resource, actions := range m {
		var allowed []Action
		for action := range actions {
			if m.Allows(r, resource, action) {
				allowed = append(allowed, action)
			}
		}
		if len(allowed) == 0 {
			continue
		}
		sort.Slice(allowed, func(i, j int) bool { return allowed[i] < allowed[j] })
		result[resource] = allowed
	}
	return result
}

// LoadMatrix reads YAML overrides and merges them onto the defaults:
//
//	yachts:
//	  write: user
func LoadMatrix(r io.Reader) (Matrix, error) {
	var overrides Matrix
	if err := yaml.NewDecoder(r).Decode(&overrides); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse permission matrix: %w", err)
	}

	m := DefaultMatrix()
	for resource, actions := range overrides {
		if m[resource] == nil {
			m[resource] = make(map[Action]Role)
		}
		for action, min := range actions {
			m[resource][action] = min
		}
	}
	return m, nil
}

var defaultMatrix = DefaultMatrix()

// HasPermission checks r against the built-in matrix.
func HasPermission(r Role, resource Resource, action Action) bool {
	return defaultMatrix.Allows(r, resource, action)
}
