package role

//go:generate go run github.com/dmarkham/enumer -type Role -trimprefix Role -transform lower -json -text -yaml -sql -output role.gen.go

// Role is a position in the role hierarchy. Declaration order is rank:
// a later role holds every permission of an earlier one.
type Role int

const (
	RoleViewer Role = iota
	RoleUser
	RoleManager
	RoleAdmin
	RoleSuperadmin
)

// Level is the numeric hierarchy level used for comparisons.
func (r Role) Level() int {
	return int(r)
}

// AtLeast reports whether r ranks at or above min.
func (r Role) AtLeast(min Role) bool {
	return r.IsARole() && r >= min
}

// Highest returns the highest-ranked valid role in roles.
func Highest(roles ...Role) (Role, bool) {
	var best Role
	found := false
	for _, r := range roles {
		if !r.IsARole() {
			continue
		}
		if !found || r > best {
			best = r
			found = true
		}
	}
	return best, found
}

// ParseAll converts role names, skipping names that are not roles.
func ParseAll(names ...string) []Role {
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		if r, err := RoleString(n); err == nil {
			roles = append(roles, r)
		}
	}
	return roles
}
