package model

// All lists every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&Yacht{},
		&CrewMember{},
		&Equipment{},
		&InventoryItem{},
		&AIProvider{},
		&AIModel{},
		&RoleAssignment{},
		&DocumentExtraction{},
		&AIUsageLog{},
	}
}
