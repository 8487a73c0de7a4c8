// Package model defines the GORM models for the fleet database.
//
// # Core Models
//
//   - Yacht: a yacht profile, the root of every fleet record
//   - CrewMember: crew assigned to a yacht
//   - Equipment: installed equipment and its service schedule
//   - InventoryItem: stock kept aboard, with a reorder threshold
//   - AIProvider, AIModel: AI vendor configuration; API keys are encrypted
//   - RoleAssignment: the stored role of a user
//   - DocumentExtraction: the mapped result of a Document AI run
//   - AIUsageLog: one AI provider call, for analytics
//
// Primary keys are UUID strings assigned on create. Referential integrity
// (crew, equipment and inventory belong to a yacht) is enforced by the
// database schema in db/migrations.
package model
