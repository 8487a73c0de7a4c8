// Package db connects to the fleet database and manages its schema.
//
// Postgres is the production database; its schema is created by the SQL
// migrations under db/migrations, applied with golang-migrate. Builds tagged
// embed_migrations carry the migrations in the binary. SQLite URLs are
// accepted for development and tests and are migrated from the models.
package db
