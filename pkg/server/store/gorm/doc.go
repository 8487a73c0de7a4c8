// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// Stores scope every query to the request context while keeping the cipher
// of the connection, so encrypted columns are sealed and opened by the model
// hooks. Driver errors are mapped onto store.ErrNotFound and
// store.ErrConflict.
package gorm
