package store

import "context"

// HealthStore reports database health
type HealthStore interface {
	CheckConnectivity(ctx context.Context) error
}
