package store

import (
	"context"
	"time"

	"github.com/yachtexcel/yachtexcel/pkg/model"
)

// AIProvidersStore abstracts AI provider configuration storage. Providers
// are returned with their models and decrypted API keys.
type AIProvidersStore interface {
	// ListProviders returns providers ordered by priority, then name.
	ListProviders(ctx context.Context, enabledOnly bool) ([]model.AIProvider, error)
	GetProvider(ctx context.Context, id string) (*model.AIProvider, error)
	// CreateProvider returns ErrConflict if the name is taken.
	CreateProvider(ctx context.Context, p *model.AIProvider) error
	// UpdateProvider saves the provider row; models are left untouched.
	UpdateProvider(ctx context.Context, p *model.AIProvider) error
	DeleteProvider(ctx context.Context, id string) error
	// AddModel adds a model to a provider. A default model clears the
	// default flag of the provider's other models.
	AddModel(ctx context.Context, providerID string, m *model.AIModel) error
}

// UsageSummary aggregates AI calls per provider.
type UsageSummary struct {
	Provider     string  `gorm:"column:provider" json:"provider"`
	Calls        int64   `gorm:"column:calls" json:"calls"`
	Failures     int64   `gorm:"column:failures" json:"failures"`
	AvgLatencyMS float64 `gorm:"column:avg_latency_ms" json:"avgLatencyMs"`
	TotalTokens  int64   `gorm:"column:total_tokens" json:"totalTokens"`
}

// UsageStore records AI calls for analytics
type UsageStore interface {
	RecordUsage(ctx context.Context, u *model.AIUsageLog) error
	SummarizeUsage(ctx context.Context, since time.Time) ([]UsageSummary, error)
}
