package model

// AIUsageLog is one call to an AI provider.
type AIUsageLog struct {
	Base
	Provider    string `gorm:"column:provider;size:100;not null;index" json:"provider"`
	Model       string `gorm:"column:model;size:100" json:"model"`
	Operation   string `gorm:"column:operation;size:32" json:"operation"`
	LatencyMS   int64  `gorm:"column:latency_ms" json:"latencyMs"`
	Success     bool   `gorm:"column:success;not null" json:"success"`
	Error       string `gorm:"column:error" json:"error,omitempty"`
	TotalTokens int    `gorm:"column:total_tokens" json:"totalTokens,omitempty"`
	CreatedBy   string `gorm:"column:created_by;size:64" json:"createdBy,omitempty"`
}

func (AIUsageLog) TableName() string {
	return "ai_usage_logs"
}
