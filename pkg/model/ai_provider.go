package model

import (
	"fmt"

	"gorm.io/gorm"
)

// ProviderKind selects the wire protocol used to call a provider.
type ProviderKind string

const (
	ProviderOpenAI   ProviderKind = "openai"
	ProviderGrok     ProviderKind = "grok"
	ProviderDeepSeek ProviderKind = "deepseek"
	ProviderGemini   ProviderKind = "gemini"
)

func (k ProviderKind) Valid() bool {
	switch k {
	case ProviderOpenAI, ProviderGrok, ProviderDeepSeek, ProviderGemini:
		return true
	}
	return false
}

// AIProvider is a configured AI vendor. APIKey is never stored in clear:
// it is sealed into EncryptedAPIKey on save, with the row id as associated
// data, and opened again after find.
type AIProvider struct {
	Base
	Name            string       `gorm:"column:name;size:100;not null;uniqueIndex" json:"name"`
	Kind            ProviderKind `gorm:"column:kind;size:16;not null" json:"kind"`
	BaseURL         string       `gorm:"column:base_url;size:500" json:"baseUrl,omitempty"`
	APIKey          string       `gorm:"-" json:"-"`
	EncryptedAPIKey []byte       `gorm:"column:api_key_encrypted" json:"-"`
	Enabled         bool         `gorm:"column:enabled;not null" json:"enabled"`
	Priority        int          `gorm:"column:priority;not null;default:0" json:"priority"`
	Models          []AIModel    `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"models,omitempty"`
}

func (AIProvider) TableName() string {
	return "ai_providers"
}

func (p *AIProvider) BeforeSave(tx *gorm.DB) error {
	p.ensureID()
	if p.APIKey == "" {
		return nil
	}

	c, err := cipherFor(tx)
	if err != nil {
		return err
	}
	sealed, err := c.Encrypt([]byte(p.ID), []byte(p.APIKey))
	if err != nil {
		return fmt.Errorf("api key encryption failed for provider %q", p.Name)
	}
	p.EncryptedAPIKey = sealed
	return nil
}

func (p *AIProvider) AfterFind(tx *gorm.DB) error {
	if len(p.EncryptedAPIKey) == 0 {
		return nil
	}

	c, err := cipherFor(tx)
	if err != nil {
		return err
	}
	plain, err := c.Decrypt([]byte(p.ID), p.EncryptedAPIKey)
	if err != nil {
		return fmt.Errorf("api key decryption failed for provider %q", p.Name)
	}
	p.APIKey = string(plain)
	return nil
}

// MaskedAPIKey shows at most the last four characters of the key.
func (p *AIProvider) MaskedAPIKey() string {
	switch n := len(p.APIKey); {
	case n == 0:
		return ""
	case n <= 8:
		return "****"
	default:
		return "****" + p.APIKey[n-4:]
	}
}

// DefaultModel returns the enabled model flagged as default, else the
// first enabled model.
func (p *AIProvider) DefaultModel() (AIModel, bool) {
	var first *AIModel
	for i := range p.Models {
		m := &p.Models[i]
		if !m.Enabled {
			continue
		}
		if m.IsDefault {
			return *m, true
		}
		if first == nil {
			first = m
		}
	}
	if first == nil {
		return AIModel{}, false
	}
	return *first, true
}

// AIModel is a model offered by a provider.
type AIModel struct {
	Base
	ProviderID  string  `gorm:"column:provider_id;size:36;not null;index" json:"providerId"`
	Name        string  `gorm:"column:name;size:100;not null" json:"name"`
	Enabled     bool    `gorm:"column:enabled;not null" json:"enabled"`
	IsDefault   bool    `gorm:"column:is_default;not null;default:false" json:"isDefault"`
	MaxTokens   int     `gorm:"column:max_tokens" json:"maxTokens,omitempty"`
	Temperature float64 `gorm:"column:temperature" json:"temperature,omitempty"`
}

func (AIModel) TableName() string {
	return "ai_models"
}
