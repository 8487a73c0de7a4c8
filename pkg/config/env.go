package config

import (
	"fmt"
	"net"

	"github.com/kelseyhightower/envconfig"
)

// Env is the process environment: secrets and deployment settings that never
// live in the config file.
type Env struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	Port        string `envconfig:"PORT" default:"8080"`
	BindAddress string `envconfig:"BIND_ADDRESS" default:"0.0.0.0"`
	LogLevel    string `envconfig:"YACHTEXCEL_LOG_LEVEL" default:"info"`
	DataKey     string `envconfig:"YACHTEXCEL_DATA_KEY"`
	JWTSecret   string `envconfig:"YACHTEXCEL_JWT_SECRET"`

	// Comma-separated CIDRs or addresses of reverse proxies whose
	// X-Forwarded-For header is honoured.
	TrustedProxies []string `envconfig:"YACHTEXCEL_TRUSTED_PROXIES"`

	DocumentAIToken    string `envconfig:"YACHTEXCEL_DOCUMENT_AI_TOKEN"`
	DocumentAIEndpoint string `envconfig:"YACHTEXCEL_DOCUMENT_AI_ENDPOINT"`
	GCSCredentialsFile string `envconfig:"YACHTEXCEL_GCS_CREDENTIALS_FILE"`

	SendGridAPIKey string `envconfig:"SENDGRID_API_KEY"`
	EmailFrom      string `envconfig:"YACHTEXCEL_EMAIL_FROM" default:"no-reply@yachtexcel.com"`
	WhatsAppToken  string `envconfig:"WHATSAPP_ACCESS_TOKEN"`
	WhatsAppPhone  string `envconfig:"WHATSAPP_PHONE_NUMBER_ID"`
}

// LoadEnv decodes the process environment.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &env, nil
}

// Addr is the listen address built from BIND_ADDRESS and PORT.
func (e *Env) Addr() string {
	return net.JoinHostPort(e.BindAddress, e.Port)
}

// RequireDatabase returns an error if DATABASE_URL is unset.
func (e *Env) RequireDatabase() error {
	if e.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return nil
}
