package config

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yachtexcel/yachtexcel/pkg/role"
)

const (
	DefaultConfigPath = "/etc/yachtexcel"
	ConfigFileName    = "yachtexcel.yml"
)

// Attribute sources.
const (
	SourceDefault     = "default"
	SourceFile        = "file"
	SourceEnvironment = "environment"
)

var locationPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// YachtConfig holds the server settings that may come from the config file.
type YachtConfig struct {
	// CORSAllowedOrigins are the origins allowed to call the API from a browser
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" json:"cors_allowed_origins"`

	// SuperadminEmails always resolve to the superadmin role
	SuperadminEmails []string `yaml:"superadmin_emails" json:"superadmin_emails"`

	// DefaultRole is given to authenticated users without any other role
	DefaultRole string `yaml:"default_role" json:"default_role"`

	// PermissionsFile optionally overrides the built-in permission matrix
	PermissionsFile string `yaml:"permissions_file" json:"permissions_file"`

	// APIListLimitMax is the maximum number of results for listing requests
	APIListLimitMax int `yaml:"api_list_limit_max" json:"api_list_limit_max"`

	// AIRequestTimeoutSeconds bounds each AI provider call
	AIRequestTimeoutSeconds int `yaml:"ai_request_timeout_seconds" json:"ai_request_timeout_seconds"`

	// AIConsensusProviders restricts consensus to the named providers; empty means all enabled
	AIConsensusProviders []string `yaml:"ai_consensus_providers" json:"ai_consensus_providers"`

	DocumentAIProject  string `yaml:"document_ai_project" json:"document_ai_project"`
	DocumentAILocation string `yaml:"document_ai_location" json:"document_ai_location"`

	// DocumentArchiveBucket is the GCS bucket for original documents; empty disables archiving
	DocumentArchiveBucket string `yaml:"document_archive_bucket" json:"document_archive_bucket"`

	// Booleans are read from the file through fileConfig
	AuditEnabled   bool `yaml:"-" json:"audit_enabled"`
	MetricsEnabled bool `yaml:"-" json:"metrics_enabled"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig distinguishes unset booleans from false in the config file.
type fileConfig struct {
	YachtConfig    `yaml:",inline"`
	AuditEnabled   *bool `yaml:"audit_enabled"`
	MetricsEnabled *bool `yaml:"metrics_enabled"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *YachtConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *YachtConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = Default()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment. The current
// configuration is kept if the new one fails to load or validate.
func Reload() (*YachtConfig, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *YachtConfig {
	return &YachtConfig{
		CORSAllowedOrigins:      []string{},
		SuperadminEmails:        []string{},
		DefaultRole:             role.RoleUser.String(),
		APIListLimitMax:         1000,
		AIRequestTimeoutSeconds: 60,
		AIConsensusProviders:    []string{},
		DocumentAILocation:      "us",
		AuditEnabled:            true,
		MetricsEnabled:          true,
		sources:                 make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*YachtConfig, error) {
	config := Default()

	for _, name := range attributeNames() {
		config.sources[name] = SourceDefault
	}

	configPath := os.Getenv("YACHTEXCEL_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"cors_allowed_origins", "superadmin_emails", "default_role",
		"permissions_file", "api_list_limit_max", "ai_request_timeout_seconds",
		"ai_consensus_providers", "document_ai_project", "document_ai_location",
		"document_archive_bucket", "audit_enabled", "metrics_enabled",
	}
}

func (c *YachtConfig) applyFileConfig(file *fileConfig) {
	if len(file.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = file.CORSAllowedOrigins
		c.sources["cors_allowed_origins"] = SourceFile
	}
	if len(file.SuperadminEmails) > 0 {
		c.SuperadminEmails = file.SuperadminEmails
		c.sources["superadmin_emails"] = SourceFile
	}
	if file.DefaultRole != "" {
		c.DefaultRole = file.DefaultRole
		c.sources["default_role"] = SourceFile
	}
	if file.PermissionsFile != "" {
		c.PermissionsFile = file.PermissionsFile
		c.sources["permissions_file"] = SourceFile
	}
	if file.APIListLimitMax != 0 {
		c.APIListLimitMax = file.APIListLimitMax
		c.sources["api_list_limit_max"] = SourceFile
	}
	if file.AIRequestTimeoutSeconds != 0 {
		c.AIRequestTimeoutSeconds = file.AIRequestTimeoutSeconds
		c.sources["ai_request_timeout_seconds"] = SourceFile
	}
	if len(file.AIConsensusProviders) > 0 {
		c.AIConsensusProviders = file.AIConsensusProviders
		c.sources["ai_consensus_providers"] = SourceFile
	}
	if file.DocumentAIProject != "" {
		c.DocumentAIProject = file.DocumentAIProject
		c.sources["document_ai_project"] = SourceFile
	}
	if file.DocumentAILocation != "" {
		c.DocumentAILocation = file.DocumentAILocation
		c.sources["document_ai_location"] = SourceFile
	}
	if file.DocumentArchiveBucket != "" {
		c.DocumentArchiveBucket = file.DocumentArchiveBucket
		c.sources["document_archive_bucket"] = SourceFile
	}
	if file.AuditEnabled != nil {
		c.AuditEnabled = *file.AuditEnabled
		c.sources["audit_enabled"] = SourceFile
	}
	if file.MetricsEnabled != nil {
		c.MetricsEnabled = *file.MetricsEnabled
		c.sources["metrics_enabled"] = SourceFile
	}
}

func (c *YachtConfig) applyEnvConfig() {
	if val := os.Getenv("YACHTEXCEL_CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORSAllowedOrigins = splitAndTrim(val)
		c.sources["cors_allowed_origins"] = SourceEnvironment
	}
	if val := os.Getenv("YACHTEXCEL_SUPERADMIN_EMAILS"); val != "" {
		c.SuperadminEmails = splitAndTrim(val)
		c.sources["superadmin_emails"] = SourceEnvironment
	}
	if val := os.Getenv("YACHTEXCEL_DEFAULT_ROLE"); val != "" {
		c.DefaultRole = val
		c.sources["default_role"] = SourceEnvironment
	}
	if val := os.Getenv("YACHTEXCEL_PERMISSIONS_FILE"); val != "" {
		c.PermissionsFile = val
		c.sources["permissions_file"] = SourceEnvironment
	}
	if val := os.Getenv("YACHTEXCEL_API_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.APIListLimitMax = i
			c.sources["api_list_limit_max"] = SourceEnvironment
		}
	}
	if val := os.Getenv("YACHTEXCEL_AI_REQUEST_TIMEOUT_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.AIRequestTimeoutSeconds = i
			c.sources["ai_request_timeout_seconds"] = SourceEnvironment
		}
	}
	if val := os.Getenv("YACHTEXCEL_AI_CONSENSUS_PROVIDERS"); val != "" {
		c.AIConsensusProviders = splitAndTrim(val)
		c.sources["ai_consensus_providers"] = SourceEnvironment
	}
	if val := os.Getenv("YACHTEXCEL_DOCUMENT_AI_PROJECT"); val != "" {
		c.DocumentAIProject = val
		c.sources["document_ai_project"] = SourceEnvironment
	}
	if val := os.Getenv("YACHTEXCEL_DOCUMENT_AI_LOCATION"); val != "" {
		c.DocumentAILocation = val
		c.sources["document_ai_location"] = SourceEnvironment
	}
	if val := os.Getenv("YACHTEXCEL_DOCUMENT_ARCHIVE_BUCKET"); val != "" {
		c.DocumentArchiveBucket = val
		c.sources["document_archive_bucket"] = SourceEnvironment
	}
	if val := os.Getenv("YACHTEXCEL_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = SourceEnvironment
	}
	if val := os.Getenv("YACHTEXCEL_METRICS_ENABLED"); val != "" {
		c.MetricsEnabled = val == "true" || val == "1"
		c.sources["metrics_enabled"] = SourceEnvironment
	}
}

// ConfigFilePath returns the path to the config file
func (c *YachtConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *YachtConfig) Source(name string) string {
	if c.sources == nil {
		return SourceDefault
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// AIRequestTimeout returns the per-call AI timeout as a duration
func (c *YachtConfig) AIRequestTimeout() time.Duration {
	return time.Duration(c.AIRequestTimeoutSeconds) * time.Second
}

// Role returns the parsed default role, falling back to user.
func (c *YachtConfig) Role() role.Role {
	r, err := role.RoleString(c.DefaultRole)
	if err != nil {
		return role.RoleUser
	}
	return r
}

// IsConsensusProvider reports whether the named provider takes part in consensus.
func (c *YachtConfig) IsConsensusProvider(name string) bool {
	if len(c.AIConsensusProviders) == 0 {
		return true
	}
	for _, p := range c.AIConsensusProviders {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *YachtConfig) Validate() error {
	if _, err := role.RoleString(c.DefaultRole); err != nil {
		return fmt.Errorf("invalid default_role: %s", c.DefaultRole)
	}
	for _, email := range c.SuperadminEmails {
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("invalid superadmin_emails value: %s", email)
		}
	}
	if c.APIListLimitMax <= 0 {
		return fmt.Errorf("api_list_limit_max must be positive, got %d", c.APIListLimitMax)
	}
	if c.AIRequestTimeoutSeconds <= 0 {
		return fmt.Errorf("ai_request_timeout_seconds must be positive, got %d", c.AIRequestTimeoutSeconds)
	}
	if !locationPattern.MatchString(c.DocumentAILocation) {
		return fmt.Errorf("invalid document_ai_location: %s", c.DocumentAILocation)
	}
	for _, origin := range c.CORSAllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("invalid cors_allowed_origins value: %s", origin)
		}
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *YachtConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "cors_allowed_origins", Value: strings.Join(c.CORSAllowedOrigins, ","), Source: c.Source("cors_allowed_origins")},
		{Name: "superadmin_emails", Value: strings.Join(c.SuperadminEmails, ","), Source: c.Source("superadmin_emails")},
		{Name: "default_role", Value: c.DefaultRole, Source: c.Source("default_role")},
		{Name: "permissions_file", Value: c.PermissionsFile, Source: c.Source("permissions_file")},
		{Name: "api_list_limit_max", Value: strconv.Itoa(c.APIListLimitMax), Source: c.Source("api_list_limit_max")},
		{Name: "ai_request_timeout_seconds", Value: strconv.Itoa(c.AIRequestTimeoutSeconds), Source: c.Source("ai_request_timeout_seconds")},
		{Name: "ai_consensus_providers", Value: strings.Join(c.AIConsensusProviders, ","), Source: c.Source("ai_consensus_providers")},
		{Name: "document_ai_project", Value: c.DocumentAIProject, Source: c.Source("document_ai_project")},
		{Name: "document_ai_location", Value: c.DocumentAILocation, Source: c.Source("document_ai_location")},
		{Name: "document_archive_bucket", Value: c.DocumentArchiveBucket, Source: c.Source("document_archive_bucket")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "metrics_enabled", Value: strconv.FormatBool(c.MetricsEnabled), Source: c.Source("metrics_enabled")},
	}
}

// FormatText returns a text representation of the configuration
func (c *YachtConfig) FormatText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Config file: %s\n\n", c.configFilePath)
	fmt.Fprintf(&sb, "%-30s %-40s %s\n", "NAME", "VALUE", "SOURCE")
	fmt.Fprintf(&sb, "%-30s %-40s %s\n", "----", "-----", "------")

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		fmt.Fprintf(&sb, "%-30s %-40s %s\n", attr.Name, value, attr.Source)
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *YachtConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
