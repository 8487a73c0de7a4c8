// Package config provides configuration management for the yachtexcel server.
//
// Settings are loaded from a YAML file and from environment variables, and
// every attribute remembers where its value came from.
//
// # Configuration Sources
//
//   - yachtexcel.yml in YACHTEXCEL_CONFIG_PATH (default /etc/yachtexcel)
//   - YACHTEXCEL_* environment variables, which take precedence
//
// Secrets and deployment settings (DATABASE_URL, PORT, YACHTEXCEL_DATA_KEY,
// YACHTEXCEL_JWT_SECRET, vendor API keys) are only read from the environment,
// see Env.
package config
