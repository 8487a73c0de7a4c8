package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yachtexcel/yachtexcel/pkg/config"
	"github.com/yachtexcel/yachtexcel/pkg/db"
	"github.com/yachtexcel/yachtexcel/pkg/logging"
	"github.com/yachtexcel/yachtexcel/pkg/vault"
)

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func mustLoadEnv() *config.Env {
	env, err := config.LoadEnv()
	if err != nil {
		fail("%v", err)
	}
	return env
}

func mustLogger(env *config.Env) *zap.Logger {
	logger, err := logging.New(env.LogLevel)
	if err != nil {
		fail("%v", err)
	}
	return logger
}

// openDB connects to DATABASE_URL. The data key is only needed by commands
// that read or write AI provider API keys.
func openDB(env *config.Env, requireDataKey bool) (*gorm.DB, error) {
	if err := env.RequireDatabase(); err != nil {
		return nil, err
	}

	var cipher vault.SymmetricCipher
	if env.DataKey != "" {
		key, err := vault.ParseDataKey(env.DataKey)
		if err != nil {
			return nil, fmt.Errorf("bad YACHTEXCEL_DATA_KEY: %w", err)
		}
		if cipher, err = vault.NewSymmetric(key); err != nil {
			return nil, fmt.Errorf("unable to initiate cipher: %w", err)
		}
	} else if requireDataKey {
		return nil, fmt.Errorf("YACHTEXCEL_DATA_KEY environment variable is required")
	}

	return db.Connect(db.Config{
		URL:    env.DatabaseURL,
		Cipher: cipher,
		Debug:  logging.IsDebug(env.LogLevel),
	})
}
