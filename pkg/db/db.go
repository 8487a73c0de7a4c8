package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/vault"
)

// Config holds database connection configuration
type Config struct {
	// URL is a postgres:// URL, or sqlite://<path>, file:<path> or :memory: for SQLite
	URL string
	// Cipher is optional - if provided, it will be added to the context
	Cipher vault.SymmetricCipher
	// Debug enables GORM statement logging
	Debug bool
}

// IsPostgres reports whether url selects the Postgres driver.
func IsPostgres(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// IsSQLite reports whether url selects the SQLite driver.
func IsSQLite(url string) bool {
	return strings.HasPrefix(url, "sqlite://") || strings.HasPrefix(url, "file:") || url == ":memory:"
}

func dialector(url string) (gorm.Dialector, error) {
	switch {
	case IsPostgres(url):
		return postgres.New(postgres.Config{
			DSN:                  url,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}), nil
	case IsSQLite(url):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite://")), nil
	}
	return nil, fmt.Errorf("unsupported database URL scheme: %q", redact(url))
}

// Connect establishes a database connection.
func Connect(cfg Config) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	d, err := dialector(cfg.URL)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if cfg.Debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if IsSQLite(cfg.URL) {
		// One connection keeps :memory: databases alive and serializes writers.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.Cipher != nil {
		db = db.WithContext(vault.WithCipher(context.Background(), cfg.Cipher))
	}

	return db, nil
}

// WithContext scopes db to ctx, carrying over the cipher of the connection.
func WithContext(db *gorm.DB, ctx context.Context) *gorm.DB {
	if _, ok := vault.FromContext(ctx); !ok && db.Statement != nil && db.Statement.Context != nil {
		if c, ok := vault.FromContext(db.Statement.Context); ok {
			ctx = vault.WithCipher(ctx, c)
		}
	}
	return db.WithContext(ctx)
}

// AutoMigrate creates or updates the schema from the models. It is used for
// SQLite databases; Postgres is migrated with the SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	return nil
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func redact(url string) string {
	if i := strings.Index(url, "@"); i >= 0 {
		if j := strings.Index(url, "://"); j >= 0 && j < i {
			return url[:j+3] + "***" + url[i:]
		}
	}
	return url
}
