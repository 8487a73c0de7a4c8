package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yachtexcel/yachtexcel/pkg/ai"
	"github.com/yachtexcel/yachtexcel/pkg/audit"
	"github.com/yachtexcel/yachtexcel/pkg/blob"
	"github.com/yachtexcel/yachtexcel/pkg/config"
	"github.com/yachtexcel/yachtexcel/pkg/db"
	"github.com/yachtexcel/yachtexcel/pkg/docai"
	"github.com/yachtexcel/yachtexcel/pkg/extraction"
	"github.com/yachtexcel/yachtexcel/pkg/metrics"
	"github.com/yachtexcel/yachtexcel/pkg/notify"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server"
	"github.com/yachtexcel/yachtexcel/pkg/server/endpoints"
	"github.com/yachtexcel/yachtexcel/pkg/server/middleware"
)

const shutdownTimeout = 30 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the YachtExcel API server",
	Long: `Run the YachtExcel API server.

To run the server requires the environment variables DATABASE_URL,
YACHTEXCEL_DATA_KEY and YACHTEXCEL_JWT_SECRET.

By default, database migrations are run on startup. Use --no-migrate to skip.
SQLite databases are migrated from the models instead of the SQL migrations.

The config file is watched and reloaded while the server runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		env := mustLoadEnv()
		if err := env.RequireDatabase(); err != nil {
			fail("%v", err)
		}
		if env.DataKey == "" {
			fail("YACHTEXCEL_DATA_KEY environment variable is required")
		}
		if env.JWTSecret == "" {
			fail("YACHTEXCEL_JWT_SECRET environment variable is required")
		}

		if addr, _ := cmd.Flags().GetString("bind-address"); addr != "" {
			env.BindAddress = addr
		}
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			env.Port = port
		}

		logger := mustLogger(env)
		defer func() { _ = logger.Sync() }()

		cfg, err := config.Load()
		if err != nil {
			fail("Failed to load configuration: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			fail("Invalid configuration: %v", err)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate && db.IsPostgres(env.DatabaseURL) {
			if err := db.Migrate(env.DatabaseURL, logger); err != nil {
				fail("Migration failed: %v", err)
			}
		}

		gdb, err := openDB(env, true)
		if err != nil {
			fail("Unable to connect to DB: %v", err)
		}
		if !noMigrate && db.IsSQLite(env.DatabaseURL) {
			if err := db.AutoMigrate(gdb); err != nil {
				fail("Migration failed: %v", err)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, closeFn, err := buildServer(ctx, env, cfg, gdb, logger)
		if err != nil {
			fail("Unable to start server: %v", err)
		}
		defer closeFn()

		if err := run(ctx, s, logger); err != nil {
			logger.Error("server stopped", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", "", "server listen port (default $PORT or 8080)")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address (default $BIND_ADDRESS or 0.0.0.0)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

// buildServer attaches authentication, auditing, vendor clients and
// notifiers to a server over gdb. The returned func releases the clients.
func buildServer(ctx context.Context, env *config.Env, cfg *config.YachtConfig, gdb *gorm.DB, logger *zap.Logger) (*server.Server, func(), error) {
	s := server.NewServer(gdb, cfg, logger, env.Addr())
	s.Version = version
	s.Metrics = metrics.New()
	closers := []func() error{}
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	if cfg.PermissionsFile != "" {
		matrix, err := loadMatrix(cfg.PermissionsFile)
		if err != nil {
			return nil, nil, err
		}
		s.Matrix = matrix
	}

	s.Resolver = role.NewResolver(s.RolesStore,
		role.WithSuperadminEmails(cfg.SuperadminEmails),
		role.WithDefaultRole(cfg.Role()),
		role.WithLogger(logger),
	)
	proxies, err := middleware.ParseTrustedProxies(env.TrustedProxies)
	if err != nil {
		return nil, nil, err
	}
	s.JWTMiddleware = middleware.NewJWTAuthenticator([]byte(env.JWTSecret), s.Resolver, logger).
		WithTrustedProxies(proxies)

	// audit_messages only exists in the SQL migrations.
	if db.IsPostgres(env.DatabaseURL) {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		s.AuditStore = audit.NewStore(sqlDB)
	}
	audit.Configure(cfg.AuditEnabled, s.AuditStore)

	// Left as a nil interface when unconfigured so extraction reports
	// ErrNotConfigured.
	var processor extraction.Processor
	if cfg.DocumentAIProject != "" {
		client, err := docai.New(docai.Config{
			Project:  cfg.DocumentAIProject,
			Location: cfg.DocumentAILocation,
			Endpoint: env.DocumentAIEndpoint,
			Tokens:   docai.StaticTokenSource(env.DocumentAIToken),
		})
		if err != nil {
			return nil, nil, err
		}
		processor = client
	} else {
		logger.Info("document AI not configured, extraction disabled")
	}

	var archive blob.Store = blob.NopStore{}
	if cfg.DocumentArchiveBucket != "" {
		gcs, err := blob.NewGCSStore(ctx, cfg.DocumentArchiveBucket, blob.WithCredentialsFile(env.GCSCredentialsFile))
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, gcs.Close)
		archive = gcs
	}

	s.Extractor = extraction.NewService(processor, s.ExtractionsStore,
		extraction.WithArchive(archive),
		extraction.WithMetrics(s.Metrics),
		extraction.WithLogger(logger),
	)

	s.Consensus = ai.NewConsensus(
		ai.WithTimeout(cfg.AIRequestTimeout()),
		ai.WithUsageStore(s.UsageStore),
		ai.WithMetrics(s.Metrics),
		ai.WithLogger(logger),
	)

	if env.SendGridAPIKey != "" {
		s.Notifiers[notify.ChannelEmail] = notify.NewEmailSender(notify.EmailConfig{
			APIKey: env.SendGridAPIKey,
			From:   env.EmailFrom,
		})
	}
	if env.WhatsAppToken != "" && env.WhatsAppPhone != "" {
		s.Notifiers[notify.ChannelWhatsApp] = notify.NewWhatsAppSender(notify.WhatsAppConfig{
			Token:         env.WhatsAppToken,
			PhoneNumberID: env.WhatsAppPhone,
		})
	}

	endpoints.RegisterAll(s)
	return s, closeAll, nil
}

func loadMatrix(path string) (role.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open permissions file: %w", err)
	}
	defer func() { _ = f.Close() }()

	m, err := role.LoadMatrix(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load permissions file %s: %w", path, err)
	}
	return m, nil
}

// run serves until ctx is cancelled, reloading the configuration on file
// changes, then drains in-flight requests.
func run(ctx context.Context, s *server.Server, logger *zap.Logger) error {
	go func() {
		err := config.Watch(ctx, func(cfg *config.YachtConfig, err error) {
			if err == nil {
				err = cfg.Validate()
			}
			if err != nil {
				logger.Warn("configuration not reloaded", zap.Error(err))
				return
			}
			s.SetConfig(cfg)
			logger.Info("configuration reloaded", zap.String("path", cfg.ConfigFilePath()))
		})
		if err != nil {
			logger.Warn("configuration watch disabled", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("running server", zap.String("addr", s.Addr()), zap.String("version", version))
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}
