package server

import (
	"context"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yachtexcel/yachtexcel/pkg/ai"
	"github.com/yachtexcel/yachtexcel/pkg/audit"
	"github.com/yachtexcel/yachtexcel/pkg/config"
	"github.com/yachtexcel/yachtexcel/pkg/extraction"
	"github.com/yachtexcel/yachtexcel/pkg/metrics"
	"github.com/yachtexcel/yachtexcel/pkg/notify"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server/middleware"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
	gormstore "github.com/yachtexcel/yachtexcel/pkg/server/store/gorm"
)

type Server struct {
	Router  *mux.Router
	DB      *gorm.DB
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Version string

	Matrix        role.Matrix
	Resolver      *role.Resolver
	JWTMiddleware *middleware.JWTAuthenticator

	YachtsStore      store.YachtsStore
	CrewStore        store.CrewStore
	EquipmentStore   store.EquipmentStore
	InventoryStore   store.InventoryStore
	AIProvidersStore store.AIProvidersStore
	UsageStore       store.UsageStore
	RolesStore       store.RolesStore
	ExtractionsStore store.ExtractionsStore
	HealthStore      store.HealthStore
	AuditStore       *audit.Store

	Extractor *extraction.Service
	Consensus *ai.Consensus
	Notifiers map[string]notify.Notifier
	// AIHTTPClient is shared by the AI provider clients built per request.
	AIHTTPClient *http.Client

	config atomic.Pointer[config.YachtConfig]
	srv    *http.Server
}

// NewServer creates a server with GORM-backed stores when db is non-nil.
// Authentication, services and notifiers are attached by the caller.
func NewServer(db *gorm.DB, cfg *config.YachtConfig, logger *zap.Logger, addr string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	router := mux.NewRouter().UseEncodedPath()
	s := &Server{
		Router:       router,
		DB:           db,
		Logger:       logger,
		Version:      "dev",
		Matrix:       role.DefaultMatrix(),
		Notifiers:    make(map[string]notify.Notifier),
		AIHTTPClient: &http.Client{},
	}
	s.SetConfig(cfg)

	if db != nil {
		s.YachtsStore = gormstore.NewYachtsStore(db)
		s.CrewStore = gormstore.NewCrewStore(db)
		s.EquipmentStore = gormstore.NewEquipmentStore(db)
		s.InventoryStore = gormstore.NewInventoryStore(db)
		s.AIProvidersStore = gormstore.NewAIProvidersStore(db)
		s.UsageStore = gormstore.NewUsageStore(db)
		s.RolesStore = gormstore.NewRolesStore(db)
		s.ExtractionsStore = gormstore.NewExtractionsStore(db)
		s.HealthStore = gormstore.NewHealthStore(db)
	}

	s.srv = &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Consensus calls wait on the slowest provider.
		WriteTimeout: cfg.AIRequestTimeout() + 30*time.Second,
		IdleTimeout:  2 * time.Minute,
	}
	return s
}

// Config returns the current configuration.
func (s *Server) Config() *config.YachtConfig {
	if cfg := s.config.Load(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// SetConfig swaps the configuration used by request handlers.
func (s *Server) SetConfig(cfg *config.YachtConfig) {
	s.config.Store(cfg)
}

// Handler wraps the router with panic recovery, CORS and access logging.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router

	if origins := s.Config().CORSAllowedOrigins; len(origins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
			handlers.MaxAge(600),
		)(h)
	}

	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(s.Logger)),
	)(h)

	return handlers.LoggingHandler(os.Stdout, h)
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

func (s *Server) Start() error {
	s.srv.Handler = s.Handler()
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
