package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogmcp/internal/config"
	dbRedis "github.com/kailas-cloud/catalogmcp/internal/db/redis"
	logpkg "github.com/kailas-cloud/catalogmcp/internal/logger"
	"github.com/kailas-cloud/catalogmcp/internal/metrics"
	contentrepo "github.com/kailas-cloud/catalogmcp/internal/repository/content"
	entityrepo "github.com/kailas-cloud/catalogmcp/internal/repository/entity"
	proberepo "github.com/kailas-cloud/catalogmcp/internal/repository/probe"
	searchrepo "github.com/kailas-cloud/catalogmcp/internal/repository/search"
	"github.com/kailas-cloud/catalogmcp/internal/transport/mcp"
	openaiEmb "github.com/kailas-cloud/catalogmcp/internal/transport/openai"
	entityuc "github.com/kailas-cloud/catalogmcp/internal/usecase/entity"
	"github.com/kailas-cloud/catalogmcp/internal/usecase/fusion"
	"github.com/kailas-cloud/catalogmcp/internal/usecase/gating"
	grepuc "github.com/kailas-cloud/catalogmcp/internal/usecase/grep"
	healthuc "github.com/kailas-cloud/catalogmcp/internal/usecase/health"
	"github.com/kailas-cloud/catalogmcp/internal/version"
)

const serverName = "catalogmcp"

func main() {
	envFlag := pflag.String("env", "", "config environment (overrides ENV)")
	transportFlag := pflag.String("transport", "", "transport: stdio or http (overrides config)")
	pflag.Parse()

	env := config.GetEnv()
	if *envFlag != "" {
		env = *envFlag
	}

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if *transportFlag != "" {
		cfg.Server.Transport = *transportFlag
		if err := cfg.Validate(); err != nil {
			panic("invalid config: " + err.Error())
		}
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting catalogmcp server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("transport", cfg.Server.Transport),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:     cfg.Database.Addrs,
		Username:  cfg.Database.Username,
		Password:  cfg.Database.Password,
		KeyPrefix: cfg.Database.KeyPrefix,
	})
	if err != nil {
		logger.Fatal("Failed to create catalog store", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Catalog store not ready", zap.Error(err))
	}
	logger.Info("Connected to catalog store")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterToolMetrics()

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	keyPrefix := cfg.Database.KeyPrefix
	entityIndex := keyPrefix + "idx:entities"
	documentIndex := keyPrefix + "idx:documents"

	entitySearchRepo := searchrepo.New(store, embedder, keyPrefix, entityIndex)
	documentSearchRepo := searchrepo.New(store, embedder, keyPrefix, documentIndex)
	contentRepo := contentrepo.New(store, keyPrefix)
	probeRepo := proberepo.New(store, documentIndex)
	entRepo := entityrepo.New(store, keyPrefix)

	entitySearchSvc := fusion.New(entitySearchRepo, logger)
	documentSearchSvc := fusion.New(documentSearchRepo, logger)
	grepSvc := grepuc.New(contentRepo, logger)
	entitySvc := entityuc.New(entRepo, logger)

	var embedChecker healthuc.EmbeddingChecker
	if cfg.Embedding.APIKey != "" {
		embedChecker = embedder
	}
	healthSvc := healthuc.New(store, embedChecker)

	requirements, err := gating.DefaultRequirements()
	if err != nil {
		logger.Fatal("Invalid tool version requirements", zap.Error(err))
	}

	srv := mcp.NewServer(serverName, version.Version, logger)
	mcp.RegisterCatalogTools(srv, mcp.Deps{
		EntitySearch:   entitySearchSvc,
		DocumentSearch: documentSearchSvc,
		Grep:           grepSvc,
		Entities:       entitySvc,
	})
	srv.AddGate(gating.NewVersionGate(probeRepo, requirements, logger))
	srv.AddGate(gating.NewContentExistenceGate(probeRepo, cfg.Tools.DocumentToolsDisabled, logger))

	switch cfg.Server.Transport {
	case "stdio":
		runStdio(ctx, srv, logger)
	case "http":
		runHTTP(ctx, cfg, srv, healthSvc, logger)
	default:
		logger.Fatal("Unknown transport", zap.String("transport", cfg.Server.Transport))
	}
}

func runStdio(ctx context.Context, srv *mcp.Server, logger *zap.Logger) {
	logger.Info("Serving MCP over stdio")
	if err := srv.ServeStdio(ctx, os.Stdin, os.Stdout); err != nil {
		logger.Fatal("Stdio transport error", zap.Error(err))
	}
	logger.Info("Stdio transport closed")
}

func runHTTP(
	ctx context.Context,
	cfg config.Config,
	srv *mcp.Server,
	healthSvc *healthuc.Service,
	logger *zap.Logger,
) {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogMiddleware(logger))
	r.Use(metrics.Middleware())

	r.Method(http.MethodPost, "/mcp", srv.Handler())
	r.Get("/health", healthHandler(healthSvc))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), time.Duration(cfg.Server.ShutdownSec)*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func healthHandler(svc *healthuc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := svc.Check(r.Context())

		code := http.StatusOK
		if report.Status != healthuc.Healthy {
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": report.Status,
			"checks": report.Checks,
		})
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogMiddleware emits a canonical log line per request and propagates X-Request-ID.
func requestLogMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
