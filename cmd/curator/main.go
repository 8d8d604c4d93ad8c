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
	"go.uber.org/zap"

	"github.com/atelier-cloud/curator/internal/config"
	dbRedis "github.com/atelier-cloud/curator/internal/db/redis"
	"github.com/atelier-cloud/curator/internal/imaging"
	logpkg "github.com/atelier-cloud/curator/internal/logger"
	"github.com/atelier-cloud/curator/internal/metrics"
	catalogrepo "github.com/atelier-cloud/curator/internal/repository/catalog"
	"github.com/atelier-cloud/curator/internal/repository/querycache"
	tasterepo "github.com/atelier-cloud/curator/internal/repository/taste"
	chiTransport "github.com/atelier-cloud/curator/internal/transport/chi"
	cataloguc "github.com/atelier-cloud/curator/internal/usecase/catalog"
	healthuc "github.com/atelier-cloud/curator/internal/usecase/health"
	imagesearchuc "github.com/atelier-cloud/curator/internal/usecase/imagesearch"
	preferenceuc "github.com/atelier-cloud/curator/internal/usecase/preference"
	"github.com/atelier-cloud/curator/internal/usecase/queryparse"
	relevanceuc "github.com/atelier-cloud/curator/internal/usecase/relevance"
	searchuc "github.com/atelier-cloud/curator/internal/usecase/search"
	"github.com/atelier-cloud/curator/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting curator API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Create repositories (domain-native, no adapters)
	catRepo := catalogrepo.New(store, cfg.Database.KeyPrefix)
	tasteRepo := tasterepo.New(store, cfg.Database.KeyPrefix)
	resultCache := querycache.New(
		store,
		cfg.Database.KeyPrefix,
		time.Duration(cfg.Search.CacheTTLSec)*time.Second,
		metrics.SearchCacheTotal,
		logger,
	)

	// Create use case services
	scorer := relevanceuc.New(cfg.Scoring)
	searchSvc := searchuc.New(
		catRepo,
		queryparse.NewExtractor(queryparse.DefaultVocabulary()),
		queryparse.NewClassifier(),
		scorer,
		resultCache,
		cfg.Search,
		logger,
	)
	imageSvc := imagesearchuc.New(
		catRepo,
		imaging.NewExtractor(cfg.ImageSearch.PaletteSize),
		cfg.ImageSearch,
		logger,
	)
	prefSvc := preferenceuc.New(tasteRepo, catRepo, scorer, cfg.Preference, logger)
	catalogSvc := cataloguc.New(catRepo)
	healthSvc := healthuc.New(store)

	// Create chi server
	server := chiTransport.NewServer(
		searchSvc, imageSvc, prefSvc, catalogSvc, healthSvc,
		cfg.ImageSearch, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
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

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
