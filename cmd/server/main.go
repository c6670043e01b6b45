package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Skufu/holistic-guidance/internal/config"
	"github.com/Skufu/holistic-guidance/internal/guidance"
	"github.com/Skufu/holistic-guidance/internal/httpapi"
	"github.com/Skufu/holistic-guidance/internal/provider"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	var db httpapi.HealthChecker
	if cfg.EnableDB {
		pool, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()
		db = pool
	}

	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		logger.Fatal("provider setup failed", zap.Error(err))
	}
	svc := guidance.NewService(completer, logger.Named("guidance"), guidance.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Policy:      guidance.FailurePolicy(cfg.FailurePolicy),
	})

	staticRoot := detectStaticRoot()
	router := httpapi.NewRouter(svc, db, staticRoot, logger.Named("http"))
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.ProviderTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("server listening",
		zap.String("addr", "http://localhost:"+cfg.Port),
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.String("failure_policy", cfg.FailurePolicy),
		zap.String("static_root", staticRoot),
	)
	waitForShutdown(server, logger)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

func newCompleter(ctx context.Context, cfg *config.Config) (provider.Completer, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return provider.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.ProviderTimeout)
	default:
		return provider.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ProviderTimeout), nil
	}
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

func waitForShutdown(server *http.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// detectStaticRoot finds the public/ directory holding index.html, looking
// in the working directory and up to two parents.
func detectStaticRoot() string {
	startDir, err := os.Getwd()
	if err != nil {
		return "public"
	}

	candidates := []string{
		startDir,
		filepath.Dir(startDir),
		filepath.Dir(filepath.Dir(startDir)),
	}

	for _, dir := range candidates {
		public := filepath.Join(dir, "public")
		if fileExists(filepath.Join(public, "index.html")) {
			return public
		}
	}

	return filepath.Join(startDir, "public")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
