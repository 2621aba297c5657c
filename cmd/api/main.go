package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyemin/artmate/internal/api"
	"github.com/hyemin/artmate/internal/cache"
	"github.com/hyemin/artmate/internal/clients/catalog"
	"github.com/hyemin/artmate/internal/config"
	"github.com/hyemin/artmate/internal/logger"
	"github.com/hyemin/artmate/internal/repository"
	"github.com/hyemin/artmate/internal/service"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		File:        cfg.Log.File,
		FileOnly:    cfg.Log.FileOnly,
		ServiceName: "artmate",
		MaxSizeMB:   100,
		MaxBackups:  7,
		MaxAgeDays:  30,
		Compress:    true,
	})
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	ledgerRepo := repository.NewLedgerRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)

	// Initialize cache tiers. Redis is optional; when disabled or
	// unreachable the cache runs on the memory tier alone.
	ctx := context.Background()
	memoryStore := cache.NewMemoryStore(cfg.Cache.CleanupInterval)
	defer memoryStore.Close()

	var redisStore cache.Store
	if cfg.Redis.Enabled {
		store, err := cache.NewRedisStore(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.WithError(err).Warn("Redis unavailable, continuing with memory tier only")
		} else {
			redisStore = store
			defer store.Close()
		}
	}

	recCache := cache.New(memoryStore, redisStore, appLogger)

	// Initialize services
	engine := service.NewCompatibilityService(service.MatchConfigFrom(&cfg.Matching))
	ranker := service.NewRanker(engine)
	catalogClient := catalog.NewClient(&cfg.Catalog, appLogger)
	recommendationService := service.NewRecommendationService(
		recCache, catalogClient, ranker, appLogger, cfg.Cache.DefaultTTL)
	pointsService := service.NewPointsService(ledgerRepo, appLogger)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo)

	// Optional startup warmup, in the background so it never delays serving
	if cfg.Cache.WarmupOnStart && len(cfg.Cache.Warmup) > 0 {
		go func() {
			warmupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			warmupCtx = appLogger.WithField(logger.FieldComponent, "warmup").WithContext(warmupCtx)
			recommendationService.Warmup(warmupCtx, cfg.Cache.Warmup)
		}()
	}

	// Setup router
	router := api.SetupRouter(recommendationService, pointsService, leaderboardService, cfg, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
