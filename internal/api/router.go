package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hyemin/artmate/internal/api/handler"
	"github.com/hyemin/artmate/internal/api/middleware"
	"github.com/hyemin/artmate/internal/config"
	"github.com/hyemin/artmate/internal/logger"
	"github.com/hyemin/artmate/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	recommendations *service.RecommendationService,
	points *service.PointsService,
	leaderboard *service.LeaderboardService,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	recommendationHandler := handler.NewRecommendationHandler(recommendations)
	pointsHandler := handler.NewPointsHandler(points)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboard)
	adminHandler := handler.NewAdminHandler(recommendations, cfg.Cache.Warmup, log)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Matching
		v1.GET("/recommendations", recommendationHandler.GetRecommendations)
		v1.GET("/compatibility", recommendationHandler.GetCompatibility)

		// Points
		v1.POST("/points/award", pointsHandler.Award)
		v1.GET("/points/:userID", pointsHandler.GetUserPoints)
		v1.GET("/points/:userID/history", pointsHandler.GetHistory)

		// Leaderboard
		v1.GET("/leaderboard", leaderboardHandler.Top)
		v1.GET("/leaderboard/rank/:userID", leaderboardHandler.RankOf)

		// Admin
		admin := v1.Group("/admin")
		{
			admin.POST("/cache/invalidate", adminHandler.Invalidate)
			admin.POST("/cache/invalidate-all", adminHandler.InvalidateAll)
			admin.POST("/cache/warmup", adminHandler.Warmup)
			admin.GET("/cache/warmup", adminHandler.WarmupStatus)
			admin.GET("/cache/stats", adminHandler.CacheStats)
		}
	}

	return r
}
