package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hyemin/artmate/internal/config"
	"github.com/hyemin/artmate/internal/logger"
	"github.com/hyemin/artmate/internal/service"
)

// AdminHandler handles cache administration: pattern invalidation,
// namespace flushes, warmup, and stats.
type AdminHandler struct {
	recommendations *service.RecommendationService
	defaultTargets  []config.WarmupTarget
	logger          *logger.Logger

	// Warmup job state. Warmup is fire-and-forget: the trigger returns
	// immediately and completion shows up here and in the cache stats.
	mu            sync.RWMutex
	isRunning     bool
	lastRunTime   time.Time
	lastRunStatus string
	lastStats     *service.WarmupStats
}

// NewAdminHandler creates a new admin handler.
// Parameters:
//   - recommendations: recommendation service instance.
//   - defaultTargets: warmup targets used when a request names none.
//   - log: logger instance.
// Returns:
//   - *AdminHandler: initialized handler.
func NewAdminHandler(recommendations *service.RecommendationService, defaultTargets []config.WarmupTarget, log *logger.Logger) *AdminHandler {
	if log == nil {
		log = logger.GetDefault()
	}
	return &AdminHandler{
		recommendations: recommendations,
		defaultTargets:  defaultTargets,
		logger:          log,
	}
}

// InvalidateRequest represents the pattern invalidation API request.
type InvalidateRequest struct {
	Pattern string `json:"pattern" binding:"required"`
}

// Invalidate handles POST /api/v1/admin/cache/invalidate.
func (h *AdminHandler) Invalidate(c *gin.Context) {
	var req InvalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	removed, err := h.recommendations.InvalidateCache(c.Request.Context(), req.Pattern)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pattern": req.Pattern, "removed": removed})
}

// InvalidateAllRequest represents the namespace flush API request.
type InvalidateAllRequest struct {
	Category string `json:"category" binding:"required"`
}

// InvalidateAll handles POST /api/v1/admin/cache/invalidate-all. Unlike
// Invalidate, this also resets the hit/miss counters of the flushed
// category.
func (h *AdminHandler) InvalidateAll(c *gin.Context) {
	var req InvalidateAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	removed, err := h.recommendations.InvalidateCategory(c.Request.Context(), req.Category)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": req.Category, "removed": removed})
}

// WarmupRequest represents the warmup API request. Empty targets fall back
// to the configured default list.
type WarmupRequest struct {
	Targets []config.WarmupTarget `json:"targets"`
}

// Warmup handles POST /api/v1/admin/cache/warmup. It answers 202 and runs
// the warmup in the background; progress is visible via WarmupStatus and
// the cache stats.
func (h *AdminHandler) Warmup(c *gin.Context) {
	var req WarmupRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	targets := req.Targets
	if len(targets) == 0 {
		targets = h.defaultTargets
	}
	if len(targets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No warmup targets given or configured"})
		return
	}

	h.mu.Lock()
	if h.isRunning {
		h.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "Warmup already running"})
		return
	}
	h.isRunning = true
	h.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		ctx = h.logger.WithField(logger.FieldComponent, "warmup").WithContext(ctx)

		stats := h.recommendations.Warmup(ctx, targets)

		h.mu.Lock()
		h.isRunning = false
		h.lastRunTime = time.Now()
		h.lastStats = &stats
		if stats.Failed > 0 {
			h.lastRunStatus = "completed_with_errors"
		} else {
			h.lastRunStatus = "completed"
		}
		h.mu.Unlock()
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Warmup started",
		"targets": len(targets),
	})
}

// WarmupStatus handles GET /api/v1/admin/cache/warmup.
func (h *AdminHandler) WarmupStatus(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	resp := gin.H{"is_running": h.isRunning}
	if !h.lastRunTime.IsZero() {
		resp["last_run_time"] = h.lastRunTime.Format(time.RFC3339)
		resp["last_run_status"] = h.lastRunStatus
		resp["last_stats"] = h.lastStats
	}
	c.JSON(http.StatusOK, resp)
}

// CacheStats handles GET /api/v1/admin/cache/stats.
func (h *AdminHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.recommendations.CacheStats())
}
