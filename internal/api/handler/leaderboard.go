package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyemin/artmate/internal/service"
)

// LeaderboardHandler handles leaderboard endpoints.
type LeaderboardHandler struct {
	leaderboard *service.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler.
// Parameters:
//   - leaderboard: leaderboard service instance.
// Returns:
//   - *LeaderboardHandler: initialized handler.
func NewLeaderboardHandler(leaderboard *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// Top handles GET /api/v1/leaderboard.
// Query: window (weekly|monthly|all-time, default all-time), limit.
func (h *LeaderboardHandler) Top(c *gin.Context) {
	window := service.LeaderboardWindow(c.DefaultQuery("window", string(service.WindowAllTime)))
	limit := intQuery(c, "limit", 10)

	entries, err := h.leaderboard.Top(c.Request.Context(), window, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"window":  window,
		"entries": entries,
		"total":   len(entries),
	})
}

// RankOf handles GET /api/v1/leaderboard/rank/:userID.
func (h *LeaderboardHandler) RankOf(c *gin.Context) {
	window := service.LeaderboardWindow(c.DefaultQuery("window", string(service.WindowAllTime)))

	rank, total, err := h.leaderboard.RankOf(c.Request.Context(), c.Param("userID"), window)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":      c.Param("userID"),
		"window":       window,
		"rank":         rank,
		"total_points": total,
	})
}
