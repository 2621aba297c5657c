package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyemin/artmate/internal/domain"
	"github.com/hyemin/artmate/internal/service"
)

// PointsHandler handles point awarding and progression endpoints.
type PointsHandler struct {
	points *service.PointsService
}

// NewPointsHandler creates a new points handler.
// Parameters:
//   - points: points service instance.
// Returns:
//   - *PointsHandler: initialized handler.
func NewPointsHandler(points *service.PointsService) *PointsHandler {
	return &PointsHandler{points: points}
}

// AwardRequest represents the award API request.
type AwardRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Activity string `json:"activity" binding:"required"`
	TargetID string `json:"target_id"`
}

// Award handles POST /api/v1/points/award. A capped or duplicate award is
// a 200 with awarded=0, not an error.
func (h *PointsHandler) Award(c *gin.Context) {
	var req AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.points.Award(c.Request.Context(), req.UserID, domain.ActivityType(req.Activity), req.TargetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUserPoints handles GET /api/v1/points/:userID.
func (h *PointsHandler) GetUserPoints(c *gin.Context) {
	result, err := h.points.GetUserPoints(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetHistory handles GET /api/v1/points/:userID/history.
func (h *PointsHandler) GetHistory(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)

	events, err := h.points.History(c.Request.Context(), c.Param("userID"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  len(events),
		"limit":  limit,
		"offset": offset,
	})
}
