package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hyemin/artmate/internal/service"
)

// RecommendationHandler handles recommendation and compatibility endpoints.
type RecommendationHandler struct {
	recommendations *service.RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler.
// Parameters:
//   - recommendations: recommendation service instance.
// Returns:
//   - *RecommendationHandler: initialized handler.
func NewRecommendationHandler(recommendations *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

// GetRecommendations handles GET /api/v1/recommendations.
// Query: subject (APT code, required), category (required), context,
// limit, offset.
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	subject := c.Query("subject")
	category := c.Query("category")
	if subject == "" || category == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameters 'subject' and 'category' are required",
		})
		return
	}

	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)

	result, err := h.recommendations.GetRecommendations(
		c.Request.Context(), subject, category, c.Query("context"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCompatibility handles GET /api/v1/compatibility.
// Query: subject and target (APT codes, both required).
func (h *RecommendationHandler) GetCompatibility(c *gin.Context) {
	subject := c.Query("subject")
	target := c.Query("target")
	if subject == "" || target == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameters 'subject' and 'target' are required",
		})
		return
	}

	result, err := h.recommendations.GetCompatibility(subject, target)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// intQuery parses an integer query parameter with a fallback.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
