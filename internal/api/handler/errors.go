package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyemin/artmate/internal/cache"
	"github.com/hyemin/artmate/internal/domain"
	"github.com/hyemin/artmate/internal/service"
)

// respondError maps service errors to HTTP status codes: validation
// failures are 400, loader failures 502, everything else 500.
func respondError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var loaderErr *service.LoaderError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, cache.ErrInvalidTTL):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &loaderErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Candidate source unavailable: " + loaderErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
