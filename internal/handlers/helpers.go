package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/foodgram/foodgram-api/internal/config"
	"github.com/foodgram/foodgram-api/internal/logger"
	"github.com/foodgram/foodgram-api/internal/repository"
	"github.com/foodgram/foodgram-api/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// parseUintParam parses a string into a uint.
func parseUintParam(param string) (uint, error) {
	parsed, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	if parsed > uint64(^uint(0)) {
		return 0, fmt.Errorf("value out of range for uint: %d", parsed)
	}
	return uint(parsed), nil
}

// handleServiceError maps service and repository errors to HTTP responses.
// Conflicts ("already in favorites", "already subscribed") surface as 400
// validation errors, not 409, to keep a uniform error envelope.
func handleServiceError(c *gin.Context, err error) {
	switch e := err.(type) {
	case service.ValidationError:
		c.JSON(http.StatusBadRequest, e.Fields)
	case service.PermissionError:
		c.JSON(http.StatusForbidden, gin.H{"errors": e.Error()})
	case repository.NotFoundError:
		c.JSON(http.StatusNotFound, gin.H{"errors": e.Error()})
	case repository.ConflictError:
		c.JSON(http.StatusBadRequest, gin.H{"errors": e.Error()})
	default:
		logger.Get().Error("unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "internal server error"})
	}
}

// parsePagination reads the page/limit query params, clamping limit at the
// configured maximum.
func parsePagination(c *gin.Context, cfg *config.Config) (page, limit int) {
	page = 1
	limit = cfg.EnvVars.PageSize

	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > cfg.EnvVars.MaxPageSize {
		limit = cfg.EnvVars.MaxPageSize
	}
	return page, limit
}
