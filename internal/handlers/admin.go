package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InvalidateCaches clears the quote, analytics and recommendation
// caches unconditionally.
// POST /internal/admin/cache/invalidate
func InvalidateCaches(c *gin.Context) {
	pricingService.InvalidateAllCaches()
	c.JSON(http.StatusOK, gin.H{"status": "invalidated"})
}

// GetStats returns a snapshot of the service counters.
// GET /internal/admin/stats
func GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, pricingService.Stats())
}
