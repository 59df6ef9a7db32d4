package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck runs the service self-test: the record source must be
// reachable and return a well-formed result.
// GET /health
func HealthCheck(c *gin.Context) {
	status := pricingService.Health(c.Request.Context())
	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
