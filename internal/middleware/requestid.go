package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/partstream/pricing-engine/internal/pkg/cuid2"
)

// RequestIDHeader is the header carrying the request identifier in both
// directions.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key for the request identifier.
const requestIDKey = "request_id"

// RequestID assigns every request an identifier for log correlation.
// An incoming X-Request-ID is honored so upstream callers can trace
// through.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = cuid2.New("req")
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the identifier assigned by RequestID, or an
// empty string outside of it.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
