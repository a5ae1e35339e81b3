package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// Context keys shared with the logger middleware and the handlers
const (
	RequestIDKey    = "request_id"
	UserIDKey       = "user_id"
	GuestIDKey      = "guest_id"
	RequestIDHeader = "X-Request-ID"
)

// GetRequestID returns the id assigned by RequestID, or the inbound header
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}

// abortWithError stops the chain with the standard error body
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
