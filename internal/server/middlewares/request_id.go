package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vzahanych/weather-archive-app/internal/server/utils"
	"github.com/vzahanych/weather-archive-app/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware reuses the caller's X-Request-ID or mints one, and makes
// it available both on the gin context and the request context.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Header(RequestIDHeader, requestID)
		c.Set(utils.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}
