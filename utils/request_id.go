package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDHeader carries the per-request id echoed on every response.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID reuses the caller's X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDField adds the request id to each access log line.
func RequestIDField(c *gin.Context) []zapcore.Field {
	return []zapcore.Field{zap.String("request_id", c.GetString(requestIDKey))}
}

// RecoveryResponse answers a recovered panic with the JSON envelope.
func RecoveryResponse(c *gin.Context, _ any) {
	Error(c, http.StatusInternalServerError, 50000, "internal server error")
	c.Abort()
}
