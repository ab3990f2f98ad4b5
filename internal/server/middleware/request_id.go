package middleware

import (
	"github.com/gin-gonic/gin"

	"latexgen/internal/pkg/id"
)

const (
	// RequestIDHeader 请求 ID 头
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey gin.Context 中的请求 ID 键
	RequestIDKey = "request_id"
)

// RequestID 为每个请求分配 ID，沿用调用方传入的合法 UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := id.Normalize(c.GetHeader(RequestIDHeader))

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
