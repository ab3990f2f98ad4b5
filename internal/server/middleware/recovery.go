package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	httputil "latexgen/internal/pkg/http"
)

// Recovery 异常恢复中间件
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("path", c.Request.URL.Path).
					Str("method", c.Request.Method).
					Str("request_id", c.GetString(RequestIDKey)).
					Msg("panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					httputil.NewErrorResponse(50000, "Internal Server Error"))
			}
		}()
		c.Next()
	}
}
