package handler

import (
	"github.com/gin-gonic/gin"

	"latexgen/internal/pkg/apperr"
	httputil "latexgen/internal/pkg/http"
)

// ErrorResponse 复用通用错误响应
type ErrorResponse = httputil.ErrorResponse

// abortWithError 把服务层错误写成 JSON 错误响应
func abortWithError(c *gin.Context, err error) {
	status, body := httputil.FromError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// bindError 请求体解析或校验失败
func bindError(message string, err error) error {
	return apperr.InvalidRequest(message).WithDetails(err.Error()).Wrap(err)
}
