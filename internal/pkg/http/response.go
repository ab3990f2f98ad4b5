package http

import (
	"net/http"

	"latexgen/internal/pkg/apperr"
)

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Code    int    `json:"code"`              // 业务错误码
	Error   string `json:"error"`             // 错误消息
	Details any    `json:"details,omitempty"` // 上游诊断信息（可选）
	Hint    string `json:"hint,omitempty"`    // 排查建议（可选）
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:  code,
		Error: message,
	}
}

// FromError 把错误映射为 HTTP 状态码与响应体
// 非 *apperr.Error 的错误一律视为 500，原始错误放在 details
func FromError(err error) (int, *ErrorResponse) {
	e, ok := apperr.As(err)
	if !ok {
		resp := NewErrorResponse(50000, "An internal server error occurred")
		resp.Details = err.Error()
		return http.StatusInternalServerError, resp
	}

	return e.HTTPStatus(), &ErrorResponse{
		Code:    e.Code(),
		Error:   e.Message,
		Details: e.Details,
		Hint:    e.Hint,
	}
}
