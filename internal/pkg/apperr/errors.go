// Package apperr 定义中继服务的错误分类
// 每个错误都带有 Kind，Handler 层据此映射 HTTP 状态码与业务错误码
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类型
type Kind string

const (
	KindInvalidRequest          Kind = "InvalidRequest"
	KindConfiguration           Kind = "ConfigurationError"
	KindContentBlocked          Kind = "ContentBlocked"
	KindGenerationIncomplete    Kind = "GenerationIncomplete"
	KindUnexpectedResponseShape Kind = "UnexpectedResponseShape"
	KindUpstreamUnreachable     Kind = "UpstreamUnreachable"
	KindRenderFailed            Kind = "RenderFailed"
)

// Error 中继错误
type Error struct {
	Kind    Kind
	Message string
	Details any
	Hint    string

	// UpstreamStatus 上游返回的 HTTP 状态码，0 表示未拿到响应
	UpstreamStatus int

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus 返回该错误对应的 HTTP 状态码
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidRequest, KindContentBlocked:
		return http.StatusBadRequest
	case KindUpstreamUnreachable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Code 返回业务错误码
func (e *Error) Code() int {
	switch e.Kind {
	case KindInvalidRequest:
		return 40001
	case KindContentBlocked:
		return 40002
	case KindConfiguration:
		return 50001
	case KindGenerationIncomplete:
		return 50002
	case KindUnexpectedResponseShape:
		return 50003
	case KindRenderFailed:
		return 50004
	case KindUpstreamUnreachable:
		return 50201
	default:
		return 50000
	}
}

// New 创建指定类型的错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithDetails 附加诊断信息
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// WithHint 附加修复建议
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// Wrap 附加底层错误
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// InvalidRequest 客户端请求参数错误
func InvalidRequest(message string) *Error {
	return New(KindInvalidRequest, message)
}

// Configuration 服务端配置缺失
func Configuration(message string) *Error {
	return New(KindConfiguration, message)
}

// Upstream 上游不可达或返回非 2xx
// status 为 0 时表示传输层失败，没有拿到任何响应
func Upstream(status int, message string, err error) *Error {
	e := &Error{
		Kind:           KindUpstreamUnreachable,
		UpstreamStatus: status,
		Hint:           HintForStatus(status),
		Err:            err,
	}
	if status > 0 {
		e.Message = fmt.Sprintf("API Request Error: %d - %s", status, message)
	} else {
		e.Message = fmt.Sprintf("API Request Error: %s", message)
	}
	return e
}

// HintForStatus 根据上游状态码给出排查建议
func HintForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "The model name might be wrong or the API endpoint is incorrect."
	case http.StatusBadRequest:
		return "The request payload (JSON) is likely malformed or the prompt was blocked."
	case http.StatusTooManyRequests:
		return "You have exceeded your API quota. Check your provider console."
	case http.StatusServiceUnavailable:
		return "The service is temporarily overloaded. Please try again in a moment."
	default:
		return ""
	}
}

// As 提取 *Error
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind 判断错误链中是否包含指定类型
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
