package ai

import (
	"context"
	"errors"

	"latexgen/internal/model"
)

//go:generate mockgen -destination=mocks/provider_mock.go -package=mocks latexgen/internal/ai Provider,ModelLister

// Provider 文本生成提供者
// 每个上游实现一个 Provider，由 ai.provider 配置选择
// 上游的异常统一以 *apperr.Error 返回（ContentBlocked / GenerationIncomplete /
// UnexpectedResponseShape / UpstreamUnreachable）
type Provider interface {
	// Name 返回 provider 标识（gemini、anthropic ...）
	Name() string

	// Generate 根据提示词生成文本
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Result, error)
}

// ModelLister 可列出上游模型的 Provider
type ModelLister interface {
	ListModels(ctx context.Context, all bool) ([]model.ModelInfo, error)
}

// GenerateOptions 单次生成参数
type GenerateOptions struct {
	SystemInstruction string
	Temperature       float64
	MaxOutputTokens   int
	TopP              float64
}

// Result 生成结果
type Result struct {
	Text         string
	FinishReason string
	Usage        *model.TokenUsage
}

// statusCoder 由 SDK 错误实现（aws smithy ResponseError 等）
type statusCoder interface {
	HTTPStatusCode() int
}

// StatusFromError 尽力从 SDK 错误中提取 HTTP 状态码，取不到返回 0
func StatusFromError(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatusCode()
	}
	return 0
}
