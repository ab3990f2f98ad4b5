package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"latexgen/internal/ai"
	"latexgen/internal/ai/component"
	"latexgen/internal/config"
	latexmodel "latexgen/internal/model"
	"latexgen/internal/pkg/apperr"
)

// LatexChain LaTeX 生成链
// 工作流: 系统指令 + 用户提示词 -> ChatModel -> 原始文本
type LatexChain struct {
	provider  string
	chatModel model.BaseChatModel
}

// NewLatexChain 创建基于 eino ChatModel 的生成链
func NewLatexChain(ctx context.Context, cfg *config.AIConfig) (*LatexChain, error) {
	chatModel, err := component.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewLatexChainWithModel(strings.ToLower(cfg.Provider), chatModel), nil
}

// NewLatexChainWithModel 使用已有 ChatModel 创建生成链
func NewLatexChainWithModel(provider string, chatModel model.BaseChatModel) *LatexChain {
	return &LatexChain{
		provider:  provider,
		chatModel: chatModel,
	}
}

// Name 返回 provider 标识
func (c *LatexChain) Name() string {
	return c.provider
}

// Generate 执行一次生成
func (c *LatexChain) Generate(ctx context.Context, prompt string, opts ai.GenerateOptions) (*ai.Result, error) {
	messages := buildMessages(prompt, opts.SystemInstruction)

	resp, err := c.chatModel.Generate(ctx, messages, buildOptions(opts)...)
	if err != nil {
		status := ai.StatusFromError(err)
		log.Error().Err(err).Str("provider", c.provider).Int("status", status).Msg("chat model generate failed")
		return nil, apperr.Upstream(status, err.Error(), err)
	}
	if resp == nil {
		return nil, apperr.New(apperr.KindUnexpectedResponseShape, "API returned an empty response with no candidates.")
	}

	var finishReason string
	if resp.ResponseMeta != nil {
		finishReason = resp.ResponseMeta.FinishReason
	}

	switch finishReason {
	case "", "stop":
	case "content_filter":
		return nil, apperr.New(apperr.KindContentBlocked, "Prompt was blocked by API.").
			WithDetails(map[string]string{"finishReason": finishReason})
	default:
		return nil, apperr.New(apperr.KindGenerationIncomplete,
			fmt.Sprintf("Generation stopped for reason: %s", finishReason)).
			WithDetails(map[string]string{"finishReason": finishReason})
	}

	if resp.Content == "" {
		return nil, apperr.New(apperr.KindUnexpectedResponseShape,
			"API response format unexpected: 'text' part is missing.")
	}

	result := &ai.Result{
		Text:         resp.Content,
		FinishReason: finishReason,
	}

	// 提取 token 使用量
	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		usage := resp.ResponseMeta.Usage
		result.Usage = &latexmodel.TokenUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		}
	}

	return result, nil
}

// buildMessages 构建消息
func buildMessages(prompt, systemInstruction string) []*schema.Message {
	messages := make([]*schema.Message, 0, 2)
	if systemInstruction != "" {
		messages = append(messages, schema.SystemMessage(systemInstruction))
	}
	return append(messages, schema.UserMessage(prompt))
}

// buildOptions 把单次生成参数转换为 eino model.Option
func buildOptions(opts ai.GenerateOptions) []model.Option {
	options := []model.Option{
		model.WithTemperature(float32(opts.Temperature)),
	}
	if opts.MaxOutputTokens > 0 {
		options = append(options, model.WithMaxTokens(opts.MaxOutputTokens))
	}
	if opts.TopP > 0 {
		options = append(options, model.WithTopP(float32(opts.TopP)))
	}
	return options
}
