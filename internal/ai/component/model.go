package component

import (
	"context"
	"fmt"
	"strings"

	arkext "github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"latexgen/internal/config"
)

const (
	defaultArkBaseURL  = "https://ark.cn-beijing.volces.com/api/v3"
	defaultArkModel    = "doubao-seed-1-6-flash-250615"
	defaultOpenAIModel = "gpt-4o-mini"
)

// NewChatModel 创建 ChatModel
// 支持 eino 适配的 Provider: openai, azure, ark
// 模型参数在每次调用时通过 model.Option 传入，这里只设置连接信息
func NewChatModel(ctx context.Context, cfg *config.AIConfig) (model.BaseChatModel, error) {
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderOpenAI:
		return newOpenAIChatModel(ctx, cfg)
	case config.ProviderAzure:
		return newAzureChatModel(ctx, cfg)
	case config.ProviderArk:
		return newArkChatModel(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported eino provider: %s", cfg.Provider)
	}
}

// newOpenAIChatModel 创建 OpenAI ChatModel
func newOpenAIChatModel(ctx context.Context, cfg *config.AIConfig) (model.BaseChatModel, error) {
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultOpenAIModel
	}

	modelCfg := &openai.ChatModelConfig{
		Model:   modelName,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	}

	// Base URL (用于代理或兼容 API)
	if cfg.BaseURL != "" {
		modelCfg.BaseURL = cfg.BaseURL
	}

	return openai.NewChatModel(ctx, modelCfg)
}

// newAzureChatModel 创建 Azure OpenAI ChatModel
func newAzureChatModel(ctx context.Context, cfg *config.AIConfig) (model.BaseChatModel, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("azure provider requires ai.base_url")
	}

	modelCfg := &openai.ChatModelConfig{
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		ByAzure: true,
		Timeout: cfg.Timeout,
	}

	return openai.NewChatModel(ctx, modelCfg)
}

// newArkChatModel 创建 Ark ChatModel
func newArkChatModel(ctx context.Context, cfg *config.AIConfig) (model.BaseChatModel, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultArkBaseURL
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultArkModel
	}

	modelCfg := &arkext.ChatModelConfig{
		Model:   modelName,
		APIKey:  cfg.APIKey,
		BaseURL: baseURL,
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		modelCfg.Timeout = &timeout
	}

	return arkext.NewChatModel(ctx, modelCfg)
}
