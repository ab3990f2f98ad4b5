// Package factory 根据配置创建 ai.Provider
package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"latexgen/internal/ai"
	"latexgen/internal/ai/anthropic"
	"latexgen/internal/ai/bedrock"
	"latexgen/internal/ai/chain"
	"latexgen/internal/ai/gemini"
	"latexgen/internal/config"
)

// NewProvider 创建配置指定的 Provider
// 凭证缺失时返回错误，调用方决定是否降级
func NewProvider(ctx context.Context, cfg *config.AIConfig) (ai.Provider, error) {
	if !cfg.CredentialsPresent() {
		return nil, fmt.Errorf("%s", cfg.MissingCredentialsMessage())
	}

	provider := strings.ToLower(cfg.Provider)
	log.Info().
		Str("provider", provider).
		Str("model", cfg.Model).
		Msg("initializing AI provider")

	switch provider {
	case config.ProviderGemini, "":
		return gemini.NewClient(cfg), nil
	case config.ProviderAnthropic:
		return anthropic.NewClient(cfg), nil
	case config.ProviderBedrock:
		return bedrock.NewClient(ctx, cfg)
	case config.ProviderOpenAI, config.ProviderAzure, config.ProviderArk:
		return chain.NewLatexChain(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}
