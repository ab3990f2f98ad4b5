package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"latexgen/internal/ai"
	"latexgen/internal/config"
	"latexgen/internal/model"
	"latexgen/internal/pkg/apperr"
	"latexgen/internal/pkg/latex"
)

// 请求与配置都未指定时使用的生成参数
const (
	DefaultMaxOutputTokens = 800
	DefaultTimeout         = 30 * time.Second

	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// GenerateService LaTeX 生成服务
// 提示词原样作为用户消息发送，返回去掉代码块标记后的文本
type GenerateService struct {
	cfg      *config.AIConfig
	provider ai.Provider
}

// NewGenerateService 创建生成服务
// provider 为 nil 表示凭证缺失，请求时返回 ConfigurationError
func NewGenerateService(cfg *config.AIConfig, provider ai.Provider) *GenerateService {
	return &GenerateService{
		cfg:      cfg,
		provider: provider,
	}
}

// Ready 上游 Provider 是否可用
func (s *GenerateService) Ready() bool {
	return s.provider != nil
}

// ProviderName 返回当前 Provider 标识
func (s *GenerateService) ProviderName() string {
	if s.provider != nil {
		return s.provider.Name()
	}
	return strings.ToLower(s.cfg.Provider)
}

// Generate 根据提示词生成 LaTeX
func (s *GenerateService) Generate(ctx context.Context, req *model.GenerateRequest) (*model.GenerateResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, apperr.InvalidRequest("Prompt is required.")
	}
	if err := validateParams(req); err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, apperr.Configuration(s.cfg.MissingCredentialsMessage())
	}

	opts := s.options(req)
	logger := log.With().
		Str("provider", s.provider.Name()).
		Int("prompt_len", len(req.Prompt)).
		Float64("temperature", opts.Temperature).
		Int("max_output_tokens", opts.MaxOutputTokens).
		Logger()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.provider.Generate(ctx, req.Prompt, opts)
	if err != nil {
		logger.Warn().Err(err).Msg("generate failed")
		return nil, err
	}

	code := latex.StripFences(result.Text)

	event := logger.Info().Int("latex_len", len(code))
	if result.Usage != nil {
		event = event.
			Int("prompt_tokens", result.Usage.PromptTokens).
			Int("completion_tokens", result.Usage.CompletionTokens)
	}
	event.Msg("generate completed")

	return &model.GenerateResponse{
		LatexCode: code,
		Usage:     result.Usage,
	}, nil
}

// ListModels 列出上游模型
// Provider 不支持列出时，只返回当前配置的模型
func (s *GenerateService) ListModels(ctx context.Context, all bool) (*model.ListModelsResponse, error) {
	if s.provider == nil {
		return nil, apperr.Configuration(s.cfg.MissingCredentialsMessage())
	}

	resp := &model.ListModelsResponse{
		Provider: s.provider.Name(),
		Models:   []model.ModelInfo{},
	}

	lister, ok := s.provider.(ai.ModelLister)
	if !ok {
		if s.cfg.Model != "" {
			resp.Models = append(resp.Models, model.ModelInfo{Name: s.cfg.Model})
		}
		return resp, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	models, err := lister.ListModels(ctx, all)
	if err != nil {
		log.Warn().Err(err).Str("provider", resp.Provider).Msg("list models failed")
		return nil, err
	}
	if models != nil {
		resp.Models = models
	}
	return resp, nil
}

// validateParams 校验可选生成参数的取值范围
func validateParams(req *model.GenerateRequest) error {
	if t := req.Temperature; t != nil && (*t < MinTemperature || *t > MaxTemperature) {
		return apperr.InvalidRequest("temperature must be between 0 and 2.").
			WithDetails(map[string]float64{"temperature": *t})
	}
	if n := req.MaxOutputTokens; n != nil && *n < 1 {
		return apperr.InvalidRequest("maxOutputTokens must be at least 1.").
			WithDetails(map[string]int{"maxOutputTokens": *n})
	}
	return nil
}

// options 合并请求参数与配置默认值
func (s *GenerateService) options(req *model.GenerateRequest) ai.GenerateOptions {
	opts := ai.GenerateOptions{
		SystemInstruction: s.cfg.SystemInstruction,
		Temperature:       s.cfg.Options.Temperature,
		MaxOutputTokens:   s.cfg.Options.MaxOutputTokens,
		TopP:              s.cfg.Options.TopP,
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = DefaultMaxOutputTokens
	}

	if req.Temperature != nil {
		opts.Temperature = *req.Temperature
	}
	if req.MaxOutputTokens != nil {
		opts.MaxOutputTokens = *req.MaxOutputTokens
	}
	return opts
}

func (s *GenerateService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
