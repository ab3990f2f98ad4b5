// Package gemini 通过 REST 直接调用 Google Gemini v1beta generateContent
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"latexgen/internal/ai"
	"latexgen/internal/config"
	"latexgen/internal/model"
	"latexgen/internal/pkg/apperr"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"
	DefaultTimeout = 30 * time.Second

	methodGenerateContent = "generateContent"
)

// Client Gemini 客户端，实现 ai.Provider 与 ai.ModelLister
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *resty.Client
}

// NewClient 创建 Gemini 客户端
func NewClient(cfg *config.AIConfig) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   strings.TrimPrefix(modelName, "models/"),
		baseURL: baseURL,
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// Name 返回 provider 标识
func (c *Client) Name() string {
	return config.ProviderGemini
}

// Generate 调用 models/{model}:generateContent
func (c *Client) Generate(ctx context.Context, prompt string, opts ai.GenerateOptions) (*ai.Result, error) {
	payload := buildRequest(prompt, opts)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(payload).
		Post(fmt.Sprintf("/models/%s:%s", c.model, methodGenerateContent))
	if err != nil {
		log.Error().Err(err).Str("model", c.model).Msg("gemini request failed")
		return nil, apperr.Upstream(0, err.Error(), err)
	}

	if resp.IsError() {
		msg := decodeErrorMessage(resp.Body())
		log.Warn().
			Int("status", resp.StatusCode()).
			Str("model", c.model).
			Str("error", msg).
			Msg("gemini returned error status")
		return nil, apperr.Upstream(resp.StatusCode(), msg, nil)
	}

	result, err := decodeGenerateResponse(resp.Body())
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("model", c.model).
		Str("finish_reason", result.FinishReason).
		Int("text_len", len(result.Text)).
		Msg("gemini generation completed")

	return result, nil
}

// ListModels 列出可用模型，all=false 时只保留支持 generateContent 的模型
func (c *Client) ListModels(ctx context.Context, all bool) ([]model.ModelInfo, error) {
	var models []model.ModelInfo
	pageToken := ""

	for {
		req := c.http.R().
			SetContext(ctx).
			SetQueryParam("key", c.apiKey)
		if pageToken != "" {
			req.SetQueryParam("pageToken", pageToken)
		}

		resp, err := req.Get("/models")
		if err != nil {
			return nil, apperr.Upstream(0, err.Error(), err)
		}
		if resp.IsError() {
			return nil, apperr.Upstream(resp.StatusCode(), decodeErrorMessage(resp.Body()), nil)
		}

		var page listModelsResponse
		if err := json.Unmarshal(resp.Body(), &page); err != nil {
			return nil, apperr.New(apperr.KindUnexpectedResponseShape, "Model list response could not be parsed.").
				WithDetails(string(resp.Body())).
				Wrap(err)
		}

		for _, m := range page.Models {
			if !all && !slices.Contains(m.SupportedGenerationMethods, methodGenerateContent) {
				continue
			}
			models = append(models, model.ModelInfo{
				Name:                       m.Name,
				DisplayName:                m.DisplayName,
				Description:                m.Description,
				SupportedGenerationMethods: m.SupportedGenerationMethods,
			})
		}

		if page.NextPageToken == "" {
			return models, nil
		}
		pageToken = page.NextPageToken
	}
}

// buildRequest 组装 generateContent 请求体
func buildRequest(prompt string, opts ai.GenerateOptions) *generateContentRequest {
	req := &generateContentRequest{
		Contents: []content{
			{
				Role:  "user",
				Parts: []part{{Text: prompt}},
			},
		},
		GenerationConfig: &generationConfig{
			MaxOutputTokens: opts.MaxOutputTokens,
		},
	}

	temperature := opts.Temperature
	req.GenerationConfig.Temperature = &temperature
	if opts.TopP > 0 {
		topP := opts.TopP
		req.GenerationConfig.TopP = &topP
	}

	if opts.SystemInstruction != "" {
		req.SystemInstruction = &content{
			Parts: []part{{Text: opts.SystemInstruction}},
		}
	}

	return req
}
