// Package anthropic 通过 Messages API 调用 Claude
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
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
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-sonnet-4-20250514"
	DefaultTimeout = 30 * time.Second

	APIVersion = "2023-06-01"
)

// Client Claude 客户端，实现 ai.Provider 与 ai.ModelLister
type Client struct {
	model string
	http  *resty.Client
}

// NewClient 创建 Claude 客户端
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
		model: modelName,
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("x-api-key", cfg.APIKey).
			SetHeader("anthropic-version", APIVersion),
	}
}

// Name 返回 provider 标识
func (c *Client) Name() string {
	return config.ProviderAnthropic
}

// Generate 调用 /v1/messages
func (c *Client) Generate(ctx context.Context, prompt string, opts ai.GenerateOptions) (*ai.Result, error) {
	payload := BuildRequest(c.model, prompt, opts)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/v1/messages")
	if err != nil {
		log.Error().Err(err).Str("model", c.model).Msg("anthropic request failed")
		return nil, apperr.Upstream(0, err.Error(), err)
	}

	if resp.IsError() {
		msg := DecodeErrorMessage(resp.Body())
		log.Warn().
			Int("status", resp.StatusCode()).
			Str("model", c.model).
			Str("error", msg).
			Msg("anthropic returned error status")
		return nil, apperr.Upstream(resp.StatusCode(), msg, nil)
	}

	result, err := DecodeResponse(resp.Body())
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("model", c.model).
		Str("stop_reason", result.FinishReason).
		Int("text_len", len(result.Text)).
		Msg("anthropic generation completed")

	return result, nil
}

// ListModels 列出可用模型
// Messages API 中所有模型都支持文本生成，all 参数不影响结果
func (c *Client) ListModels(ctx context.Context, _ bool) ([]model.ModelInfo, error) {
	var models []model.ModelInfo
	afterID := ""

	for {
		req := c.http.R().
			SetContext(ctx).
			SetQueryParam("limit", "100")
		if afterID != "" {
			req.SetQueryParam("after_id", afterID)
		}

		resp, err := req.Get("/v1/models")
		if err != nil {
			return nil, apperr.Upstream(0, err.Error(), err)
		}
		if resp.IsError() {
			return nil, apperr.Upstream(resp.StatusCode(), DecodeErrorMessage(resp.Body()), nil)
		}

		var page listModelsResponse
		if err := json.Unmarshal(resp.Body(), &page); err != nil {
			return nil, apperr.New(apperr.KindUnexpectedResponseShape, "Model list response could not be parsed.").
				WithDetails(string(resp.Body())).
				Wrap(err)
		}

		for _, m := range page.Data {
			models = append(models, model.ModelInfo{
				Name:                       m.ID,
				DisplayName:                m.DisplayName,
				SupportedGenerationMethods: []string{"messages"},
			})
		}

		if !page.HasMore || page.LastID == "" {
			return models, nil
		}
		afterID = page.LastID
	}
}

// MessagesRequest Messages API 请求体，bedrock 复用同样的结构
type MessagesRequest struct {
	AnthropicVersion string    `json:"anthropic_version,omitempty"`
	Model            string    `json:"model,omitempty"`
	System           string    `json:"system,omitempty"`
	Messages         []Message `json:"messages"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      *float64  `json:"temperature,omitempty"`
	TopP             *float64  `json:"top_p,omitempty"`
}

// Message 对话消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildRequest 组装 Messages 请求体
// Claude 的 temperature 上限为 1
func BuildRequest(modelName, prompt string, opts ai.GenerateOptions) *MessagesRequest {
	temperature := opts.Temperature
	if temperature > 1 {
		temperature = 1
	}

	req := &MessagesRequest{
		Model:       modelName,
		System:      opts.SystemInstruction,
		Messages:    []Message{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxOutputTokens,
		Temperature: &temperature,
	}
	if opts.TopP > 0 {
		topP := opts.TopP
		req.TopP = &topP
	}
	return req
}

type messagesResponse struct {
	Content []struct {
		Type string  `json:"type"`
		Text *string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type listModelsResponse struct {
	Data []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"data"`
	HasMore bool   `json:"has_more"`
	LastID  string `json:"last_id"`
}

// StopDetails 生成未正常结束时的诊断信息
type StopDetails struct {
	StopReason string `json:"stopReason"`
}

// DecodeResponse 把 Messages 响应映射为生成结果或分类错误
// end_turn / stop_sequence 为正常结束，refusal 视为内容拦截，其余均为未完成
func DecodeResponse(body []byte) (*ai.Result, error) {
	var resp messagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperr.New(apperr.KindUnexpectedResponseShape,
			fmt.Sprintf("API response parsing failed unexpectedly: %v", err)).
			WithDetails(string(body))
	}

	switch resp.StopReason {
	case "", "end_turn", "stop_sequence":
	case "refusal":
		return nil, apperr.New(apperr.KindContentBlocked, "Prompt was blocked by API.").
			WithDetails(StopDetails{StopReason: resp.StopReason})
	default:
		return nil, apperr.New(apperr.KindGenerationIncomplete,
			fmt.Sprintf("Generation stopped for reason: %s", resp.StopReason)).
			WithDetails(StopDetails{StopReason: resp.StopReason})
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			b.WriteString(*block.Text)
		}
	}
	if b.Len() == 0 {
		return nil, apperr.New(apperr.KindUnexpectedResponseShape,
			"API response format unexpected: 'text' part is missing.").
			WithDetails(json.RawMessage(body))
	}

	result := &ai.Result{
		Text:         b.String(),
		FinishReason: resp.StopReason,
	}
	if resp.Usage != nil {
		result.Usage = &model.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		}
	}
	return result, nil
}

// DecodeErrorMessage 提取 {"error":{"message":...}}，否则返回原始文本
func DecodeErrorMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "empty response body"
	}
	return text
}
