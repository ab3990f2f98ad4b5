// Package render 封装外部 LaTeX 渲染服务
// 请求体: {"tex": "...", "resolution": 200, "dev": "svg"}
// 响应体: {"result": "<svg ...>"}
package render

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"latexgen/internal/config"
	"latexgen/internal/pkg/apperr"
)

const (
	DefaultResolution = 200
	DefaultDevice     = "svg"
	DefaultTimeout    = 30 * time.Second
)

// Client 渲染服务客户端
type Client struct {
	url        string
	resolution int
	device     string
	http       *resty.Client
}

// Request 渲染请求
type Request struct {
	Tex        string `json:"tex"`
	Resolution int    `json:"resolution"`
	Dev        string `json:"dev"`
}

type response struct {
	Result *string `json:"result"`
}

// NewClient 创建渲染客户端
func NewClient(cfg *config.RenderConfig) *Client {
	resolution := cfg.Resolution
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	device := cfg.Device
	if device == "" {
		device = DefaultDevice
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		url:        strings.TrimSpace(cfg.URL),
		resolution: resolution,
		device:     device,
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
}

// Configured 渲染服务地址是否已配置
func (c *Client) Configured() bool {
	return c.url != ""
}

// Render 提交完整的 LaTeX 文档，返回渲染结果（SVG）
func (c *Client) Render(ctx context.Context, document string) (string, error) {
	if !c.Configured() {
		return "", apperr.Configuration("Render service URL is not configured on the server.")
	}

	payload := Request{
		Tex:        document,
		Resolution: c.resolution,
		Dev:        c.device,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.url)
	if err != nil {
		log.Error().Err(err).Str("url", c.url).Msg("render request failed")
		return "", apperr.Upstream(0, err.Error(), err)
	}

	body := resp.Body()
	if resp.IsError() {
		log.Warn().
			Int("status", resp.StatusCode()).
			Str("url", c.url).
			Msg("render service returned error status")
		return "", apperr.Upstream(resp.StatusCode(), upstreamMessage(body), nil)
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil || out.Result == nil || *out.Result == "" {
		return "", apperr.New(apperr.KindRenderFailed, "Render service did not return a result.").
			WithDetails(string(body))
	}

	return *out.Result, nil
}

// upstreamMessage 提取上游错误信息，优先 JSON 中的 error / message 字段
func upstreamMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "message"} {
			if v, ok := payload[key].(string); ok && v != "" {
				return v
			}
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "empty response body"
	}
	return text
}
