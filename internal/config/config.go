package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// 支持的 AI Provider
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
	ProviderOpenAI    = "openai"
	ProviderAzure     = "azure"
	ProviderArk       = "ark"
)

// Config 应用配置根结构
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	AI     AIConfig     `mapstructure:"ai"`
	Render RenderConfig `mapstructure:"render"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AIConfig AI 服务配置
type AIConfig struct {
	Provider          string          `mapstructure:"provider"`
	APIKey            string          `mapstructure:"api_key"`
	Model             string          `mapstructure:"model"`
	BaseURL           string          `mapstructure:"base_url"`
	Region            string          `mapstructure:"region"` // 仅 bedrock 使用
	SystemInstruction string          `mapstructure:"system_instruction"`
	Timeout           time.Duration   `mapstructure:"timeout"`
	Options           AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig AI 模型参数（请求未指定时的默认值）
type AIOptionsConfig struct {
	Temperature     float64 `mapstructure:"temperature"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
	TopP            float64 `mapstructure:"top_p"`
}

// RenderConfig 外部 LaTeX 渲染服务配置
type RenderConfig struct {
	URL        string        `mapstructure:"url"`
	Resolution int           `mapstructure:"resolution"`
	Device     string        `mapstructure:"device"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// Validate 验证配置有效性
// 缺少 API Key 不在这里报错，由请求时返回 ConfigurationError
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	if !IsSupportedProvider(c.AI.Provider) {
		return fmt.Errorf("unsupported AI provider: %s", c.AI.Provider)
	}

	if c.Render.Resolution < 0 {
		return errors.New("invalid render resolution")
	}

	return nil
}

// IsSupportedProvider 判断 provider 名称是否受支持
func IsSupportedProvider(name string) bool {
	switch strings.ToLower(name) {
	case ProviderGemini, ProviderAnthropic, ProviderBedrock, ProviderOpenAI, ProviderAzure, ProviderArk:
		return true
	}
	return false
}

// CredentialsPresent 判断调用上游所需的凭证是否齐全
// bedrock 使用 AWS 默认凭证链，只要求 region 与模型 ID
func (c *AIConfig) CredentialsPresent() bool {
	switch strings.ToLower(c.Provider) {
	case ProviderBedrock:
		return c.Region != "" && c.Model != ""
	default:
		return c.APIKey != ""
	}
}

// MissingCredentialsMessage 返回缺失凭证时给调用方的提示
func (c *AIConfig) MissingCredentialsMessage() string {
	switch strings.ToLower(c.Provider) {
	case ProviderBedrock:
		return "AWS region or Bedrock model id is not configured on the server."
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY is not configured on the server."
	case ProviderGemini, "":
		return "GEMINI_API_KEY is not configured on the server."
	default:
		return fmt.Sprintf("API key for provider %q is not configured on the server.", c.Provider)
	}
}

// providerEnv 各 Provider 惯用的环境变量名
var providerEnv = map[string]struct{ apiKey, model string }{
	ProviderGemini:    {apiKey: "GEMINI_API_KEY", model: "GEMINI_MODEL"},
	ProviderAnthropic: {apiKey: "ANTHROPIC_API_KEY", model: "ANTHROPIC_MODEL"},
	ProviderOpenAI:    {apiKey: "OPENAI_API_KEY", model: "OPENAI_MODEL"},
	ProviderAzure:     {apiKey: "AZURE_OPENAI_API_KEY", model: "AZURE_OPENAI_DEPLOYMENT"},
	ProviderArk:       {apiKey: "ARK_API_KEY", model: "ARK_MODEL"},
	ProviderBedrock:   {model: "BEDROCK_MODEL_ID"},
}

// ApplyProviderEnv 配置中未设置 api_key / model 时，从 Provider 惯用的环境变量补全
// 例如 provider=gemini 时读取 GEMINI_API_KEY 与 GEMINI_MODEL
func (c *AIConfig) ApplyProviderEnv(getenv func(string) string) {
	provider := strings.ToLower(c.Provider)
	if provider == "" {
		provider = ProviderGemini
	}

	names, ok := providerEnv[provider]
	if !ok {
		return
	}
	if c.APIKey == "" && names.apiKey != "" {
		c.APIKey = getenv(names.apiKey)
	}
	if c.Model == "" && names.model != "" {
		c.Model = getenv(names.model)
	}
}
