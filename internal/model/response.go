package model

// GenerateResponse LaTeX 生成响应
type GenerateResponse struct {
	LatexCode string      `json:"latexCode"`
	Usage     *TokenUsage `json:"usage,omitempty"`
}

// RenderResponse LaTeX 渲染响应
type RenderResponse struct {
	SVGImage string `json:"svgImage"`
}

// ListModelsResponse 模型列表响应
type ListModelsResponse struct {
	Provider string      `json:"provider"`
	Models   []ModelInfo `json:"models"`
}

// ModelInfo 上游模型信息
type ModelInfo struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName,omitempty"`
	Description                string   `json:"description,omitempty"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods,omitempty"`
}

// TokenUsage Token 使用统计
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}
