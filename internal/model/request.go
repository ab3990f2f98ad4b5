package model

// GenerateRequest LaTeX 生成请求
type GenerateRequest struct {
	Prompt          string   `json:"prompt" binding:"required"`
	Temperature     *float64 `json:"temperature,omitempty" binding:"omitempty,gte=0,lte=2"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty" binding:"omitempty,gte=1"`
}

// RenderRequest LaTeX 渲染请求
type RenderRequest struct {
	LatexCode string `json:"latexCode" binding:"required"`
}
