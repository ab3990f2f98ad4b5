// Package mcpadapter 把生成与渲染能力暴露为 MCP 工具
package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"latexgen/internal/model"
	"latexgen/internal/service"
)

const (
	ToolGenerateLatex = "generate_latex"
	ToolRenderLatex   = "render_latex"
)

// GenerateInput generate_latex 工具入参（与 HTTP 接口字段一致）
type GenerateInput struct {
	Prompt          string   `json:"prompt" jsonschema:"natural-language description of the LaTeX to produce"`
	Temperature     *float64 `json:"temperature,omitempty" jsonschema:"sampling temperature between 0 and 2"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty" jsonschema:"upper bound on generated tokens"`
}

// RenderInput render_latex 工具入参
type RenderInput struct {
	LatexCode string `json:"latexCode" jsonschema:"LaTeX fragment to render inside a minimal article document"`
}

// NewGenerateHandler 返回 generate_latex 的工具处理函数，传给 mcp.AddTool
func NewGenerateHandler(svc *service.GenerateService) func(context.Context, *mcp.CallToolRequest, GenerateInput) (*mcp.CallToolResult, model.GenerateResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, model.GenerateResponse, error) {
		resp, err := svc.Generate(ctx, &model.GenerateRequest{
			Prompt:          input.Prompt,
			Temperature:     input.Temperature,
			MaxOutputTokens: input.MaxOutputTokens,
		})
		if err != nil {
			return nil, model.GenerateResponse{}, err
		}
		return nil, *resp, nil
	}
}

// NewRenderHandler 返回 render_latex 的工具处理函数，传给 mcp.AddTool
func NewRenderHandler(svc *service.RenderService) func(context.Context, *mcp.CallToolRequest, RenderInput) (*mcp.CallToolResult, model.RenderResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RenderInput) (*mcp.CallToolResult, model.RenderResponse, error) {
		resp, err := svc.Render(ctx, &model.RenderRequest{LatexCode: input.LatexCode})
		if err != nil {
			return nil, model.RenderResponse{}, err
		}
		return nil, *resp, nil
	}
}

// NewServer 创建注册了全部工具的 MCP Server
func NewServer(version string, generateSvc *service.GenerateService, renderSvc *service.RenderService) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "latexgen",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolGenerateLatex,
		Description: "Generate LaTeX source from a natural-language prompt. Returns the code without Markdown fences.",
	}, NewGenerateHandler(generateSvc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolRenderLatex,
		Description: "Render a LaTeX fragment (tikz and amsmath are loaded) to an SVG image.",
	}, NewRenderHandler(renderSvc))

	return server
}
