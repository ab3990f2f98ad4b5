package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"latexgen/internal/model"
	"latexgen/internal/pkg/apperr"
	"latexgen/internal/pkg/latex"
)

// Renderer 外部渲染服务
type Renderer interface {
	Render(ctx context.Context, document string) (string, error)
}

// RenderService LaTeX 渲染服务
// 片段包进最小文档后交给外部服务，SVG 原样返回
type RenderService struct {
	renderer Renderer
}

// NewRenderService 创建渲染服务
func NewRenderService(renderer Renderer) *RenderService {
	return &RenderService{
		renderer: renderer,
	}
}

// Render 渲染 LaTeX 片段
func (s *RenderService) Render(ctx context.Context, req *model.RenderRequest) (*model.RenderResponse, error) {
	if strings.TrimSpace(req.LatexCode) == "" {
		return nil, apperr.InvalidRequest("LaTeX code is required.")
	}

	document := latex.WrapDocument(req.LatexCode)

	svg, err := s.renderer.Render(ctx, document)
	if err != nil {
		log.Warn().Err(err).Int("latex_len", len(req.LatexCode)).Msg("render failed")
		return nil, err
	}

	log.Info().
		Int("latex_len", len(req.LatexCode)).
		Int("svg_len", len(svg)).
		Msg("render completed")

	return &model.RenderResponse{SVGImage: svg}, nil
}
