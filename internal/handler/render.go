package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"latexgen/internal/model"
	"latexgen/internal/service"
)

// RenderHandler LaTeX 渲染处理器
type RenderHandler struct {
	renderSvc *service.RenderService
}

// NewRenderHandler 创建 LaTeX 渲染处理器
func NewRenderHandler(renderSvc *service.RenderService) *RenderHandler {
	return &RenderHandler{
		renderSvc: renderSvc,
	}
}

// Render 渲染 LaTeX 片段为 SVG
// @Summary      渲染 LaTeX
// @Description  片段包进最小 article 文档后交给外部渲染服务，返回 SVG
// @Tags         LaTeX
// @Accept       json
// @Produce      json
// @Param        request  body      model.RenderRequest   true  "渲染请求"
// @Success      200      {object}  model.RenderResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Failure      502      {object}  ErrorResponse
// @Router       /api/render [post]
func (h *RenderHandler) Render(c *gin.Context) {
	var req model.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError("LaTeX code is required.", err))
		return
	}

	resp, err := h.renderSvc.Render(c.Request.Context(), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
