package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"latexgen/internal/model"
	"latexgen/internal/pkg/apperr"
	"latexgen/internal/service"
)

// GenerateHandler LaTeX 生成处理器
type GenerateHandler struct {
	generateSvc *service.GenerateService
}

// NewGenerateHandler 创建 LaTeX 生成处理器
func NewGenerateHandler(generateSvc *service.GenerateService) *GenerateHandler {
	return &GenerateHandler{
		generateSvc: generateSvc,
	}
}

// Generate 根据提示词生成 LaTeX
// @Summary      生成 LaTeX
// @Description  把自然语言提示词转发给配置的模型，返回去掉代码块标记的 LaTeX 源码
// @Tags         LaTeX
// @Accept       json
// @Produce      json
// @Param        request  body      model.GenerateRequest   true  "生成请求"
// @Success      200      {object}  model.GenerateResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Failure      502      {object}  ErrorResponse
// @Router       /api/generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message := "Prompt is required."
		if req.Prompt != "" {
			message = "Invalid request body."
		}
		abortWithError(c, bindError(message, err))
		return
	}

	resp, err := h.generateSvc.Generate(c.Request.Context(), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListModels 列出上游模型
// @Summary      列出模型
// @Description  调试用，列出当前 Provider 可用于文本生成的模型
// @Tags         LaTeX
// @Produce      json
// @Param        all  query     bool  false  "返回全部模型，不按 generateContent 过滤"
// @Success      200  {object}  model.ListModelsResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /api/list-models [get]
func (h *GenerateHandler) ListModels(c *gin.Context) {
	all := false
	if v := c.Query("all"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			abortWithError(c, apperr.InvalidRequest("Query parameter 'all' must be a boolean."))
			return
		}
		all = parsed
	}

	resp, err := h.generateSvc.ListModels(c.Request.Context(), all)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
