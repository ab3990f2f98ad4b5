package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadinessChecker 就绪状态来源
type ReadinessChecker interface {
	Ready() bool
	ProviderName() string
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	checker          ReadinessChecker
	renderConfigured bool
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(checker ReadinessChecker, renderConfigured bool) *HealthHandler {
	return &HealthHandler{
		checker:          checker,
		renderConfigured: renderConfigured,
	}
}

// Health 健康检查
// @Summary  健康检查
// @Tags     系统
// @Produce  json
// @Success  200  {object}  map[string]interface{}
// @Router   /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready 就绪检查
// 凭证缺失不影响就绪，请求时返回 ConfigurationError
// @Summary  就绪检查
// @Tags     系统
// @Produce  json
// @Success  200  {object}  map[string]interface{}
// @Router   /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "ready",
		"provider":           h.checker.ProviderName(),
		"providerConfigured": h.checker.Ready(),
		"renderConfigured":   h.renderConfigured,
	})
}
