package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "latexgen/docs"
	"latexgen/internal/ai"
	"latexgen/internal/config"
	"latexgen/internal/handler"
	"latexgen/internal/pkg/render"
	"latexgen/internal/server/middleware"
	"latexgen/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Server HTTP 服务器
type Server struct {
	cfg         *config.Config
	engine      *gin.Engine
	handler     http.Handler
	generateSvc *service.GenerateService
	renderSvc   *service.RenderService
	renderReady bool
}

// New 创建服务器实例
// provider 为 nil 时服务照常启动，生成接口返回 ConfigurationError
func New(cfg *config.Config, provider ai.Provider) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	renderClient := render.NewClient(&cfg.Render)
	if !renderClient.Configured() {
		log.Warn().Msg("render service URL not configured, /api/render will return ConfigurationError")
	}

	srv := &Server{
		cfg:         cfg,
		engine:      gin.New(),
		generateSvc: service.NewGenerateService(&cfg.AI, provider),
		renderSvc:   service.NewRenderService(renderClient),
		renderReady: renderClient.Configured(),
	}

	// 设置路由
	srv.setupRoutes()
	srv.handler = middleware.CORS().Handler(srv.engine)

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())

	// 健康检查
	healthHandler := handler.NewHealthHandler(s.generateSvc, s.renderReady)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	generateHandler := handler.NewGenerateHandler(s.generateSvc)
	renderHandler := handler.NewRenderHandler(s.renderSvc)

	api := s.engine.Group("/api")
	{
		api.POST("/generate", generateHandler.Generate)
		api.GET("/list-models", generateHandler.ListModels)
		api.POST("/render", renderHandler.Render)
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Handler 返回带 CORS 的完整 HTTP Handler (用于测试)
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
