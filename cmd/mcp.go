package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"latexgen/internal/mcpadapter"
	"latexgen/internal/pkg/logger"
	"latexgen/internal/pkg/render"
	"latexgen/internal/service"
)

// Version 由构建时 -ldflags 注入
var Version = "dev"

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server over stdio",
	Long: `Run a Model Context Protocol server over stdio exposing the
generate_latex and render_latex tools.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	// stdout 留给协议
	cfg.Log.Output = "stderr"
	if err := logger.Init(&cfg.Log); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := mcpadapter.NewServer(
		Version,
		service.NewGenerateService(&cfg.AI, newProvider(ctx, cfg)),
		service.NewRenderService(render.NewClient(&cfg.Render)),
	)

	log.Info().Str("provider", cfg.AI.Provider).Msg("starting MCP server on stdio")

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// stdin 关闭时正常退出
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			log.Debug().Err(err).Msg("MCP server stopped")
			return nil
		}
		return fmt.Errorf("failed to run mcp server: %w", err)
	}
	return nil
}
