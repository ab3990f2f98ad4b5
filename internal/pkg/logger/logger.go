package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"latexgen/internal/config"
)

// Init 初始化全局日志
func Init(cfg *config.LogConfig) error {
	// 设置日志级别
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// 设置时间格式
	switch cfg.TimeFormat {
	case "Unix":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	case "UnixMs":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	default:
		zerolog.TimeFieldFormat = time.RFC3339
	}

	output, err := openOutput(cfg)
	if err != nil {
		return err
	}

	// Console 格式 (开发环境友好)
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Caller().Logger()

	return nil
}

// openOutput 根据配置选择输出目标
// mcp 子命令占用 stdout 传输协议，此时应配置 output=stderr
func openOutput(cfg *config.LogConfig) (io.Writer, error) {
	switch cfg.Output {
	case "stderr":
		return os.Stderr, nil
	case "file":
		if cfg.FilePath == "" {
			return os.Stdout, nil
		}
		return os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	default:
		return os.Stdout, nil
	}
}

// Get 获取全局 logger
func Get() zerolog.Logger {
	return log.Logger
}
