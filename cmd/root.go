package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"latexgen/internal/ai"
	"latexgen/internal/config"
	"latexgen/internal/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "latexgen",
	Short: "LaTeX generator - prompt to LaTeX relay",
	Long: `latexgen relays natural-language prompts to a generative model and returns
cleaned LaTeX source. It also forwards LaTeX to an external render service and
returns the SVG.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./configs/config.yaml)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// .env 不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.latexgen")
	}

	// 环境变量设置
	viper.SetEnvPrefix("LATEXGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindEnv()

	// 设置默认值
	setDefaults()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults and environment variables")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	// 反序列化到结构体
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}
	cfg.AI.ApplyProviderEnv(os.Getenv)

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	log.Debug().Str("config_file", viper.ConfigFileUsed()).Msg("configuration loaded")
}

// bindEnv 兼容不带前缀的常用环境变量
func bindEnv() {
	_ = viper.BindEnv("server.port", "LATEXGEN_SERVER_PORT", "PORT")
	_ = viper.BindEnv("render.url", "LATEXGEN_RENDER_URL", "RENDER_URL")
	_ = viper.BindEnv("ai.region", "LATEXGEN_AI_REGION", "AWS_REGION")
}

func setDefaults() {
	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "60s")

	// AI
	// api_key / model 默认留空，由 ApplyProviderEnv 或各 Provider 默认值补全
	viper.SetDefault("ai.provider", config.ProviderGemini)
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.model", "")
	viper.SetDefault("ai.base_url", "")
	viper.SetDefault("ai.region", "")
	viper.SetDefault("ai.system_instruction", ai.DefaultSystemInstruction)
	viper.SetDefault("ai.timeout", "30s")
	viper.SetDefault("ai.options.temperature", 0.2)
	viper.SetDefault("ai.options.max_output_tokens", 800)
	viper.SetDefault("ai.options.top_p", 0)

	// Render
	viper.SetDefault("render.url", "")
	viper.SetDefault("render.resolution", 200)
	viper.SetDefault("render.device", "svg")
	viper.SetDefault("render.timeout", "30s")

	// Log
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.time_format", "RFC3339")
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return cfg
}
