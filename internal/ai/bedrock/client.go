// Package bedrock 通过 AWS Bedrock Runtime 调用 Claude
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/rs/zerolog/log"

	"latexgen/internal/ai"
	"latexgen/internal/ai/anthropic"
	"latexgen/internal/config"
	"latexgen/internal/pkg/apperr"
)

const anthropicVersion = "bedrock-2023-05-31"

// invoker bedrockruntime.Client 中用到的方法
type invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client Bedrock Claude 客户端，实现 ai.Provider
type Client struct {
	runtime invoker
	modelID string
}

// NewClient 使用 AWS 默认凭证链创建客户端
func NewClient(ctx context.Context, cfg *config.AIConfig) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &Client{
		runtime: bedrockruntime.NewFromConfig(awsCfg),
		modelID: cfg.Model,
	}, nil
}

// Name 返回 provider 标识
func (c *Client) Name() string {
	return config.ProviderBedrock
}

// Generate 调用 InvokeModel，请求体为 Claude Messages 格式
func (c *Client) Generate(ctx context.Context, prompt string, opts ai.GenerateOptions) (*ai.Result, error) {
	payload := anthropic.BuildRequest("", prompt, opts)
	payload.AnthropicVersion = anthropicVersion

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize claude request: %w", err)
	}

	output, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		status := ai.StatusFromError(err)
		log.Error().Err(err).Int("status", status).Str("model", c.modelID).Msg("bedrock invoke failed")
		return nil, apperr.Upstream(status, err.Error(), err)
	}

	result, err := anthropic.DecodeResponse(output.Body)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("model", c.modelID).
		Str("stop_reason", result.FinishReason).
		Int("text_len", len(result.Text)).
		Msg("bedrock generation completed")

	return result, nil
}
