package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"latexgen/internal/ai"
	"latexgen/internal/model"
	"latexgen/internal/pkg/apperr"
)

// finishReasonStop 正常结束的 finishReason
const finishReasonStop = "STOP"

// BlockDetails 提示词被拦截时的诊断信息
type BlockDetails struct {
	BlockReason   string          `json:"blockReason"`
	SafetyRatings json.RawMessage `json:"safetyRatings,omitempty"`
}

// FinishDetails 生成未正常结束时的诊断信息
type FinishDetails struct {
	FinishReason  string          `json:"finishReason"`
	SafetyRatings json.RawMessage `json:"safetyRatings,omitempty"`
}

// decodeGenerateResponse 把 generateContent 的响应体映射为生成结果或分类错误
func decodeGenerateResponse(body []byte) (*ai.Result, error) {
	var resp generateContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperr.New(apperr.KindUnexpectedResponseShape,
			fmt.Sprintf("API response parsing failed unexpectedly: %v", err)).
			WithDetails(string(body))
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, apperr.New(apperr.KindContentBlocked, "Prompt was blocked by API.").
				WithDetails(BlockDetails{
					BlockReason:   resp.PromptFeedback.BlockReason,
					SafetyRatings: resp.PromptFeedback.SafetyRatings,
				})
		}
		return nil, apperr.New(apperr.KindUnexpectedResponseShape,
			"API returned an empty response with no candidates.").
			WithDetails(json.RawMessage(body))
	}

	raw := resp.Candidates[0]
	var cand candidate
	if err := json.Unmarshal(raw, &cand); err != nil {
		return nil, apperr.New(apperr.KindUnexpectedResponseShape,
			fmt.Sprintf("API response parsing failed unexpectedly: %v", err)).
			WithDetails(raw)
	}

	if cand.FinishReason != "" && cand.FinishReason != finishReasonStop {
		return nil, apperr.New(apperr.KindGenerationIncomplete,
			fmt.Sprintf("Generation stopped for reason: %s", cand.FinishReason)).
			WithDetails(FinishDetails{
				FinishReason:  cand.FinishReason,
				SafetyRatings: cand.SafetyRatings,
			})
	}

	text, ok := candidateText(&cand)
	if !ok {
		return nil, apperr.New(apperr.KindUnexpectedResponseShape,
			"API response format unexpected: 'text' part is missing.").
			WithDetails(raw)
	}

	result := &ai.Result{
		Text:         text,
		FinishReason: cand.FinishReason,
	}
	if resp.UsageMetadata != nil {
		result.Usage = &model.TokenUsage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}
	return result, nil
}

// candidateText 拼接候选中的全部文本片段
func candidateText(cand *candidate) (string, bool) {
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", false
	}

	var b strings.Builder
	for _, p := range cand.Content.Parts {
		if p.Text != nil {
			b.WriteString(*p.Text)
		}
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// decodeErrorMessage 提取 {"error":{"message":...}}，否则返回原始文本
func decodeErrorMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "empty response body"
	}
	return text
}
