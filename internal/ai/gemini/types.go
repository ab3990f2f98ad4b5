package gemini

import "encoding/json"

// v1beta generateContent 请求/响应结构

type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

// 响应字段全部用指针/RawMessage，缺失与空值需要区分
type generateContentResponse struct {
	Candidates     []json.RawMessage `json:"candidates"`
	PromptFeedback *promptFeedback   `json:"promptFeedback"`
	UsageMetadata  *usageMetadata    `json:"usageMetadata"`
}

type promptFeedback struct {
	BlockReason   string          `json:"blockReason"`
	SafetyRatings json.RawMessage `json:"safetyRatings"`
}

type candidate struct {
	Content *struct {
		Parts []struct {
			Text *string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
	FinishReason  string          `json:"finishReason"`
	SafetyRatings json.RawMessage `json:"safetyRatings"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type listModelsResponse struct {
	Models []struct {
		Name                       string   `json:"name"`
		DisplayName                string   `json:"displayName"`
		Description                string   `json:"description"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
	NextPageToken string `json:"nextPageToken"`
}
