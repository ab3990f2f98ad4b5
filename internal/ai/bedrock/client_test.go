package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"latexgen/internal/ai"
	"latexgen/internal/pkg/apperr"
)

type fakeRuntime struct {
	input  *bedrockruntime.InvokeModelInput
	output []byte
	err    error
}

func (f *fakeRuntime) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.output}, nil
}

func TestClient_Generate(t *testing.T) {
	rt := &fakeRuntime{output: []byte(`{"content":[{"type":"text","text":"\\int_0^1 x\\,dx"}],"stop_reason":"end_turn"}`)}
	c := &Client{runtime: rt, modelID: "anthropic.claude-3-haiku"}

	res, err := c.Generate(context.Background(), "integral", ai.GenerateOptions{
		SystemInstruction: "latex",
		Temperature:       0.2,
		MaxOutputTokens:   800,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Text != "\\int_0^1 x\\,dx" {
		t.Errorf("Text = %q", res.Text)
	}

	if *rt.input.ModelId != "anthropic.claude-3-haiku" {
		t.Errorf("ModelId = %q", *rt.input.ModelId)
	}

	var body map[string]any
	if err := json.Unmarshal(rt.input.Body, &body); err != nil {
		t.Fatalf("request body is not json: %v", err)
	}
	if body["anthropic_version"] != anthropicVersion {
		t.Errorf("anthropic_version = %v", body["anthropic_version"])
	}
	if _, ok := body["model"]; ok {
		t.Errorf("model must not be sent in the bedrock body")
	}
	if body["system"] != "latex" {
		t.Errorf("system = %v", body["system"])
	}
}

func TestClient_Generate_Errors(t *testing.T) {
	throttled := &smithyhttp.ResponseError{
		Response: &smithyhttp.Response{Response: &http.Response{StatusCode: http.StatusTooManyRequests}},
		Err:      errors.New("ThrottlingException"),
	}

	tests := []struct {
		name       string
		rt         *fakeRuntime
		wantKind   apperr.Kind
		wantStatus int
	}{
		{name: "throttled", rt: &fakeRuntime{err: throttled}, wantKind: apperr.KindUpstreamUnreachable, wantStatus: http.StatusTooManyRequests},
		{name: "network", rt: &fakeRuntime{err: errors.New("dial tcp: timeout")}, wantKind: apperr.KindUpstreamUnreachable},
		{name: "max tokens", rt: &fakeRuntime{output: []byte(`{"content":[{"type":"text","text":"x"}],"stop_reason":"max_tokens"}`)}, wantKind: apperr.KindGenerationIncomplete},
		{name: "garbage", rt: &fakeRuntime{output: []byte(`<html>`)}, wantKind: apperr.KindUnexpectedResponseShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{runtime: tt.rt, modelID: "m"}
			_, err := c.Generate(context.Background(), "p", ai.GenerateOptions{MaxOutputTokens: 10})

			e, ok := apperr.As(err)
			if !ok {
				t.Fatalf("error = %v, want *apperr.Error", err)
			}
			if e.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", e.Kind, tt.wantKind)
			}
			if e.UpstreamStatus != tt.wantStatus {
				t.Errorf("UpstreamStatus = %d, want %d", e.UpstreamStatus, tt.wantStatus)
			}
		})
	}
}
