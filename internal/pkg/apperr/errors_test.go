package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind       Kind
		wantStatus int
		wantCode   int
	}{
		{KindInvalidRequest, http.StatusBadRequest, 40001},
		{KindContentBlocked, http.StatusBadRequest, 40002},
		{KindConfiguration, http.StatusInternalServerError, 50001},
		{KindGenerationIncomplete, http.StatusInternalServerError, 50002},
		{KindUnexpectedResponseShape, http.StatusInternalServerError, 50003},
		{KindRenderFailed, http.StatusInternalServerError, 50004},
		{KindUpstreamUnreachable, http.StatusBadGateway, 50201},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			e := New(tt.kind, "boom")
			if got := e.HTTPStatus(); got != tt.wantStatus {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.wantStatus)
			}
			if got := e.Code(); got != tt.wantCode {
				t.Errorf("Code() = %d, want %d", got, tt.wantCode)
			}
		})
	}
}

func TestUpstream(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantMessage string
		wantHint    string
	}{
		{"not found", 404, "API Request Error: 404 - model missing", HintForStatus(404)},
		{"quota", 429, "API Request Error: 429 - model missing", "You have exceeded your API quota. Check your provider console."},
		{"overloaded", 503, "API Request Error: 503 - model missing", HintForStatus(503)},
		{"transport failure", 0, "API Request Error: model missing", ""},
		{"no hint for 500", 500, "API Request Error: 500 - model missing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Upstream(tt.status, "model missing", nil)
			if e.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", e.Message, tt.wantMessage)
			}
			if e.Hint != tt.wantHint {
				t.Errorf("Hint = %q, want %q", e.Hint, tt.wantHint)
			}
			if e.HTTPStatus() != http.StatusBadGateway {
				t.Errorf("HTTPStatus() = %d, want 502", e.HTTPStatus())
			}
		})
	}
}

func TestAs_WrappedError(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	wrapped := fmt.Errorf("generate: %w", Upstream(0, "timeout", cause))

	e, ok := As(wrapped)
	if !ok {
		t.Fatalf("As() did not find *Error in chain")
	}
	if e.Kind != KindUpstreamUnreachable {
		t.Errorf("Kind = %s, want %s", e.Kind, KindUpstreamUnreachable)
	}
	if !errors.Is(wrapped, cause) {
		t.Errorf("errors.Is() lost the underlying cause")
	}
	if !IsKind(wrapped, KindUpstreamUnreachable) {
		t.Errorf("IsKind() = false, want true")
	}
	if IsKind(errors.New("plain"), KindUpstreamUnreachable) {
		t.Errorf("IsKind() on plain error = true, want false")
	}
}
