package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"latexgen/internal/config"
	"latexgen/internal/pkg/apperr"
)

func newTestClient(url string) *Client {
	return NewClient(&config.RenderConfig{URL: url, Timeout: 2 * time.Second})
}

func TestClient_Render_Success(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"<svg>ok</svg>"}`))
	}))
	defer srv.Close()

	svg, err := newTestClient(srv.URL).Render(context.Background(), "\\documentclass{article}")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if svg != "<svg>ok</svg>" {
		t.Errorf("Render() = %q, want %q", svg, "<svg>ok</svg>")
	}
	if got.Tex != "\\documentclass{article}" {
		t.Errorf("tex = %q", got.Tex)
	}
	if got.Resolution != 200 {
		t.Errorf("resolution = %d, want 200", got.Resolution)
	}
	if got.Dev != "svg" {
		t.Errorf("dev = %q, want svg", got.Dev)
	}
}

func TestClient_Render_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   apperr.Kind
		wantStatus int
	}{
		{"missing result", http.StatusOK, `{"status":"error"}`, apperr.KindRenderFailed, 0},
		{"empty result", http.StatusOK, `{"result":""}`, apperr.KindRenderFailed, 0},
		{"not json", http.StatusOK, `<html>oops</html>`, apperr.KindRenderFailed, 0},
		{"upstream 500", http.StatusInternalServerError, `{"error":"latex failed"}`, apperr.KindUpstreamUnreachable, 500},
		{"upstream 503", http.StatusServiceUnavailable, `busy`, apperr.KindUpstreamUnreachable, 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Render(context.Background(), "x")
			e, ok := apperr.As(err)
			if !ok {
				t.Fatalf("Render() error = %v, want *apperr.Error", err)
			}
			if e.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", e.Kind, tt.wantKind)
			}
			if e.UpstreamStatus != tt.wantStatus {
				t.Errorf("UpstreamStatus = %d, want %d", e.UpstreamStatus, tt.wantStatus)
			}
			if tt.wantKind == apperr.KindRenderFailed && e.Details != tt.body {
				t.Errorf("Details = %v, want raw body %q", e.Details, tt.body)
			}
		})
	}
}

func TestClient_Render_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).Render(context.Background(), "x")
	if !apperr.IsKind(err, apperr.KindUpstreamUnreachable) {
		t.Fatalf("Render() error = %v, want UpstreamUnreachable", err)
	}
}

func TestClient_Render_NotConfigured(t *testing.T) {
	_, err := newTestClient("").Render(context.Background(), "x")
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("Render() error = %v, want ConfigurationError", err)
	}
}
