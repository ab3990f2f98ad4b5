package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"latexgen/internal/ai/gemini"
	"latexgen/internal/config"
)

// fakeUpstream 同时模拟 Gemini 与渲染服务
type fakeUpstream struct {
	geminiStatus int
	geminiBody   string
	geminiCalls  int
	renderBody   string
	renderTex    string
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/render" {
		var req struct {
			Tex string `json:"tex"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.renderTex = req.Tex
		_, _ = io.WriteString(w, f.renderBody)
		return
	}

	f.geminiCalls++
	status := f.geminiStatus
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, f.geminiBody)
}

func testConfig(upstreamURL, apiKey string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, Mode: "test"},
		AI: config.AIConfig{
			Provider: config.ProviderGemini,
			APIKey:   apiKey,
			Model:    "gemini-1.5-flash",
			BaseURL:  upstreamURL,
			Timeout:  2 * time.Second,
			Options:  config.AIOptionsConfig{Temperature: 0.2, MaxOutputTokens: 800},
		},
		Render: config.RenderConfig{URL: upstreamURL + "/render", Timeout: 2 * time.Second},
	}
}

func newTestServer(t *testing.T, upstream *fakeUpstream, apiKey string) http.Handler {
	t.Helper()
	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)

	cfg := testConfig(ts.URL, apiKey)
	var srv *Server
	var err error
	if apiKey == "" {
		srv, err = New(cfg, nil)
	} else {
		srv, err = New(cfg, gemini.NewClient(&cfg.AI))
	}
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv.Handler()
}

func doJSON(h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestGenerateEndpoint(t *testing.T) {
	Convey("POST /api/generate", t, func() {
		upstream := &fakeUpstream{}
		h := newTestServer(t, upstream, "test-key")

		Convey("去掉代码块标记后返回", func() {
			upstream.geminiBody = `{"candidates":[{"content":{"parts":[{"text":"` +
				"```latex\\n\\\\begin{tikzpicture}...\\\\end{tikzpicture}\\n```" +
				`"}]},"finishReason":"STOP"}]}`

			w, body := doJSON(h, http.MethodPost, "/api/generate", `{"prompt":"draw a flowchart with two boxes"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(body["latexCode"], ShouldEqual, "\\begin{tikzpicture}...\\end{tikzpicture}")
		})

		Convey("缺少 prompt", func() {
			for _, payload := range []string{`{}`, `{"prompt":""}`, `{"prompt":"   "}`, `not json`} {
				w, body := doJSON(h, http.MethodPost, "/api/generate", payload)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(body["error"], ShouldNotBeEmpty)
			}
			So(upstream.geminiCalls, ShouldEqual, 0)
		})

		Convey("提示词被拦截", func() {
			upstream.geminiBody = `{"promptFeedback":{"blockReason":"SAFETY"}}`

			w, body := doJSON(h, http.MethodPost, "/api/generate", `{"prompt":"p"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			details := body["details"].(map[string]any)
			So(details["blockReason"], ShouldEqual, "SAFETY")
		})

		Convey("生成未正常结束", func() {
			upstream.geminiBody = `{"candidates":[{"content":{"parts":[{"text":"x"}]},"finishReason":"MAX_TOKENS"}]}`

			w, body := doJSON(h, http.MethodPost, "/api/generate", `{"prompt":"p"}`)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(body["error"], ShouldContainSubstring, "MAX_TOKENS")
		})

		Convey("配额耗尽", func() {
			upstream.geminiStatus = http.StatusTooManyRequests
			upstream.geminiBody = `{"error":{"code":429,"message":"Resource has been exhausted"}}`

			w, body := doJSON(h, http.MethodPost, "/api/generate", `{"prompt":"p"}`)
			So(w.Code, ShouldEqual, http.StatusBadGateway)
			So(body["hint"], ShouldContainSubstring, "quota")
		})

		Convey("非法的生成参数", func() {
			w, body := doJSON(h, http.MethodPost, "/api/generate", `{"prompt":"p","temperature":5}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(body["error"], ShouldEqual, "Invalid request body.")

			w, body = doJSON(h, http.MethodPost, "/api/generate", `{"prompt":"p","temperature":"0.5"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(body["error"], ShouldEqual, "Invalid request body.")
		})

		Convey("只有生成参数没有 prompt", func() {
			w, body := doJSON(h, http.MethodPost, "/api/generate", `{"temperature":0.5}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(body["error"], ShouldEqual, "Prompt is required.")
		})
	})
}

func TestGenerateEndpoint_MissingKey(t *testing.T) {
	upstream := &fakeUpstream{}
	h := newTestServer(t, upstream, "")

	w, body := doJSON(h, http.MethodPost, "/api/generate", `{"prompt":"p"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "GEMINI_API_KEY") {
		t.Errorf("error = %v", body["error"])
	}
	if upstream.geminiCalls != 0 {
		t.Errorf("provider contacted %d times", upstream.geminiCalls)
	}

	// 凭证缺失时空 prompt 仍然是 400
	w, _ = doJSON(h, http.MethodPost, "/api/generate", `{"prompt":""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty prompt status = %d, want 400", w.Code)
	}
}

func TestRenderEndpoint(t *testing.T) {
	Convey("POST /api/render", t, func() {
		upstream := &fakeUpstream{}
		h := newTestServer(t, upstream, "test-key")

		Convey("返回 SVG", func() {
			upstream.renderBody = `{"result":"<svg/>"}`
			fragment := `\begin{tikzpicture}\draw (0,0) -- (1,1);\end{tikzpicture}`
			payload, _ := json.Marshal(map[string]string{"latexCode": fragment})

			w, body := doJSON(h, http.MethodPost, "/api/render", string(payload))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(body["svgImage"], ShouldEqual, "<svg/>")
			So(strings.Count(upstream.renderTex, fragment), ShouldEqual, 1)
			So(upstream.renderTex, ShouldContainSubstring, `\usepackage{amsmath}`)
		})

		Convey("渲染服务没有结果", func() {
			upstream.renderBody = `{"status":"error"}`

			w, body := doJSON(h, http.MethodPost, "/api/render", `{"latexCode":"x"}`)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(body["code"], ShouldEqual, float64(50004))
		})

		Convey("缺少 latexCode", func() {
			w, body := doJSON(h, http.MethodPost, "/api/render", `{}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(body["error"], ShouldNotBeEmpty)
		})
	})
}

func TestListModelsEndpoint(t *testing.T) {
	upstream := &fakeUpstream{
		geminiBody: `{"models":[{"name":"models/gemini-1.5-flash","supportedGenerationMethods":["generateContent"]},{"name":"models/embedding-001","supportedGenerationMethods":["embedContent"]}]}`,
	}
	h := newTestServer(t, upstream, "test-key")

	w, body := doJSON(h, http.MethodGet, "/api/list-models", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if models := body["models"].([]any); len(models) != 1 {
		t.Errorf("models = %v, want only generateContent models", models)
	}

	w, body = doJSON(h, http.MethodGet, "/api/list-models?all=true", "")
	if w.Code != http.StatusOK || len(body["models"].([]any)) != 2 {
		t.Errorf("all=true: status = %d, models = %v", w.Code, body["models"])
	}

	w, _ = doJSON(h, http.MethodGet, "/api/list-models?all=maybe", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("all=maybe: status = %d, want 400", w.Code)
	}
}

func TestHealthAndCORS(t *testing.T) {
	h := newTestServer(t, &fakeUpstream{}, "")

	w, body := doJSON(h, http.MethodGet, "/ready", "")
	if w.Code != http.StatusOK || body["providerConfigured"] != false || body["renderConfigured"] != true {
		t.Errorf("ready: status = %d, body = %v", w.Code, body)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
