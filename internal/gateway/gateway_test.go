package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/mediflow/internal/config"
	"github.com/JaimeStill/mediflow/internal/gateway"
	"github.com/JaimeStill/mediflow/pkg/lifecycle"
)

type capturedRequest struct {
	Path       string
	APIVersion string
	APIKey     string
	Body       map[string]any
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func gatewayConfig(endpoint string) *config.GatewayConfig {
	return &config.GatewayConfig{
		Endpoint:   endpoint,
		APIKey:     "test-key",
		Deployment: "triage-dep",
		APIVersion: config.DefaultAPIVersion,
		AuthType:   config.AuthTypeAPIKey,
		Timeout:    "5s",
		MaxTokens:  220,
	}
}

func newBackend(t *testing.T, status int, body string, captured *capturedRequest, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if captured != nil {
			captured.Path = r.URL.Path
			captured.APIVersion = r.URL.Query().Get("api-version")
			captured.APIKey = r.Header.Get("api-key")
			json.NewDecoder(r.Body).Decode(&captured.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func chatBody(content string) string {
	data, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(data)
}

func TestClassifySendsBoundedRequest(t *testing.T) {
	var captured capturedRequest
	var hits atomic.Int32
	srv := newBackend(t, http.StatusOK, chatBody(`{"color":"GREEN"}`), &captured, &hits)

	g := gateway.New(gatewayConfig(srv.URL+"/"), discardLogger(), &gateway.Options{Transport: srv.Client()})

	got, err := g.Classify(context.Background(), "mild runny nose for two days")
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if got != `{"color":"GREEN"}` {
		t.Errorf("Classify() = %q, want model content", got)
	}

	if captured.Path != "/openai/deployments/triage-dep/chat/completions" {
		t.Errorf("path: got %s", captured.Path)
	}
	if captured.APIVersion != config.DefaultAPIVersion {
		t.Errorf("api-version: got %s, want %s", captured.APIVersion, config.DefaultAPIVersion)
	}
	if captured.APIKey != "test-key" {
		t.Errorf("api-key header: got %q, want test-key", captured.APIKey)
	}
	if temp, ok := captured.Body["temperature"]; !ok || temp != float64(0) {
		t.Errorf("temperature: got %v, want 0", temp)
	}
	if captured.Body["max_tokens"] != float64(220) {
		t.Errorf("max_tokens: got %v, want 220", captured.Body["max_tokens"])
	}

	messages, ok := captured.Body["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("messages: got %v, want 2 entries", captured.Body["messages"])
	}
	system := messages[0].(map[string]any)
	user := messages[1].(map[string]any)
	if system["role"] != "system" || system["content"] != gateway.SystemPrompt() {
		t.Errorf("system message: got %v", system)
	}
	if user["role"] != "user" || user["content"] != "mild runny nose for two days" {
		t.Errorf("user message: got %v", user)
	}
}

func TestClassifyNonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"throttled", http.StatusTooManyRequests},
		{"server error", http.StatusInternalServerError},
		{"bad gateway", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := newBackend(t, tt.status, `{"error":{"code":"x","message":"nope"}}`, nil, &hits)
			g := gateway.New(gatewayConfig(srv.URL), discardLogger(), &gateway.Options{Transport: srv.Client()})

			_, err := g.Classify(context.Background(), "fever")
			if !errors.Is(err, gateway.ErrTransport) {
				t.Fatalf("error = %v, want ErrTransport", err)
			}
			if got := gateway.StatusCode(err); got != tt.status {
				t.Errorf("StatusCode() = %d, want %d", got, tt.status)
			}
			if got := hits.Load(); got != 1 {
				t.Errorf("backend hits: got %d, want 1 (no retries)", got)
			}
		})
	}
}

func TestClassifyEmptyChoices(t *testing.T) {
	var hits atomic.Int32
	srv := newBackend(t, http.StatusOK, `{"choices":[]}`, nil, &hits)
	g := gateway.New(gatewayConfig(srv.URL), discardLogger(), &gateway.Options{Transport: srv.Client()})

	_, err := g.Classify(context.Background(), "fever")
	if !errors.Is(err, gateway.ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestClassifyNotConfigured(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.GatewayConfig)
		missing string
	}{
		{"no endpoint", func(c *config.GatewayConfig) { c.Endpoint = "" }, "endpoint"},
		{"no api key", func(c *config.GatewayConfig) { c.APIKey = "" }, "api_key"},
		{"no deployment", func(c *config.GatewayConfig) { c.Deployment = "" }, "deployment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := newBackend(t, http.StatusOK, chatBody("{}"), nil, &hits)

			cfg := gatewayConfig(srv.URL)
			tt.mutate(cfg)
			g := gateway.New(cfg, discardLogger(), &gateway.Options{Transport: srv.Client()})

			if err := g.Ready(); !errors.Is(err, gateway.ErrNotConfigured) {
				t.Errorf("Ready() = %v, want ErrNotConfigured", err)
			}

			_, err := g.Classify(context.Background(), "fever")
			if !errors.Is(err, gateway.ErrNotConfigured) {
				t.Fatalf("error = %v, want ErrNotConfigured", err)
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("error %q does not name %s", err, tt.missing)
			}
			if hits.Load() != 0 {
				t.Error("backend should not be called when not configured")
			}
		})
	}
}

func TestClassifyTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	cfg := gatewayConfig(srv.URL)
	cfg.Timeout = "50ms"
	g := gateway.New(cfg, discardLogger(), &gateway.Options{Transport: srv.Client()})

	start := time.Now()
	_, err := g.Classify(context.Background(), "fever")
	if !errors.Is(err, gateway.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout not enforced: took %v", elapsed)
	}
}

func TestClassifyCallerCancellation(t *testing.T) {
	var hits atomic.Int32
	srv := newBackend(t, http.StatusOK, chatBody("{}"), nil, &hits)
	g := gateway.New(gatewayConfig(srv.URL), discardLogger(), &gateway.Options{Transport: srv.Client()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Classify(ctx, "fever")
	if !errors.Is(err, gateway.ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestClassifyUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	g := gateway.New(gatewayConfig(endpoint), discardLogger(), nil)

	_, err := g.Classify(context.Background(), "fever")
	if !errors.Is(err, gateway.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if gateway.StatusCode(err) != 0 {
		t.Errorf("StatusCode() = %d, want 0 for network failure", gateway.StatusCode(err))
	}
}

func TestSystemPrompt(t *testing.T) {
	prompt := gateway.SystemPrompt()
	for _, want := range []string{"RED", "YELLOW", "GREEN", "red_flags_detected", "do NOT return RED"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestStartRegistersProbe(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.GatewayConfig
		wantReady bool
	}{
		{"configured", gatewayConfig("https://mediflow.openai.azure.com"), true},
		{"not configured", &config.GatewayConfig{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := lifecycle.New()
			g := gateway.New(tt.cfg, discardLogger(), nil)

			if err := g.Start(lc); err != nil {
				t.Fatalf("Start: %v", err)
			}
			lc.WaitForStartup()

			err, ok := lc.Probe()["gateway"]
			if !ok {
				t.Fatal("gateway probe not registered")
			}
			if (err == nil) != tt.wantReady {
				t.Errorf("probe: got %v, want ready=%v", err, tt.wantReady)
			}
		})
	}
}
