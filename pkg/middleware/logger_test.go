package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/mediflow/pkg/middleware"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name   string
		status int
		write  bool
		want   string
	}{
		{"explicit status", http.StatusBadGateway, true, "status=502"},
		{"implicit ok", 0, false, "status=200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			var handlerCalled bool
			handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				if tt.write {
					w.WriteHeader(tt.status)
				}
				w.Write([]byte("{}"))
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("POST", "/triage?x=1", nil))

			if !handlerCalled {
				t.Error("inner handler should have been called")
			}

			out := buf.String()
			for _, want := range []string{tt.want, "method=POST", "/triage?x=1", "duration="} {
				if !strings.Contains(out, want) {
					t.Errorf("log output missing %q: %s", want, out)
				}
			}
		})
	}
}
