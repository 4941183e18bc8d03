package utils

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestLoggerMiddlewareCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-42")
		c.Next()
	})
	router.Use(ContextLogger(logger))
	router.Use(LoggerMiddleware(logger))
	router.GET("/ping", func(c *gin.Context) {
		if FromContext(c.Request.Context(), nil) == nil {
			t.Error("request context has no logger")
		}
		c.Status(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping?x=1", nil))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if line["request_id"] != "req-42" {
		t.Errorf("request_id = %v", line["request_id"])
	}
	if line["path"] != "/ping?x=1" || line["status"] != float64(http.StatusTeapot) {
		t.Errorf("line = %v", line)
	}
	if line["level"] != "WARN" {
		t.Errorf("level = %v, want WARN for 4xx", line["level"])
	}
}

func TestFromContextFallback(t *testing.T) {
	fallback := NewSlogLogger(nil)
	if got := FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context(), fallback); got != fallback {
		t.Error("expected fallback logger")
	}
}
