package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/fishfile-service/internal/auth"
	"github.com/duynhne/fishfile-service/internal/core/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetTraceID(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "traceparent",
			headers: map[string]string{TraceParentHeader: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"},
			want:    "4bf92f3577b34da6a3ce929d0e0e4736",
		},
		{
			name:    "x-trace-id",
			headers: map[string]string{TraceIDHeader: "abc123"},
			want:    "abc123",
		},
		{
			name:    "malformed traceparent falls back",
			headers: map[string]string{TraceParentHeader: "garbage", TraceIDHeader: "fallback"},
			want:    "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			if got := GetTraceID(c); got != tt.want {
				t.Errorf("GetTraceID() = %q, want %q", got, tt.want)
			}
		})
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetTraceID(c); len(got) != 32 {
		t.Errorf("generated trace id %q, want 32 hex chars", got)
	}
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewJWTManager("test-secret", time.Hour)
	valid, err := tokens.Generate(domain.User{Username: "alice"})
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.Use(LoggingMiddleware(), Authenticate(tokens))
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			reason := "anonymous"
			for _, e := range c.Errors {
				switch {
				case errors.Is(e.Err, auth.ErrMissingToken):
					reason += ":missing"
				case errors.Is(e.Err, auth.ErrInvalidToken):
					reason += ":invalid"
				}
			}
			c.String(http.StatusOK, reason)
			return
		}
		c.String(http.StatusOK, id.Username)
	})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", "anonymous"},
		{"valid bearer", "Bearer " + valid, "alice"},
		{"invalid bearer", "Bearer nope", "anonymous:invalid"},
		{"wrong scheme", "Basic " + valid, "anonymous:missing"},
		{"scheme only", "Bearer", "anonymous:missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Body.String() != tt.want {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.want)
			}
			if w.Header().Get(TraceIDHeader) == "" {
				t.Error("missing X-Trace-ID response header")
			}
		})
	}
}
