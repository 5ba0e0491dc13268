package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

const (
	TraceIDHeader     = "X-Trace-ID"
	TraceParentHeader = "traceparent"
)

// GetTraceID returns the trace id of the request: the active span's if one
// is recording, then the W3C traceparent header, then X-Trace-ID, else a
// fresh random id.
func GetTraceID(c *gin.Context) string {
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	// traceparent: version-trace_id-parent_id-flags
	if parts := strings.Split(c.GetHeader(TraceParentHeader), "-"); len(parts) == 4 && len(parts[1]) == 32 {
		return parts[1]
	}

	if traceID := c.GetHeader(TraceIDHeader); traceID != "" {
		return traceID
	}

	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// LoggingMiddleware attaches a logger carrying trace_id to the request
// context and logs one line per request once it completes. Responses of
// 400 and above log at error level.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		traceID := GetTraceID(c)
		c.Set("trace_id", traceID)
		c.Header(TraceIDHeader, traceID)

		logger := log.With().Str("trace_id", traceID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		if status >= 400 {
			event = logger.Error()
		} else {
			event = logger.Info()
		}

		if id, ok := IdentityFrom(c); ok {
			event = event.Str("username", id.Username)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("HTTP request")
	}
}
