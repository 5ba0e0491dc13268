package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).With().Str("trace_id", "abc").Logger()
	ctx := l.WithContext(context.Background())

	FromContext(ctx).Info().Msg("hello")

	if !bytes.Contains(buf.Bytes(), []byte(`"trace_id":"abc"`)) {
		t.Errorf("log line %q missing trace_id", buf.String())
	}
}
