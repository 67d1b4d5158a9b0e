package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/haimng/Bestopia/pkg/logger"
)

// requestLoggerLine runs one request through RequestLogger, has the handler
// emit a single log line from the context logger, and returns it parsed.
func requestLoggerLine(t *testing.T, mutate func(*http.Request)) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	base := logger.NewWithWriter("bestopia-server", "info", &buf)

	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("handler log")
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if mutate != nil {
		mutate(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotZero(t, buf.Len(), "handler should have logged through the context logger")
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestRequestLogger_ContextLoggerWorks(t *testing.T) {
	out := requestLoggerLine(t, nil)
	assert.Equal(t, "handler log", out["msg"])
}

func TestRequestLogger_CarriesCorrelationID(t *testing.T) {
	out := requestLoggerLine(t, func(req *http.Request) {
		ctx := logger.WithCorrelationID(req.Context(), "corr-test-123")
		*req = *req.WithContext(ctx)
	})
	assert.Equal(t, "corr-test-123", out["correlation_id"])
}

func TestRequestLogger_UserIDSources(t *testing.T) {
	t.Run("from auth context", func(t *testing.T) {
		out := requestLoggerLine(t, func(req *http.Request) {
			ctx := context.WithValue(req.Context(), userIDKey, "user-from-auth")
			*req = *req.WithContext(ctx)
		})
		assert.Equal(t, "user-from-auth", out["user_id"])
	})

	t.Run("from header", func(t *testing.T) {
		out := requestLoggerLine(t, func(req *http.Request) {
			req.Header.Set("X-User-ID", "user-from-header")
		})
		assert.Equal(t, "user-from-header", out["user_id"])
	})

	t.Run("auth context wins over header", func(t *testing.T) {
		out := requestLoggerLine(t, func(req *http.Request) {
			req.Header.Set("X-User-ID", "header-user")
			ctx := context.WithValue(req.Context(), userIDKey, "auth-user")
			*req = *req.WithContext(ctx)
		})
		assert.Equal(t, "auth-user", out["user_id"])
	})

	t.Run("absent when anonymous", func(t *testing.T) {
		out := requestLoggerLine(t, nil)
		assert.NotContains(t, out, "user_id")
	})
}

func TestRequestLogger_CarriesSpanIdentifiers(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	out := requestLoggerLine(t, func(req *http.Request) {
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		})
		*req = *req.WithContext(trace.ContextWithSpanContext(req.Context(), sc))
	})

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", out["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", out["span_id"])
}
