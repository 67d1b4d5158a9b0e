package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// installTestTracer swaps in an in-memory exporter for the duration of the
// test and restores the previous global provider afterwards.
func installTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	return exporter
}

// tracedRequest routes one GET through the Tracing middleware and returns
// the single exported span plus the recorder.
func tracedRequest(t *testing.T, status int, mutate func(*http.Request)) (tracetest.SpanStub, *httptest.ResponseRecorder) {
	t.Helper()
	exporter := installTestTracer(t)

	r := chi.NewRouter()
	r.Use(Tracing("bestopia-server"))
	r.Get("/products/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})

	req := httptest.NewRequest(http.MethodGet, "/products/great-blender", nil)
	if mutate != nil {
		mutate(req)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	return spans[0], rr
}

func spanAttr(span tracetest.SpanStub, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_NamesSpanAfterRoutePattern(t *testing.T) {
	span, rr := tracedRequest(t, http.StatusOK, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "GET /products/{slug}", span.Name)

	route, ok := spanAttr(span, "http.route")
	require.True(t, ok)
	assert.Equal(t, "/products/{slug}", route.AsString())
}

func TestTracing_RecordsStatusCode(t *testing.T) {
	span, _ := tracedRequest(t, http.StatusNotFound, nil)

	status, ok := spanAttr(span, "http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(404), status.AsInt64())
	assert.Equal(t, codes.Unset, span.Status.Code, "4xx is not a server failure")
}

func TestTracing_ServerErrorMarksSpan(t *testing.T) {
	span, _ := tracedRequest(t, http.StatusInternalServerError, nil)

	assert.Equal(t, codes.Error, span.Status.Code)
}

func TestTracing_ContinuesInboundTrace(t *testing.T) {
	const inboundTrace = "4bf92f3577b34da6a3ce929d0e0e4736"

	span, rr := tracedRequest(t, http.StatusOK, func(req *http.Request) {
		req.Header.Set("traceparent", "00-"+inboundTrace+"-00f067aa0ba902b7-01")
	})

	assert.Equal(t, inboundTrace, span.SpanContext.TraceID().String())
	assert.NotEmpty(t, rr.Header().Get("traceparent"), "trace context should be echoed to the caller")
}

func TestTracing_InjectsResponseTraceparent(t *testing.T) {
	_, rr := tracedRequest(t, http.StatusOK, nil)

	assert.NotEmpty(t, rr.Header().Get("traceparent"))
}
