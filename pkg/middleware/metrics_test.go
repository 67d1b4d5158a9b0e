package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findMetric pulls the first metric out of a collector whose labels contain
// every key/value in want.
func findMetric(c prometheus.Collector, want map[string]string) *dto.Metric {
	ch := make(chan prometheus.Metric, 100)
	c.Collect(ch)
	close(ch)

next:
	for m := range ch {
		var d dto.Metric
		if err := m.Write(&d); err != nil {
			continue
		}
		for k, v := range want {
			found := false
			for _, lp := range d.GetLabel() {
				if lp.GetName() == k && lp.GetValue() == v {
					found = true
					break
				}
			}
			if !found {
				continue next
			}
		}
		return &d
	}
	return nil
}

// metricsRouter mounts a handler at GET /test behind the metrics middleware,
// inside a chi mux so the route pattern is available.
func metricsRouter(service string, handler http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics(service))
	r.Get("/test", handler)
	return r
}

func getTest(h http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
	return rr
}

func TestPrometheusMetrics_CountsRequestsByRoute(t *testing.T) {
	h := metricsRouter("count-svc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, getTest(h).Code)
	}

	m := findMetric(httpRequestsTotal, map[string]string{
		"service": "count-svc", "method": "GET", "path": "/test", "status": "200",
	})
	require.NotNil(t, m)
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), float64(3))
}

func TestPrometheusMetrics_ObservesDuration(t *testing.T) {
	h := metricsRouter("duration-svc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	assert.Equal(t, http.StatusCreated, getTest(h).Code)

	m := findMetric(httpRequestDuration, map[string]string{
		"service": "duration-svc", "method": "GET", "path": "/test", "status": "201",
	})
	require.NotNil(t, m)
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(1))
}

func TestPrometheusMetrics_GaugeTracksInFlight(t *testing.T) {
	seen := float64(-1)
	h := metricsRouter("inflight-svc", func(w http.ResponseWriter, r *http.Request) {
		if m := findMetric(httpRequestsInFlight, map[string]string{"service": "inflight-svc"}); m != nil {
			seen = m.GetGauge().GetValue()
		}
		w.WriteHeader(http.StatusOK)
	})

	getTest(h)
	assert.GreaterOrEqual(t, seen, float64(1), "gauge should be raised while the handler runs")
}

func TestPrometheusMetrics_ImplicitStatusIsOK(t *testing.T) {
	h := metricsRouter("implicit-svc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	getTest(h)

	m := findMetric(httpRequestsTotal, map[string]string{"service": "implicit-svc", "status": "200"})
	require.NotNil(t, m, "a handler that never calls WriteHeader counts as 200")
}

func TestPrometheusMetrics_RecordsErrorStatuses(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		h := metricsRouter("error-svc", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		})

		assert.Equal(t, code, getTest(h).Code)

		m := findMetric(httpRequestsTotal, map[string]string{
			"service": "error-svc", "status": strconv.Itoa(code),
		})
		require.NotNil(t, m, "status %d should be recorded", code)
	}
}

type flushRecorder struct {
	http.ResponseWriter
	flushed bool
}

func (f *flushRecorder) Flush() { f.flushed = true }

type hijackRecorder struct {
	http.ResponseWriter
	hijacked bool
}

func (h *hijackRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

// bareWriter implements only http.ResponseWriter.
type bareWriter struct{ header http.Header }

func (b *bareWriter) Header() http.Header {
	if b.header == nil {
		b.header = make(http.Header)
	}
	return b.header
}
func (b *bareWriter) Write(p []byte) (int, error) { return len(p), nil }
func (b *bareWriter) WriteHeader(int)             {}

func TestStatusRecorder_FlushDelegation(t *testing.T) {
	under := &flushRecorder{ResponseWriter: httptest.NewRecorder()}
	sr := &statusRecorder{ResponseWriter: under}

	sr.Flush()
	assert.True(t, under.flushed)

	// A writer without Flusher support must not panic.
	(&statusRecorder{ResponseWriter: &bareWriter{}}).Flush()
}

func TestStatusRecorder_HijackDelegation(t *testing.T) {
	under := &hijackRecorder{ResponseWriter: httptest.NewRecorder()}
	sr := &statusRecorder{ResponseWriter: under}

	_, _, err := sr.Hijack()
	require.NoError(t, err)
	assert.True(t, under.hijacked)

	_, _, err = (&statusRecorder{ResponseWriter: &bareWriter{}}).Hijack()
	assert.ErrorIs(t, err, http.ErrNotSupported)
}
