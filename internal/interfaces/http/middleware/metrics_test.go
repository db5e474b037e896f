package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func requestCounts(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_server_request_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, p := range sum.DataPoints {
				route, _ := p.Attributes.Value(telemetry.AttrHTTPRoute)
				status, _ := p.Attributes.Value(telemetry.AttrHTTPStatusCode)
				counts[route.AsString()+" "+status.Emit()] += p.Value
			}
		}
	}
	return counts
}

func TestHTTPMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(t.Context()) })

	mw, err := HTTPMetrics(provider.Meter("test"))
	require.NoError(t, err)

	r := gin.New()
	r.Use(mw)
	r.GET("/stores/:storeId/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/stores/1/products", "/stores/2/products", "/nowhere"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	counts := requestCounts(t, reader)
	assert.Equal(t, int64(2), counts["/stores/:storeId/products 200"])
	assert.Equal(t, int64(1), counts["unmatched 404"])
	assert.Len(t, counts, 2, "raw paths must not become labels")
}

func TestHTTPMetrics_ActiveRequestsSettle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(t.Context()) })

	mw, err := HTTPMetrics(provider.Meter("test"))
	require.NoError(t, err)
	r := gin.New()
	r.Use(mw)
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))
	var active *metricdata.Sum[int64]
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "http_server_active_requests" {
				sum := m.Data.(metricdata.Sum[int64])
				active = &sum
			}
		}
	}
	require.NotNil(t, active)
	require.Len(t, active.DataPoints, 1)
	assert.Equal(t, int64(0), active.DataPoints[0].Value)
	assert.Equal(t, attribute.EmptySet().Len(), active.DataPoints[0].Attributes.Len())
}
