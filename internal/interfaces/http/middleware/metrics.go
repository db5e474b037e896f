package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/metric"
)

// unmatchedRoute labels requests no route matched, keeping raw paths out
// of the label set
const unmatchedRoute = "unmatched"

type httpInstruments struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
}

// HTTPMetrics records request count by method, route and status, latency by
// method and route, and the number of in-flight requests. Routes are gin
// patterns such as /api/v1/stores/:storeId/products.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	inst, err := newHTTPInstruments(meter)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		inst.active.Add(ctx, 1)
		defer inst.active.Add(ctx, -1)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := telemetry.AttrHTTPMethod.String(c.Request.Method)
		routeAttr := telemetry.AttrHTTPRoute.String(route)

		inst.requests.Add(ctx, 1, metric.WithAttributes(method, routeAttr,
			telemetry.AttrHTTPStatusCode.Int(c.Writer.Status())))
		inst.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(method, routeAttr))
	}, nil
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	requests, err := meter.Int64Counter("http_server_request_total",
		metric.WithDescription("HTTP requests served"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("http_server_request_duration_seconds",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(telemetry.HTTPDurationBuckets...))
	if err != nil {
		return nil, err
	}
	active, err := meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("HTTP requests in flight"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	return &httpInstruments{requests: requests, duration: duration, active: active}, nil
}
