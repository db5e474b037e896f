package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// PaymentMetrics counts webhook deliveries by outcome and times them
type PaymentMetrics struct {
	deliveries metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewPaymentMetrics creates the webhook delivery instruments on meter
func NewPaymentMetrics(meter metric.Meter) (*PaymentMetrics, error) {
	deliveries, err := meter.Int64Counter("payment_webhook_deliveries_total",
		metric.WithDescription("Payment webhook deliveries by outcome"),
		metric.WithUnit("{delivery}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment_webhook_deliveries_total: %w", err)
	}
	duration, err := meter.Float64Histogram("payment_webhook_duration_seconds",
		metric.WithDescription("Time to verify and apply a payment webhook delivery"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(WebhookDurationBuckets...))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment_webhook_duration_seconds: %w", err)
	}
	return &PaymentMetrics{deliveries: deliveries, duration: duration}, nil
}

// RecordDelivery records one delivery with its outcome
// (applied, duplicate, ignored, rejected or failed)
func (m *PaymentMetrics) RecordDelivery(ctx context.Context, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(AttrOutcome.String(outcome))
	m.deliveries.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// CatalogMetrics counts association set replacements per kind
type CatalogMetrics struct {
	replacements metric.Int64Counter
}

// NewCatalogMetrics creates the catalog instruments on meter
func NewCatalogMetrics(meter metric.Meter) (*CatalogMetrics, error) {
	replacements, err := meter.Int64Counter("catalog_association_replace_total",
		metric.WithDescription("Product association sets replaced, by kind and result"),
		metric.WithUnit("{replace}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog_association_replace_total: %w", err)
	}
	return &CatalogMetrics{replacements: replacements}, nil
}

// RecordReplace counts one replace of every kind in kinds. A non-nil err
// marks them all as rolled back.
func (m *CatalogMetrics) RecordReplace(ctx context.Context, kinds []string, err error) {
	result := "committed"
	if err != nil {
		result = "rolled_back"
	}
	for _, kind := range kinds {
		m.replacements.Add(ctx, 1, metric.WithAttributes(AttrKind.String(kind), AttrResult.String(result)))
	}
}
