package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// RegisterDBPoolMetrics reports the connection pool of sqlDB on every
// collection: open connections by state, the configured maximum, and the
// number and total time of waits for a free connection.
// Unregister the returned registration before closing the pool.
func RegisterDBPoolMetrics(meter metric.Meter, sqlDB *sql.DB) (metric.Registration, error) {
	conns, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Open connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create db_pool_connections: %w", err)
	}
	maxConns, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum number of open connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create db_pool_connections_max: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Connections waited for"),
		metric.WithUnit("{wait}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create db_pool_wait_total: %w", err)
	}
	waitTime, err := meter.Float64ObservableCounter("db_pool_wait_duration_seconds",
		metric.WithDescription("Total time blocked waiting for a connection"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create db_pool_wait_duration_seconds: %w", err)
	}

	inUse := metric.WithAttributes(AttrPoolState.String("in_use"))
	idle := metric.WithAttributes(AttrPoolState.String("idle"))

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(conns, int64(stats.InUse), inUse)
		o.ObserveInt64(conns, int64(stats.Idle), idle)
		o.ObserveInt64(maxConns, int64(stats.MaxOpenConnections))
		o.ObserveInt64(waits, stats.WaitCount)
		o.ObserveFloat64(waitTime, stats.WaitDuration.Seconds())
		return nil
	}, conns, maxConns, waits, waitTime)
}
