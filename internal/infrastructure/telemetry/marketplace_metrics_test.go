package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func newTestMetrics(t *testing.T) (*MarketplaceMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMarketplaceMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

func sumInt(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewMarketplaceMetrics_NilMeter(t *testing.T) {
	_, err := NewMarketplaceMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestMarketplaceMetrics_Orders(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordOrderPlaced(ctx, "USD", decimal.RequireFromString("19.99"), true)
	m.RecordOrderPlaced(ctx, "USD", decimal.RequireFromString("5.01"), false)
	m.RecordOrderCancelled(ctx, "USD")

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumInt(t, got[MetricOrdersPlaced]))
	assert.Equal(t, int64(1), sumInt(t, got[MetricOrdersCancelled]))

	revenue, ok := got[MetricRevenue].Data.(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, revenue.DataPoints, 1)
	assert.InDelta(t, 25.0, revenue.DataPoints[0].Value, 0.0001)
}

func TestMarketplaceMetrics_Shipping(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordShippingQuote(ctx, "Domestic", 3, nil)
	m.RecordShippingQuote(ctx, "", 0, errors.New("no zone"))

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumInt(t, got[MetricShippingQuotes]))
	hist, ok := got[MetricShippingOptions].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
}

func TestMarketplaceMetrics_CheckoutAndMigration(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordCheckout(ctx, "initiated")
	m.RecordCheckout(ctx, "completed")
	m.RecordGuestMigration(ctx, 1, 2)
	m.RecordGuestMigration(ctx, 0, 0)

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumInt(t, got[MetricCheckoutSessions]))
	assert.Equal(t, int64(3), sumInt(t, got[MetricGuestMigrations]))
}

func TestMarketplaceMetrics_Maintenance(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordMaintenance(ctx, "expire_checkout_sessions", 4, nil)
	m.RecordMaintenance(ctx, "purge_guest_carts", 0, errors.New("db down"))

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumInt(t, got[MetricMaintenanceRuns]))
	assert.Equal(t, int64(4), sumInt(t, got[MetricMaintenanceRows]))
}
