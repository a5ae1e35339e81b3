package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names
const (
	MetricOrdersPlaced     = "marketplace.orders.placed"
	MetricOrdersCancelled  = "marketplace.orders.cancelled"
	MetricRevenue          = "marketplace.orders.revenue"
	MetricShippingQuotes   = "marketplace.shipping.quotes"
	MetricShippingOptions  = "marketplace.shipping.options"
	MetricCheckoutSessions = "marketplace.checkout.sessions"
	MetricGuestMigrations  = "marketplace.guest.migrations"
	MetricMaintenanceRows  = "marketplace.maintenance.rows"
	MetricMaintenanceRuns  = "marketplace.maintenance.runs"
)

// Metric attribute keys
var (
	AttrKeyCurrency = attribute.Key("currency")
	AttrKeyGuest    = attribute.Key("guest")
	AttrKeyOutcome  = attribute.Key("outcome")
	AttrKeyZone     = attribute.Key("zone")
	AttrKeyStage    = attribute.Key("stage")
	AttrKeyTask     = attribute.Key("task")
)

// MarketplaceMetrics records business counters for orders, checkout and shipping
type MarketplaceMetrics struct {
	ordersPlaced    metric.Int64Counter
	ordersCancelled metric.Int64Counter
	revenue         metric.Float64Counter
	quotes          metric.Int64Counter
	quoteOptions    metric.Int64Histogram
	checkouts       metric.Int64Counter
	migrations      metric.Int64Counter
	sweptRows       metric.Int64Counter
	sweepRuns       metric.Int64Counter
}

// NewMarketplaceMetrics creates the instruments on meter
func NewMarketplaceMetrics(meter metric.Meter) (*MarketplaceMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &MarketplaceMetrics{}
	var err error
	if m.ordersPlaced, err = meter.Int64Counter(MetricOrdersPlaced,
		metric.WithDescription("Orders placed through checkout"), metric.WithUnit("{order}")); err != nil {
		return nil, wrapInstrumentErr(MetricOrdersPlaced, err)
	}
	if m.ordersCancelled, err = meter.Int64Counter(MetricOrdersCancelled,
		metric.WithDescription("Orders cancelled"), metric.WithUnit("{order}")); err != nil {
		return nil, wrapInstrumentErr(MetricOrdersCancelled, err)
	}
	if m.revenue, err = meter.Float64Counter(MetricRevenue,
		metric.WithDescription("Gross order value"), metric.WithUnit("1")); err != nil {
		return nil, wrapInstrumentErr(MetricRevenue, err)
	}
	if m.quotes, err = meter.Int64Counter(MetricShippingQuotes,
		metric.WithDescription("Shipping quotes computed"), metric.WithUnit("{quote}")); err != nil {
		return nil, wrapInstrumentErr(MetricShippingQuotes, err)
	}
	if m.quoteOptions, err = meter.Int64Histogram(MetricShippingOptions,
		metric.WithDescription("Options returned per shipping quote"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 8)); err != nil {
		return nil, wrapInstrumentErr(MetricShippingOptions, err)
	}
	if m.checkouts, err = meter.Int64Counter(MetricCheckoutSessions,
		metric.WithDescription("Checkout session transitions"), metric.WithUnit("{session}")); err != nil {
		return nil, wrapInstrumentErr(MetricCheckoutSessions, err)
	}
	if m.migrations, err = meter.Int64Counter(MetricGuestMigrations,
		metric.WithDescription("Guest carts and sessions moved to accounts")); err != nil {
		return nil, wrapInstrumentErr(MetricGuestMigrations, err)
	}
	if m.sweptRows, err = meter.Int64Counter(MetricMaintenanceRows,
		metric.WithDescription("Rows changed by background maintenance tasks")); err != nil {
		return nil, wrapInstrumentErr(MetricMaintenanceRows, err)
	}
	if m.sweepRuns, err = meter.Int64Counter(MetricMaintenanceRuns,
		metric.WithDescription("Background maintenance task runs"), metric.WithUnit("{run}")); err != nil {
		return nil, wrapInstrumentErr(MetricMaintenanceRuns, err)
	}
	return m, nil
}

func wrapInstrumentErr(name string, err error) error {
	return fmt.Errorf("failed to create instrument %s: %w", name, err)
}

// RecordOrderPlaced counts an order and adds its total to revenue
func (m *MarketplaceMetrics) RecordOrderPlaced(ctx context.Context, currency string, total decimal.Decimal, guest bool) {
	attrs := metric.WithAttributes(AttrKeyCurrency.String(currency), AttrKeyGuest.Bool(guest))
	m.ordersPlaced.Add(ctx, 1, attrs)
	m.revenue.Add(ctx, total.InexactFloat64(), metric.WithAttributes(AttrKeyCurrency.String(currency)))
}

// RecordOrderCancelled counts a cancellation
func (m *MarketplaceMetrics) RecordOrderCancelled(ctx context.Context, currency string) {
	m.ordersCancelled.Add(ctx, 1, metric.WithAttributes(AttrKeyCurrency.String(currency)))
}

// RecordShippingQuote counts a quote. zone is empty when none matched.
func (m *MarketplaceMetrics) RecordShippingQuote(ctx context.Context, zone string, options int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "unavailable"
	}
	m.quotes.Add(ctx, 1, metric.WithAttributes(AttrKeyOutcome.String(outcome), AttrKeyZone.String(zone)))
	if err == nil {
		m.quoteOptions.Record(ctx, int64(options), metric.WithAttributes(AttrKeyZone.String(zone)))
	}
}

// RecordCheckout counts a checkout session reaching stage
// (initiated, completed, cancelled, expired)
func (m *MarketplaceMetrics) RecordCheckout(ctx context.Context, stage string) {
	m.checkouts.Add(ctx, 1, metric.WithAttributes(AttrKeyStage.String(stage)))
}

// RecordGuestMigration counts what moved from a guest to an account
func (m *MarketplaceMetrics) RecordGuestMigration(ctx context.Context, carts, sessions int) {
	if carts > 0 {
		m.migrations.Add(ctx, int64(carts), metric.WithAttributes(attribute.String("kind", "cart")))
	}
	if sessions > 0 {
		m.migrations.Add(ctx, int64(sessions), metric.WithAttributes(attribute.String("kind", "checkout_session")))
	}
}

// RecordMaintenance counts one run of a background task and the rows it changed
func (m *MarketplaceMetrics) RecordMaintenance(ctx context.Context, task string, rows int64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.sweepRuns.Add(ctx, 1, metric.WithAttributes(AttrKeyTask.String(task), AttrKeyOutcome.String(outcome)))
	if rows > 0 {
		m.sweptRows.Add(ctx, rows, metric.WithAttributes(AttrKeyTask.String(task)))
	}
}
