package observability

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
)

type capturingExporter struct {
	mu      sync.Mutex
	exports []metricdata.ResourceMetrics
}

func (e *capturingExporter) Temporality(k sdkmetric.InstrumentKind) metricdata.Temporality {
	return sdkmetric.DefaultTemporalitySelector(k)
}

func (e *capturingExporter) Aggregation(k sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(k)
}

func (e *capturingExporter) Export(_ context.Context, rm *metricdata.ResourceMetrics) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exports = append(e.exports, *rm)
	return nil
}

func (e *capturingExporter) ForceFlush(context.Context) error { return nil }

func (e *capturingExporter) Shutdown(context.Context) error { return nil }

func (e *capturingExporter) metricNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var names []string
	for _, rm := range e.exports {
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				names = append(names, m.Name)
			}
		}
	}
	return names
}

func TestMeterProvider_PeriodicReaderExportsCounters(t *testing.T) {
	exporter := &capturingExporter{}
	provider := newMeterProvider(resource.Empty(), sdkmetric.NewPeriodicReader(exporter, periodicOptions(Settings{MetricInterval: time.Hour})...))

	counter, err := provider.Meter("test").Int64Counter("orders.created")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	require.NoError(t, provider.ForceFlush(context.Background()))
	require.Contains(t, exporter.metricNames(), "orders.created")
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestPeriodicOptions(t *testing.T) {
	require.Empty(t, periodicOptions(Settings{}))
	require.Len(t, periodicOptions(Settings{MetricInterval: 5 * time.Second}), 1)
}
