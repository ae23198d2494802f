package billing

import (
	"context"
	"testing"

	"github.com/billadmin/backend/internal/domain/access"
	"github.com/billadmin/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func createTestMetrics(t *testing.T) (*telemetry.BillingMetrics, func() map[string]int64) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	bm, err := telemetry.NewBillingMetrics(telemetry.BillingMetricsConfig{Meter: mp.Meter("test")})
	require.NoError(t, err)

	totals := func() map[string]int64 {
		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))
		out := make(map[string]int64)
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
					for _, dp := range sum.DataPoints {
						out[m.Name] += dp.Value
					}
				}
			}
		}
		return out
	}
	return bm, totals
}

func TestOverdueService_Summary_Telemetry(t *testing.T) {
	sr := setupTestTracer(t)
	bm, totals := createTestMetrics(t)
	svc, _, _ := createTestOverdueService(t)
	svc.SetMetrics(bm)

	_, err := svc.Summary(context.Background(), access.Principal{ID: "admin-1", Role: access.RoleAdmin})
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "billing.summary", spans[0].Name())
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "invoices_skipped", spans[0].Events()[0].Name)

	got := totals()
	assert.Equal(t, int64(2), got["billadmin_billing_skipped_records_total"])
	assert.Equal(t, int64(1), got["billadmin_billing_overdue_alerts_total"])
}

func TestOverdueService_Invoice_Telemetry(t *testing.T) {
	t.Run("malformed invoice marks the span and counts the skip", func(t *testing.T) {
		sr := setupTestTracer(t)
		bm, totals := createTestMetrics(t)
		svc, _, _ := createTestOverdueService(t)
		svc.SetMetrics(bm)

		_, err := svc.Invoice(context.Background(), access.Principal{ID: "root", Role: access.RoleSuperAdmin}, "inv-4")
		require.Error(t, err)

		require.Len(t, sr.Ended(), 1)
		assert.Equal(t, "billing.invoice", sr.Ended()[0].Name())
		assert.Equal(t, codes.Error, sr.Ended()[0].Status().Code)
		assert.Equal(t, int64(1), totals()["billadmin_billing_skipped_records_total"])
	})

	t.Run("successful lookup leaves the span status unset", func(t *testing.T) {
		sr := setupTestTracer(t)
		svc, _, _ := createTestOverdueService(t)

		_, err := svc.Invoice(context.Background(), access.Principal{ID: "user-1", Role: access.RoleUser}, "inv-1")
		require.NoError(t, err)

		require.Len(t, sr.Ended(), 1)
		assert.Equal(t, codes.Unset, sr.Ended()[0].Status().Code)
	})
}
