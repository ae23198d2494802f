package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BillingMetrics tracks list screen traffic, skipped billing records and the
// size of the loaded dataset.
type BillingMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	listQueriesTotal     *Counter
	degradedQueriesTotal *Counter
	skippedRecordsTotal  *Counter
	overdueAlertsTotal   *Counter
	datasetReloadsTotal  *Counter
	queryDuration        *Histogram
	recordsLoaded        *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// CollectionSizer reports how many records each loaded collection holds
type CollectionSizer interface {
	CollectionSizes() map[string]int
}

// BillingMetricsConfig holds configuration for billing metrics.
type BillingMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBillingMetrics creates a new BillingMetrics instance.
func NewBillingMetrics(cfg BillingMetricsConfig) (*BillingMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BillingMetrics{
		meter:    cfg.Meter,
		logger:   logger,
		stopChan: make(chan struct{}),
	}

	var err error
	if bm.listQueriesTotal, err = NewCounter(cfg.Meter,
		"billadmin_list_queries_total",
		"Total number of list screen queries",
		"{queries}",
	); err != nil {
		return nil, err
	}
	if bm.degradedQueriesTotal, err = NewCounter(cfg.Meter,
		"billadmin_list_queries_degraded_total",
		"List queries answered with at least one warning",
		"{queries}",
	); err != nil {
		return nil, err
	}
	if bm.skippedRecordsTotal, err = NewCounter(cfg.Meter,
		"billadmin_billing_skipped_records_total",
		"Malformed records left out of billing calculations",
		"{records}",
	); err != nil {
		return nil, err
	}
	if bm.overdueAlertsTotal, err = NewCounter(cfg.Meter,
		"billadmin_billing_overdue_alerts_total",
		"Overdue alerts produced by billing summaries",
		"{alerts}",
	); err != nil {
		return nil, err
	}
	if bm.datasetReloadsTotal, err = NewCounter(cfg.Meter,
		"billadmin_dataset_reloads_total",
		"Dataset reload attempts by outcome",
		"{reloads}",
	); err != nil {
		return nil, err
	}
	if bm.queryDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "billadmin_list_query_duration_seconds",
		Description: "Time spent filtering, sorting and paginating one list query",
		Unit:        "s",
		Boundaries:  QueryDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if bm.recordsLoaded, err = NewGauge(cfg.Meter,
		"billadmin_dataset_records",
		"Records currently loaded per collection",
		"{records}",
	); err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordListQuery records one list query of screen by a principal with role.
func (bm *BillingMetrics) RecordListQuery(ctx context.Context, screen, role string, elapsed time.Duration, warnings int) {
	bm.listQueriesTotal.Inc(ctx, AttrScreen.String(screen), AttrRole.String(role))
	bm.queryDuration.RecordDuration(ctx, elapsed, AttrScreen.String(screen))
	if warnings > 0 {
		bm.degradedQueriesTotal.Inc(ctx, AttrScreen.String(screen))
	}
}

// RecordSkippedRecords counts malformed records skipped by operation.
func (bm *BillingMetrics) RecordSkippedRecords(ctx context.Context, operation string, count int) {
	if count <= 0 {
		return
	}
	bm.skippedRecordsTotal.Add(ctx, int64(count), AttrOperation.String(operation))
}

// RecordOverdueAlerts counts the alerts of one summary.
func (bm *BillingMetrics) RecordOverdueAlerts(ctx context.Context, role string, count int) {
	if count <= 0 {
		return
	}
	bm.overdueAlertsTotal.Add(ctx, int64(count), AttrRole.String(role))
}

// ReloadOutcome labels a dataset reload attempt
type ReloadOutcome string

const (
	ReloadSucceeded ReloadOutcome = "success"
	ReloadFailed    ReloadOutcome = "failed"
)

// RecordDatasetReload counts one reload attempt.
func (bm *BillingMetrics) RecordDatasetReload(ctx context.Context, outcome ReloadOutcome) {
	bm.datasetReloadsTotal.Inc(ctx, AttrOutcome.String(string(outcome)))
}

// RecordCollectionSizes sets the records gauge for every collection.
func (bm *BillingMetrics) RecordCollectionSizes(ctx context.Context, sizes map[string]int) {
	for collection, n := range sizes {
		bm.recordsLoaded.Record(ctx, int64(n), AttrCollection.String(collection))
	}
}

// StartPeriodicCollection samples the dataset size every interval (default
// one minute) until Stop is called or ctx ends. Only the first call starts
// a collector.
func (bm *BillingMetrics) StartPeriodicCollection(ctx context.Context, sizer CollectionSizer, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}
		go bm.runPeriodicCollection(ctx, sizer, interval)
	})
}

func (bm *BillingMetrics) runPeriodicCollection(ctx context.Context, sizer CollectionSizer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.RecordCollectionSizes(ctx, sizer.CollectionSizes())

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic billing metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic billing metrics collection")
			return
		case <-ticker.C:
			bm.RecordCollectionSizes(ctx, sizer.CollectionSizes())
		}
	}
}

// Stop stops the periodic collection.
func (bm *BillingMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBillingMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
