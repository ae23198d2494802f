// Package scheduler runs background jobs on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/billadmin/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Reloader replaces the served data with a fresh snapshot
type Reloader interface {
	Reload(ctx context.Context) error
}

// RefresherConfig holds configuration for the dataset refresher
type RefresherConfig struct {
	// Interval between reloads; zero disables the periodic loop
	Interval time.Duration
	// Timeout bounds a single reload
	Timeout time.Duration
}

// DefaultRefresherConfig returns default refresher configuration
func DefaultRefresherConfig() RefresherConfig {
	return RefresherConfig{
		Interval: 5 * time.Minute,
		Timeout:  30 * time.Second,
	}
}

// Validate checks the configuration
func (c RefresherConfig) Validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("%w: interval cannot be negative", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// Refresher reloads the dataset periodically and on demand. A failed reload
// keeps the previous data and is retried on the next tick.
type Refresher struct {
	config   RefresherConfig
	reloader Reloader
	metrics  *telemetry.BillingMetrics
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	reloading sync.Mutex

	lastSuccess time.Time
	lastErr     error
}

// NewRefresher creates a new dataset refresher
func NewRefresher(config RefresherConfig, reloader Reloader, logger *zap.Logger) (*Refresher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if reloader == nil {
		return nil, fmt.Errorf("%w: reloader is required", ErrInvalidConfig)
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultRefresherConfig().Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		config:   config,
		reloader: reloader,
		logger:   logger,
	}, nil
}

// SetMetrics sets the billing metrics collector
func (r *Refresher) SetMetrics(m *telemetry.BillingMetrics) {
	r.metrics = m
}

// Start starts the periodic reload loop. It is a no-op when already running
// or when the interval is zero.
func (r *Refresher) Start(ctx context.Context) error {
	if r.config.Interval == 0 {
		r.logger.Info("Periodic dataset refresh disabled")
		return nil
	}

	r.mu.Lock()
	if r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	r.wg.Add(1)
	go r.runLoop(ctx)

	r.logger.Info("Dataset refresher started", zap.Duration("interval", r.config.Interval))
	return nil
}

// Stop stops the loop and waits for an in-flight reload, up to ctx.
func (r *Refresher) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = false
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("Dataset refresher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the periodic loop is active
func (r *Refresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRunning
}

func (r *Refresher) runLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.TriggerNow(ctx); err != nil && ctx.Err() == nil {
				r.logger.Warn("Scheduled dataset refresh failed", zap.Error(err))
			}
		}
	}
}

// TriggerNow reloads immediately. Overlapping calls fail with
// ErrRefreshInProgress instead of queueing.
func (r *Refresher) TriggerNow(ctx context.Context) error {
	if !r.reloading.TryLock() {
		return ErrRefreshInProgress
	}
	defer r.reloading.Unlock()

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	ctx, span := telemetry.StartServiceSpan(ctx, "dataset", "reload")
	defer span.End()

	started := time.Now()
	err := r.reloader.Reload(ctx)

	r.mu.Lock()
	r.lastErr = err
	if err == nil {
		r.lastSuccess = time.Now()
	}
	r.mu.Unlock()

	if err != nil {
		telemetry.RecordError(span, err)
		r.record(ctx, telemetry.ReloadFailed)
		r.logger.Error("Dataset reload failed, keeping previous data", zap.Error(err))
		return err
	}

	r.record(ctx, telemetry.ReloadSucceeded)
	r.logger.Info("Dataset reloaded", zap.Duration("took", time.Since(started)))
	return nil
}

func (r *Refresher) record(ctx context.Context, outcome telemetry.ReloadOutcome) {
	if r.metrics != nil {
		r.metrics.RecordDatasetReload(ctx, outcome)
	}
}

// Status returns the time of the last successful reload and the error of the
// most recent attempt
func (r *Refresher) Status() (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSuccess, r.lastErr
}
