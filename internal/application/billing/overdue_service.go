package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/billadmin/backend/internal/domain/access"
	"github.com/billadmin/backend/internal/domain/billing"
	"github.com/billadmin/backend/internal/domain/customer"
	"github.com/billadmin/backend/internal/domain/listing"
	"github.com/billadmin/backend/internal/domain/shared"
	"github.com/billadmin/backend/internal/infrastructure/dataset"
	"github.com/billadmin/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceSource supplies the invoices and the accounts that own them, both
// taken from the same loaded snapshot
type InvoiceSource interface {
	Snapshot(ctx context.Context) (dataset.Snapshot, error)
}

// SummaryCache holds encoded summaries between requests
type SummaryCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// SummaryDTO is the billing dashboard for one principal
type SummaryDTO struct {
	AsOf               time.Time              `json:"as_of"`
	OutstandingBalance decimal.Decimal        `json:"outstanding_balance"`
	OverdueAmount      decimal.Decimal        `json:"overdue_amount"`
	AccruedLateFees    decimal.Decimal        `json:"accrued_late_fees"`
	InvoiceCount       int                    `json:"invoice_count"`
	OverdueAlerts      []billing.OverdueAlert `json:"overdue_alerts"`
	Skipped            int                    `json:"skipped"`
	SkippedMessage     string                 `json:"skipped_message,omitempty"`
}

// InvoiceDetailDTO is one invoice with its evaluated billing fields
type InvoiceDetailDTO struct {
	billing.Invoice
	Evaluation billing.Evaluation `json:"evaluation"`
}

// OverdueService computes balances, overdue alerts and late fees
type OverdueService struct {
	source  InvoiceSource
	calc    billing.Calculator
	logger  *zap.Logger
	metrics *telemetry.BillingMetrics
	now     func() time.Time

	cache    SummaryCache
	cacheTTL time.Duration
	version  func() string
}

// NewOverdueService creates a new OverdueService
func NewOverdueService(source InvoiceSource, calc billing.Calculator, logger *zap.Logger) *OverdueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverdueService{
		source: source,
		calc:   calc,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the reference clock
func (s *OverdueService) WithClock(now func() time.Time) *OverdueService {
	s.now = now
	return s
}

// SetMetrics sets the billing metrics collector
func (s *OverdueService) SetMetrics(m *telemetry.BillingMetrics) {
	s.metrics = m
}

// SetCache caches summaries for at most ttl. version names the loaded data; a
// summary is only reused while version matches and no visible invoice has
// crossed into another day overdue.
func (s *OverdueService) SetCache(c SummaryCache, ttl time.Duration, version func() string) {
	s.cache = c
	s.cacheTTL = ttl
	s.version = version
}

// summaryKey returns "" when caching is off or the data has no version yet
func (s *OverdueService) summaryKey(p access.Principal, now time.Time) string {
	if s.cache == nil || s.cacheTTL <= 0 || s.version == nil {
		return ""
	}
	v := s.version()
	if v == "" {
		return ""
	}
	return fmt.Sprintf("summary:%s:%s:%s:%s", v, p.Role, p.ID, now.UTC().Format("2006010215"))
}

// summaryEntry is the cached form of a summary. ValidUntil is taken from the
// service clock so expiry does not depend on the cache backend.
type summaryEntry struct {
	Summary    *SummaryDTO `json:"summary"`
	ValidUntil time.Time   `json:"valid_until"`
}

func (s *OverdueService) cachedSummary(ctx context.Context, key string, now time.Time) (*SummaryDTO, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Summary cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var entry summaryEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Summary == nil {
		s.logger.Warn("Discarding undecodable cached summary", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !now.Before(entry.ValidUntil) {
		return nil, false
	}
	return entry.Summary, true
}

// summaryValidUntil caps the cache lifetime at the next instant an alert
// changes
func (s *OverdueService) summaryValidUntil(visible []billing.Invoice, now time.Time) time.Time {
	until := now.Add(s.cacheTTL)
	if next, ok := s.calc.NextAlertChange(visible, now); ok && next.Before(until) {
		until = next
	}
	return until
}

func (s *OverdueService) storeSummary(ctx context.Context, key string, dto *SummaryDTO, now, validUntil time.Time) {
	ttl := validUntil.Sub(now)
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(summaryEntry{Summary: dto, ValidUntil: validUntil})
	if err == nil {
		err = s.cache.Set(ctx, key, raw, ttl)
	}
	if err != nil {
		s.logger.Warn("Summary cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// invoicePolicy limits users to invoices of accounts they own
func invoicePolicy(own *customer.Ownership) access.Policy[billing.Invoice] {
	return access.Policy[billing.Invoice]{
		Owned: func(id string, inv billing.Invoice) bool { return own.OwnsAccount(id, inv.AccountID) },
	}
}

// Summary aggregates the invoices visible to p. Malformed invoices are
// skipped, counted and logged instead of failing the whole pass.
func (s *OverdueService) Summary(ctx context.Context, p access.Principal) (*SummaryDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "summary",
		telemetry.WithAttribute(telemetry.SpanAttrRole, p.Role.String()),
		telemetry.WithAttribute(telemetry.SpanAttrUserID, p.ID),
	)
	defer span.End()

	now := s.now()
	key := s.summaryKey(p, now)
	if key != "" {
		if dto, ok := s.cachedSummary(ctx, key, now); ok {
			telemetry.SetAttribute(span, telemetry.SpanAttrCacheHit, true)
			dto.AsOf = now
			return dto, nil
		}
	}

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	scope := invoicePolicy(customer.NewOwnership(snap.Accounts)).Scope(p)
	visible := listing.Filter(snap.Invoices, scope)

	balance, report := s.calc.OutstandingBalance(visible, nil)
	alerts, alertReport := s.calc.OverdueAlerts(visible, now)
	report.Merge(alertReport)
	report = dedupe(report)

	overdue := decimal.Zero
	fees := decimal.Zero
	for _, a := range alerts {
		overdue = overdue.Add(a.Amount)
		fees = fees.Add(a.LateFee)
	}

	if report.Count() > 0 {
		ids := make([]string, 0, report.Count())
		for _, skipped := range report.Skipped {
			ids = append(ids, skipped.RecordID)
		}
		s.logger.Warn("Skipped malformed invoices",
			zap.String("user_id", p.ID),
			zap.Int("count", report.Count()),
			zap.Strings("invoice_ids", ids),
		)
		telemetry.AddEvent(span, "invoices_skipped", telemetry.SpanAttrSkipped, report.Count())
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrMatched, len(visible),
		telemetry.SpanAttrAlerts, len(alerts),
		telemetry.SpanAttrSkipped, report.Count(),
	)
	if s.metrics != nil {
		s.metrics.RecordSkippedRecords(ctx, "summary", report.Count())
		s.metrics.RecordOverdueAlerts(ctx, p.Role.String(), len(alerts))
	}

	dto := &SummaryDTO{
		AsOf:               now,
		OutstandingBalance: balance,
		OverdueAmount:      overdue,
		AccruedLateFees:    fees,
		InvoiceCount:       len(visible),
		OverdueAlerts:      alerts,
		Skipped:            report.Count(),
		SkippedMessage:     report.Summary(),
	}
	if key != "" {
		s.storeSummary(ctx, key, dto, now, s.summaryValidUntil(visible, now))
	}
	return dto, nil
}

// Invoice evaluates a single invoice. Invoices outside the principal's scope
// are reported as not found; a malformed invoice fails the lookup.
func (s *OverdueService) Invoice(ctx context.Context, p access.Principal, id string) (_ *InvoiceDetailDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "invoice",
		telemetry.WithAttribute(telemetry.SpanAttrInvoiceID, id),
		telemetry.WithAttribute(telemetry.SpanAttrRole, p.Role.String()),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	inv, found := findInvoice(snap.Invoices, id)
	if !found || !invoicePolicy(customer.NewOwnership(snap.Accounts)).Scope(p)(inv) {
		return nil, shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("invoice %q not found", id))
	}

	now := s.now()
	if err := inv.Validate(now); err != nil {
		var malformed *shared.MalformedRecordError
		if errors.As(err, &malformed) {
			s.logger.Warn("Malformed invoice",
				zap.String("invoice_id", id),
				zap.String("field", malformed.Field),
				zap.String("reason", malformed.Reason),
			)
			if s.metrics != nil {
				s.metrics.RecordSkippedRecords(ctx, "invoice", 1)
			}
		}
		return nil, err
	}

	eval, err := s.calc.Evaluate(inv, now)
	if err != nil {
		return nil, err
	}
	return &InvoiceDetailDTO{Invoice: inv, Evaluation: eval}, nil
}

func findInvoice(invoices []billing.Invoice, id string) (billing.Invoice, bool) {
	for _, inv := range invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return billing.Invoice{}, false
}

// dedupe keeps the first skip of every record
func dedupe(r billing.Report) billing.Report {
	seen := make(map[string]struct{}, len(r.Skipped))
	var out billing.Report
	for _, skipped := range r.Skipped {
		if _, ok := seen[skipped.RecordID]; ok {
			continue
		}
		seen[skipped.RecordID] = struct{}{}
		out.Skipped = append(out.Skipped, skipped)
	}
	return out
}
